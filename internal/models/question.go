package models

import "time"

type Section string

const (
	SectionTheory       Section = "electrical_theory"
	SectionCode         Section = "code_standards"
	SectionInstallation Section = "installation_methods"
	SectionSafety       Section = "workplace_safety"
	SectionMotors       Section = "motors_controls"
)

var ValidSections = map[Section]bool{
	SectionTheory:       true,
	SectionCode:         true,
	SectionInstallation: true,
	SectionSafety:       true,
	SectionMotors:       true,
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var ValidDifficulties = map[Difficulty]bool{
	DifficultyEasy:   true,
	DifficultyMedium: true,
	DifficultyHard:   true,
}

// MinYear and MaxYear bound the apprenticeship training years.
const (
	MinYear = 1
	MaxYear = 4
)

// Question is immutable reference data, writable only through admin seeding.
type Question struct {
	ID            int64      `json:"id"`
	Year          int        `json:"year"`
	Section       Section    `json:"section"`
	Difficulty    Difficulty `json:"difficulty"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correct_answer"`
	Explanation   string     `json:"explanation"`
	CreatedAt     time.Time  `json:"created_at"`
}

type StudyGuide struct {
	ID        int64     `json:"id"`
	Year      int       `json:"year"`
	Section   Section   `json:"section"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// QuestionFilter holds optional equality predicates combined with AND.
// A nil field means no restriction.
type QuestionFilter struct {
	Year       *int
	Section    *Section
	Difficulty *Difficulty
}

type GuideFilter struct {
	Year    *int
	Section *Section
}

type QuestionListResponse struct {
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
}

type GuideListResponse struct {
	Guides []StudyGuide `json:"guides"`
	Total  int          `json:"total"`
}

// ── Admin Seeding Types ──────────────────────────────────

type ImportRequest struct {
	Questions []Question   `json:"questions"`
	Guides    []StudyGuide `json:"guides"`
}

type ImportResult struct {
	QuestionsImported int `json:"questions_imported"`
	GuidesImported    int `json:"guides_imported"`
}

type GenerateRequest struct {
	Year       int        `json:"year"`
	Section    Section    `json:"section"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"count"`
}

type GenerateResponse struct {
	Inserted  int        `json:"inserted"`
	Questions []Question `json:"questions"`
}
