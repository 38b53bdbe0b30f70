package models

import "time"

// Keys used inside the streak_data JSON field.
const (
	StreakCurrent       = "current_streak"
	StreakLongest       = "longest_streak"
	StreakLastActiveDay = "last_active_day" // days since Unix epoch, UTC
)

// Keys used inside the statistics JSON field. Per-section tallies use
// StatAnswered/StatCorrect prefixes followed by the section name.
const (
	StatTotalAnswered    = "total_answered"
	StatTotalCorrect     = "total_correct"
	StatQuizzesCompleted = "quizzes_completed"
	StatAnsweredPrefix   = "answered:"
	StatCorrectPrefix    = "correct:"
)

// ProgressDocument is the JSON aggregate of one user's progress for one
// training year. Exactly one row exists per (user_id, year); updates replace
// every sub-field wholesale.
type ProgressDocument struct {
	ID            int64              `json:"id,omitempty"`
	UserID        int64              `json:"user_id"`
	Year          int                `json:"year"`
	ProgressData  map[string]string  `json:"progress_data"`
	ExamReadiness map[string]float64 `json:"exam_readiness"`
	Statistics    map[string]int     `json:"statistics"`
	Bookmarks     []int64            `json:"bookmarks"`
	WeakAreas     []string           `json:"weak_areas"`
	StreakData    map[string]int64   `json:"streak_data"`
	UpdatedAt     time.Time          `json:"updated_at,omitempty"`
}

// NewProgressDocument returns the zero-valued document: every JSON field is
// an empty container, never nil. This is what Get returns when no row exists.
func NewProgressDocument(userID int64, year int) *ProgressDocument {
	return &ProgressDocument{
		UserID:        userID,
		Year:          year,
		ProgressData:  map[string]string{},
		ExamReadiness: map[string]float64{},
		Statistics:    map[string]int{},
		Bookmarks:     []int64{},
		WeakAreas:     []string{},
		StreakData:    map[string]int64{},
	}
}

// Normalize replaces nil sub-fields with empty containers. Update treats
// omitted fields as empty, not as unchanged, so callers must assemble the
// complete document before writing.
func (d *ProgressDocument) Normalize() {
	if d.ProgressData == nil {
		d.ProgressData = map[string]string{}
	}
	if d.ExamReadiness == nil {
		d.ExamReadiness = map[string]float64{}
	}
	if d.Statistics == nil {
		d.Statistics = map[string]int{}
	}
	if d.Bookmarks == nil {
		d.Bookmarks = []int64{}
	}
	if d.WeakAreas == nil {
		d.WeakAreas = []string{}
	}
	if d.StreakData == nil {
		d.StreakData = map[string]int64{}
	}
}

// ── Quiz Sessions ────────────────────────────────────────

// SessionQuestion is the immutable snapshot of one served question. The
// snapshot is taken at session start so later catalog edits cannot change
// how a past attempt is scored.
type SessionQuestion struct {
	QuestionID    int64    `json:"question_id"`
	Section       Section  `json:"section"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

type QuizSession struct {
	ID             string            `json:"id"`
	UserID         int64             `json:"user_id"`
	Year           int               `json:"year"`
	QuizMode       string            `json:"quiz_mode"`
	Questions      []SessionQuestion `json:"questions"`
	Answers        map[string]string `json:"answers"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	TimeTaken      int               `json:"time_taken"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type StartQuizRequest struct {
	Year        int     `json:"year"`
	QuizMode    string  `json:"quiz_mode"`
	QuestionIDs []int64 `json:"question_ids"`
}

type CompleteQuizRequest struct {
	Answers   map[string]string `json:"answers"`
	TimeTaken int               `json:"time_taken"`
}

type CompleteQuizResponse struct {
	Session  QuizSession      `json:"session"`
	Progress ProgressDocument `json:"progress"`
}

type SessionListResponse struct {
	Sessions []QuizSession `json:"sessions"`
	Total    int           `json:"total"`
}

// ── Bookmarks ────────────────────────────────────────────

type Bookmark struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	QuestionID int64     `json:"question_id"`
	Year       int       `json:"year"`
	CreatedAt  time.Time `json:"created_at"`
}

// BookmarkEntry is a bookmark joined with its question's display fields.
type BookmarkEntry struct {
	Bookmark
	QuestionText string     `json:"question_text"`
	Section      Section    `json:"section"`
	Difficulty   Difficulty `json:"difficulty"`
}

type BookmarkListResponse struct {
	Bookmarks []BookmarkEntry `json:"bookmarks"`
	Total     int             `json:"total"`
}
