package local

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/tradebench/backend/internal/models"
)

//go:embed fixtures/*.json
var fixturesFS embed.FS

// seedFixtures loads the bundled reference catalog on first open. A
// non-empty questions table means the catalog was already seeded (or
// imported by an admin) and the fixtures are left alone.
func (s *Store) seedFixtures() error {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	raw, err := fixturesFS.ReadFile("fixtures/questions.json")
	if err != nil {
		return fmt.Errorf("read question fixtures: %w", err)
	}
	var questions []models.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return fmt.Errorf("decode question fixtures: %w", err)
	}

	raw, err = fixturesFS.ReadFile("fixtures/study_guides.json")
	if err != nil {
		return fmt.Errorf("read guide fixtures: %w", err)
	}
	var guides []models.StudyGuide
	if err := json.Unmarshal(raw, &guides); err != nil {
		return fmt.Errorf("decode guide fixtures: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	for _, q := range questions {
		_, err := tx.Exec(
			`INSERT INTO questions (year, section, difficulty, text, options, correct_answer, explanation, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			q.Year, q.Section, q.Difficulty, q.Text, string(jsonBytes(q.Options)),
			q.CorrectAnswer, q.Explanation, now,
		)
		if err != nil {
			return fmt.Errorf("seed question: %w", err)
		}
	}
	for _, g := range guides {
		_, err := tx.Exec(
			`INSERT INTO study_guides (year, section, title, content, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			g.Year, g.Section, g.Title, g.Content, now,
		)
		if err != nil {
			return fmt.Errorf("seed guide: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}

	log.Printf("[local] seeded offline catalog: %d questions, %d guides", len(questions), len(guides))
	return nil
}
