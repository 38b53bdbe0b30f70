package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

// ── Questions ────────────────────────────────────────────

type questionStore struct {
	db *sql.DB
}

func (s *questionStore) GetAll(ctx context.Context, f models.QuestionFilter) ([]models.Question, error) {
	var clauses []string
	var args []interface{}

	if f.Year != nil {
		clauses = append(clauses, "year = ?")
		args = append(args, *f.Year)
	}
	if f.Section != nil {
		clauses = append(clauses, "section = ?")
		args = append(args, *f.Section)
	}
	if f.Difficulty != nil {
		clauses = append(clauses, "difficulty = ?")
		args = append(args, *f.Difficulty)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, year, section, difficulty, text, options, correct_answer, explanation, created_at
		 FROM questions %s ORDER BY year, section, id`, where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		var options string
		if err := rows.Scan(&q.ID, &q.Year, &q.Section, &q.Difficulty, &q.Text,
			&options, &q.CorrectAnswer, &q.Explanation, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *questionStore) GetByID(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	var options string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, year, section, difficulty, text, options, correct_answer, explanation, created_at
		 FROM questions WHERE id = ?`,
		id,
	).Scan(&q.ID, &q.Year, &q.Section, &q.Difficulty, &q.Text,
		&options, &q.CorrectAnswer, &q.Explanation, &q.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &q, nil
}

func (s *questionStore) Insert(ctx context.Context, questions []models.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	inserted := 0
	for _, q := range questions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO questions (year, section, difficulty, text, options, correct_answer, explanation, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			q.Year, q.Section, q.Difficulty, q.Text, string(jsonBytes(q.Options)),
			q.CorrectAnswer, q.Explanation, now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert question: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}

// ── Study Guides ─────────────────────────────────────────

type guideStore struct {
	db *sql.DB
}

func (s *guideStore) GetAll(ctx context.Context, f models.GuideFilter) ([]models.StudyGuide, error) {
	var clauses []string
	var args []interface{}

	if f.Year != nil {
		clauses = append(clauses, "year = ?")
		args = append(args, *f.Year)
	}
	if f.Section != nil {
		clauses = append(clauses, "section = ?")
		args = append(args, *f.Section)
	}

	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT id, year, section, title, content, created_at
		 FROM study_guides %s ORDER BY year, section, id`, where),
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("list guides: %w", err)
	}
	defer rows.Close()

	var guides []models.StudyGuide
	for rows.Next() {
		var g models.StudyGuide
		if err := rows.Scan(&g.ID, &g.Year, &g.Section, &g.Title, &g.Content, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan guide: %w", err)
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

func (s *guideStore) GetByID(ctx context.Context, id int64) (*models.StudyGuide, error) {
	var g models.StudyGuide
	err := s.db.QueryRowContext(ctx,
		`SELECT id, year, section, title, content, created_at FROM study_guides WHERE id = ?`,
		id,
	).Scan(&g.ID, &g.Year, &g.Section, &g.Title, &g.Content, &g.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get guide: %w", err)
	}
	return &g, nil
}

func (s *guideStore) Insert(ctx context.Context, guides []models.StudyGuide) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	inserted := 0
	for _, g := range guides {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO study_guides (year, section, title, content, created_at)
			 VALUES (?, ?, ?, ?, ?)`,
			g.Year, g.Section, g.Title, g.Content, now,
		)
		if err != nil {
			return 0, fmt.Errorf("insert guide: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return inserted, nil
}
