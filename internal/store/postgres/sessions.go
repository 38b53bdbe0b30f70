package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type sessionStore struct {
	db *sql.DB
}

const sessionCols = `id, user_id, year, quiz_mode, questions, answers,
	score, total_questions, time_taken, completed_at, created_at`

func scanSession(scan func(dest ...interface{}) error) (*models.QuizSession, error) {
	var sess models.QuizSession
	var questions, answers []byte
	var completedAt sql.NullTime
	err := scan(&sess.ID, &sess.UserID, &sess.Year, &sess.QuizMode,
		&questions, &answers, &sess.Score, &sess.TotalQuestions,
		&sess.TimeTaken, &completedAt, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(questions, &sess.Questions); err != nil {
		return nil, fmt.Errorf("decode session questions: %w", err)
	}
	if err := json.Unmarshal(answers, &sess.Answers); err != nil {
		return nil, fmt.Errorf("decode session answers: %w", err)
	}
	if completedAt.Valid {
		sess.CompletedAt = &completedAt.Time
	}
	return &sess, nil
}

func (s *sessionStore) Create(ctx context.Context, sess *models.QuizSession) (*models.QuizSession, error) {
	// total_questions is derived from the snapshot, never trusted from input.
	sess.TotalQuestions = len(sess.Questions)
	if sess.Answers == nil {
		sess.Answers = map[string]string{}
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO quiz_sessions (id, user_id, year, quiz_mode, questions, answers, total_questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING %s`, sessionCols),
		sess.ID, sess.UserID, sess.Year, sess.QuizMode,
		jsonBytes(sess.Questions), jsonBytes(sess.Answers), sess.TotalQuestions,
	)
	created, err := scanSession(row.Scan)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return created, nil
}

func (s *sessionStore) GetByID(ctx context.Context, id string) (*models.QuizSession, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM quiz_sessions WHERE id = $1`, sessionCols), id)
	sess, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

func (s *sessionStore) Complete(ctx context.Context, id string, answers map[string]string, score, timeTaken int) (*models.QuizSession, error) {
	if answers == nil {
		answers = map[string]string{}
	}
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE quiz_sessions
		 SET answers = $2, score = $3, time_taken = $4, completed_at = NOW()
		 WHERE id = $1
		 RETURNING %s`, sessionCols),
		id, jsonBytes(answers), score, timeTaken,
	)
	sess, err := scanSession(row.Scan)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	return sess, nil
}

func (s *sessionStore) GetHistory(ctx context.Context, userID int64, year, limit int) ([]models.QuizSession, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM quiz_sessions
		 WHERE user_id = $1 AND year = $2 AND completed_at IS NOT NULL
		 ORDER BY completed_at DESC
		 LIMIT $3`, sessionCols),
		userID, year, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}
	defer rows.Close()

	var sessions []models.QuizSession
	for rows.Next() {
		sess, err := scanSession(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}
