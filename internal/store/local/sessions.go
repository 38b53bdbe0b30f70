package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

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
	var questions, answers string
	var completedAt sql.NullTime
	err := scan(&sess.ID, &sess.UserID, &sess.Year, &sess.QuizMode,
		&questions, &answers, &sess.Score, &sess.TotalQuestions,
		&sess.TimeTaken, &completedAt, &sess.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(questions), &sess.Questions); err != nil {
		return nil, fmt.Errorf("decode session questions: %w", err)
	}
	if err := json.Unmarshal([]byte(answers), &sess.Answers); err != nil {
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

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO quiz_sessions (id, user_id, year, quiz_mode, questions, answers, total_questions, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, sess.Year, sess.QuizMode,
		string(jsonBytes(sess.Questions)), string(jsonBytes(sess.Answers)),
		sess.TotalQuestions, time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return s.GetByID(ctx, sess.ID)
}

func (s *sessionStore) GetByID(ctx context.Context, id string) (*models.QuizSession, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM quiz_sessions WHERE id = ?`, sessionCols), id)
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
	res, err := s.db.ExecContext(ctx,
		`UPDATE quiz_sessions
		 SET answers = ?, score = ?, time_taken = ?, completed_at = ?
		 WHERE id = ?`,
		string(jsonBytes(answers)), score, timeTaken, time.Now(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetByID(ctx, id)
}

func (s *sessionStore) GetHistory(ctx context.Context, userID int64, year, limit int) ([]models.QuizSession, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT %s FROM quiz_sessions
		 WHERE user_id = ? AND year = ? AND completed_at IS NOT NULL
		 ORDER BY completed_at DESC
		 LIMIT ?`, sessionCols),
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
