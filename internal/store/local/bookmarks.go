package local

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type bookmarkStore struct {
	db *sql.DB
}

func (s *bookmarkStore) Add(ctx context.Context, userID, questionID int64, year int) (*models.Bookmark, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (user_id, question_id, year, created_at)
		 VALUES (?, ?, ?, ?)`,
		userID, questionID, year, now,
	)
	if isDuplicate(err) {
		return nil, store.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("add bookmark: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("add bookmark id: %w", err)
	}
	return &models.Bookmark{
		ID:         id,
		UserID:     userID,
		QuestionID: questionID,
		Year:       year,
		CreatedAt:  now,
	}, nil
}

func (s *bookmarkStore) Remove(ctx context.Context, userID, questionID int64) error {
	// Removing an absent bookmark is a no-op.
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM bookmarks WHERE user_id = ? AND question_id = ?`,
		userID, questionID,
	)
	if err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

func (s *bookmarkStore) GetAll(ctx context.Context, userID int64, year *int) ([]models.BookmarkEntry, error) {
	query := `SELECT b.id, b.user_id, b.question_id, b.year, b.created_at,
	       q.text, q.section, q.difficulty
	 FROM bookmarks b
	 JOIN questions q ON q.id = b.question_id
	 WHERE b.user_id = ?`
	args := []interface{}{userID}

	if year != nil {
		query += ` AND b.year = ?`
		args = append(args, *year)
	}
	query += ` ORDER BY b.created_at DESC, b.id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var entries []models.BookmarkEntry
	for rows.Next() {
		var e models.BookmarkEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.QuestionID, &e.Year, &e.CreatedAt,
			&e.QuestionText, &e.Section, &e.Difficulty); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
