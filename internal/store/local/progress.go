package local

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tradebench/backend/internal/models"
)

type progressStore struct {
	db *sql.DB
}

const progressCols = `id, user_id, year, progress_data, exam_readiness, statistics,
	bookmarks, weak_areas, streak_data, updated_at`

func scanProgress(row *sql.Row) (*models.ProgressDocument, error) {
	var d models.ProgressDocument
	var progressData, readiness, stats, bookmarks, weakAreas, streak string
	err := row.Scan(&d.ID, &d.UserID, &d.Year, &progressData, &readiness, &stats,
		&bookmarks, &weakAreas, &streak, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		raw string
		dst interface{}
	}{
		{progressData, &d.ProgressData},
		{readiness, &d.ExamReadiness},
		{stats, &d.Statistics},
		{bookmarks, &d.Bookmarks},
		{weakAreas, &d.WeakAreas},
		{streak, &d.StreakData},
	}
	for _, f := range fields {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("decode progress field: %w", err)
		}
	}
	d.Normalize()
	return &d, nil
}

func (s *progressStore) Get(ctx context.Context, userID int64, year int) (*models.ProgressDocument, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM user_progress WHERE user_id = ? AND year = ?`, progressCols),
		userID, year,
	)
	doc, err := scanProgress(row)
	if err == sql.ErrNoRows {
		// Absence is not an error — callers always get a usable document.
		return models.NewProgressDocument(userID, year), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return doc, nil
}

func (s *progressStore) Update(ctx context.Context, userID int64, year int, doc *models.ProgressDocument) (*models.ProgressDocument, error) {
	doc.Normalize()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_progress
		 (user_id, year, progress_data, exam_readiness, statistics, bookmarks, weak_areas, streak_data, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, year) DO UPDATE SET
		     progress_data = excluded.progress_data,
		     exam_readiness = excluded.exam_readiness,
		     statistics = excluded.statistics,
		     bookmarks = excluded.bookmarks,
		     weak_areas = excluded.weak_areas,
		     streak_data = excluded.streak_data,
		     updated_at = excluded.updated_at`,
		userID, year,
		string(jsonBytes(doc.ProgressData)), string(jsonBytes(doc.ExamReadiness)), string(jsonBytes(doc.Statistics)),
		string(jsonBytes(doc.Bookmarks)), string(jsonBytes(doc.WeakAreas)), string(jsonBytes(doc.StreakData)),
		time.Now(),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return s.Get(ctx, userID, year)
}

func (s *progressStore) Reset(ctx context.Context, userID int64, year int) error {
	_, err := s.Update(ctx, userID, year, models.NewProgressDocument(userID, year))
	return err
}
