package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/tradebench/backend/internal/models"
)

type progressStore struct {
	db *sql.DB
}

const progressCols = `id, user_id, year, progress_data, exam_readiness, statistics,
	bookmarks, weak_areas, streak_data, updated_at`

func scanProgress(row *sql.Row) (*models.ProgressDocument, error) {
	var d models.ProgressDocument
	var progressData, readiness, stats, bookmarks, weakAreas, streak []byte
	err := row.Scan(&d.ID, &d.UserID, &d.Year, &progressData, &readiness, &stats,
		&bookmarks, &weakAreas, &streak, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	fields := []struct {
		raw []byte
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
		if err := json.Unmarshal(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("decode progress field: %w", err)
		}
	}
	d.Normalize()
	return &d, nil
}

func (s *progressStore) Get(ctx context.Context, userID int64, year int) (*models.ProgressDocument, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM user_progress WHERE user_id = $1 AND year = $2`, progressCols),
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

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO user_progress
		 (user_id, year, progress_data, exam_readiness, statistics, bookmarks, weak_areas, streak_data, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		 ON CONFLICT (user_id, year) DO UPDATE SET
		     progress_data = EXCLUDED.progress_data,
		     exam_readiness = EXCLUDED.exam_readiness,
		     statistics = EXCLUDED.statistics,
		     bookmarks = EXCLUDED.bookmarks,
		     weak_areas = EXCLUDED.weak_areas,
		     streak_data = EXCLUDED.streak_data,
		     updated_at = NOW()
		 RETURNING %s`, progressCols),
		userID, year,
		jsonBytes(doc.ProgressData), jsonBytes(doc.ExamReadiness), jsonBytes(doc.Statistics),
		jsonBytes(doc.Bookmarks), jsonBytes(doc.WeakAreas), jsonBytes(doc.StreakData),
	)
	stored, err := scanProgress(row)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return stored, nil
}

func (s *progressStore) Reset(ctx context.Context, userID int64, year int) error {
	_, err := s.Update(ctx, userID, year, models.NewProgressDocument(userID, year))
	return err
}
