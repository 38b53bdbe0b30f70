// Package store defines the data-access boundary shared by the postgres and
// offline (sqlite) backends. The implementation is chosen once at startup
// from configuration; nothing branches on the backend per call.
package store

import (
	"context"

	"github.com/tradebench/backend/internal/models"
)

type ProfileStore interface {
	Create(ctx context.Context, p *models.Profile) (*models.Profile, error)
	GetByID(ctx context.Context, id int64) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	Update(ctx context.Context, id int64, req models.UpdateProfileRequest) (*models.Profile, error)
	// SetPassword is the privileged call behind security-answer resets.
	SetPassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
}

type QuestionStore interface {
	GetAll(ctx context.Context, f models.QuestionFilter) ([]models.Question, error)
	GetByID(ctx context.Context, id int64) (*models.Question, error)
	Insert(ctx context.Context, questions []models.Question) (int, error)
}

type StudyGuideStore interface {
	GetAll(ctx context.Context, f models.GuideFilter) ([]models.StudyGuide, error)
	GetByID(ctx context.Context, id int64) (*models.StudyGuide, error)
	Insert(ctx context.Context, guides []models.StudyGuide) (int, error)
}

type ProgressStore interface {
	// Get returns the stored document, or the zero-valued default when no
	// row exists for (userID, year). Absence is not an error.
	Get(ctx context.Context, userID int64, year int) (*models.ProgressDocument, error)
	// Update upserts the full document keyed on (userID, year). Supplied
	// sub-fields replace the stored ones wholesale; omitted fields are
	// written as empty containers.
	Update(ctx context.Context, userID int64, year int, doc *models.ProgressDocument) (*models.ProgressDocument, error)
	// Reset clears every JSON sub-field back to its empty container.
	Reset(ctx context.Context, userID int64, year int) error
}

type BookmarkStore interface {
	// Add returns ErrConflict when (userID, questionID) already exists.
	Add(ctx context.Context, userID, questionID int64, year int) (*models.Bookmark, error)
	// Remove is idempotent; removing an absent bookmark is not an error.
	Remove(ctx context.Context, userID, questionID int64) error
	GetAll(ctx context.Context, userID int64, year *int) ([]models.BookmarkEntry, error)
}

type SessionStore interface {
	Create(ctx context.Context, s *models.QuizSession) (*models.QuizSession, error)
	GetByID(ctx context.Context, id string) (*models.QuizSession, error)
	// Complete stamps completed_at and returns ErrNotFound for unknown ids.
	Complete(ctx context.Context, id string, answers map[string]string, score, timeTaken int) (*models.QuizSession, error)
	// GetHistory returns completed sessions only, newest first.
	GetHistory(ctx context.Context, userID int64, year, limit int) ([]models.QuizSession, error)
}

type Store interface {
	Profiles() ProfileStore
	Questions() QuestionStore
	StudyGuides() StudyGuideStore
	Progress() ProgressStore
	Bookmarks() BookmarkStore
	Sessions() SessionStore
	Close() error
}
