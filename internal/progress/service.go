package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type Service struct {
	progress     store.ProgressStore
	sessions     store.SessionStore
	bookmarks    store.BookmarkStore
	questions    store.QuestionStore
	historyLimit int
}

func NewService(st store.Store, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = 10
	}
	return &Service{
		progress:     st.Progress(),
		sessions:     st.Sessions(),
		bookmarks:    st.Bookmarks(),
		questions:    st.Questions(),
		historyLimit: historyLimit,
	}
}

func (s *Service) GetProgress(ctx context.Context, userID int64, year int) (*models.ProgressDocument, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	return s.progress.Get(ctx, userID, year)
}

// UpdateProgress replaces the stored document wholesale with the supplied
// one. Missing sub-fields are written as empty containers, not preserved.
func (s *Service) UpdateProgress(ctx context.Context, userID int64, year int, doc *models.ProgressDocument) (*models.ProgressDocument, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	doc.UserID = userID
	doc.Year = year
	return s.progress.Update(ctx, userID, year, doc)
}

func (s *Service) ResetProgress(ctx context.Context, userID int64, year int) error {
	if err := validateYear(year); err != nil {
		return err
	}
	return s.progress.Reset(ctx, userID, year)
}

// StartQuiz snapshots the requested questions into a new open session.
// Later catalog edits cannot change how this attempt is scored.
func (s *Service) StartQuiz(ctx context.Context, userID int64, req models.StartQuizRequest) (*models.QuizSession, error) {
	if err := validateYear(req.Year); err != nil {
		return nil, err
	}
	if len(req.QuestionIDs) == 0 {
		return nil, fmt.Errorf("question_ids is required")
	}
	if req.QuizMode == "" {
		req.QuizMode = "practice"
	}

	snapshot := make([]models.SessionQuestion, 0, len(req.QuestionIDs))
	for _, id := range req.QuestionIDs {
		q, err := s.questions.GetByID(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("question %d: %w", id, store.ErrNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("load question %d: %w", id, err)
		}
		snapshot = append(snapshot, models.SessionQuestion{
			QuestionID:    q.ID,
			Section:       q.Section,
			Text:          q.Text,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	return s.sessions.Create(ctx, &models.QuizSession{
		ID:        uuid.NewString(),
		UserID:    userID,
		Year:      req.Year,
		QuizMode:  req.QuizMode,
		Questions: snapshot,
	})
}

// CompleteQuiz scores the session against its snapshot, stamps it
// completed, folds the result into the progress document and upserts it.
func (s *Service) CompleteQuiz(ctx context.Context, userID int64, sessionID string, req models.CompleteQuizRequest) (*models.CompleteQuizResponse, error) {
	session, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// A session is only visible to its owner.
	if session.UserID != userID {
		return nil, store.ErrNotFound
	}
	if session.CompletedAt != nil {
		return nil, fmt.Errorf("session already completed: %w", store.ErrConflict)
	}
	if req.Answers == nil {
		req.Answers = map[string]string{}
	}

	score := Score(session, req.Answers)
	completed, err := s.sessions.Complete(ctx, sessionID, req.Answers, score, req.TimeTaken)
	if err != nil {
		return nil, err
	}

	doc, err := s.progress.Get(ctx, userID, session.Year)
	if err != nil {
		return nil, err
	}
	ApplyQuizResult(doc, completed, req.Answers, time.Now())

	stored, err := s.progress.Update(ctx, userID, session.Year, doc)
	if err != nil {
		return nil, err
	}
	return &models.CompleteQuizResponse{Session: *completed, Progress: *stored}, nil
}

func (s *Service) History(ctx context.Context, userID int64, year int) ([]models.QuizSession, error) {
	if err := validateYear(year); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.GetHistory(ctx, userID, year, s.historyLimit)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []models.QuizSession{}
	}
	return sessions, nil
}

// AddBookmark records a bookmark, deriving the year from the question.
func (s *Service) AddBookmark(ctx context.Context, userID, questionID int64) (*models.Bookmark, error) {
	q, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return s.bookmarks.Add(ctx, userID, questionID, q.Year)
}

func (s *Service) RemoveBookmark(ctx context.Context, userID, questionID int64) error {
	return s.bookmarks.Remove(ctx, userID, questionID)
}

func (s *Service) ListBookmarks(ctx context.Context, userID int64, year *int) ([]models.BookmarkEntry, error) {
	if year != nil {
		if err := validateYear(*year); err != nil {
			return nil, err
		}
	}
	entries, err := s.bookmarks.GetAll(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.BookmarkEntry{}
	}
	return entries, nil
}

func validateYear(year int) error {
	if year < models.MinYear || year > models.MaxYear {
		return fmt.Errorf("year must be between %d and %d", models.MinYear, models.MaxYear)
	}
	return nil
}
