package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

// memStore is an in-memory store.Store covering what the progress service
// touches. Profile and guide access are not exercised here.
type memStore struct {
	progressRows map[string]*models.ProgressDocument
	sessions     map[string]*models.QuizSession
	bookmarkSet  map[[2]int64]bool
	questions    map[int64]*models.Question
}

func newMemStore() *memStore {
	return &memStore{
		progressRows: map[string]*models.ProgressDocument{},
		sessions:     map[string]*models.QuizSession{},
		bookmarkSet:  map[[2]int64]bool{},
		questions:    map[int64]*models.Question{},
	}
}

func progressKey(userID int64, year int) string {
	return fmt.Sprintf("%d:%d", userID, year)
}

func (m *memStore) Profiles() store.ProfileStore       { return nil }
func (m *memStore) StudyGuides() store.StudyGuideStore { return nil }
func (m *memStore) Questions() store.QuestionStore     { return (*memQuestions)(m) }
func (m *memStore) Progress() store.ProgressStore      { return (*memProgress)(m) }
func (m *memStore) Bookmarks() store.BookmarkStore     { return (*memBookmarks)(m) }
func (m *memStore) Sessions() store.SessionStore       { return (*memSessions)(m) }
func (m *memStore) Close() error                       { return nil }

type memQuestions memStore

func (m *memQuestions) GetAll(context.Context, models.QuestionFilter) ([]models.Question, error) {
	return nil, nil
}
func (m *memQuestions) GetByID(_ context.Context, id int64) (*models.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return q, nil
}
func (m *memQuestions) Insert(context.Context, []models.Question) (int, error) { return 0, nil }

type memProgress memStore

func (m *memProgress) Get(_ context.Context, userID int64, year int) (*models.ProgressDocument, error) {
	if doc, ok := m.progressRows[progressKey(userID, year)]; ok {
		clone := *doc
		return &clone, nil
	}
	return models.NewProgressDocument(userID, year), nil
}
func (m *memProgress) Update(_ context.Context, userID int64, year int, doc *models.ProgressDocument) (*models.ProgressDocument, error) {
	doc.Normalize()
	clone := *doc
	m.progressRows[progressKey(userID, year)] = &clone
	return doc, nil
}
func (m *memProgress) Reset(ctx context.Context, userID int64, year int) error {
	_, err := m.Update(ctx, userID, year, models.NewProgressDocument(userID, year))
	return err
}

type memBookmarks memStore

func (m *memBookmarks) Add(_ context.Context, userID, questionID int64, year int) (*models.Bookmark, error) {
	key := [2]int64{userID, questionID}
	if m.bookmarkSet[key] {
		return nil, store.ErrConflict
	}
	m.bookmarkSet[key] = true
	return &models.Bookmark{UserID: userID, QuestionID: questionID, Year: year}, nil
}
func (m *memBookmarks) Remove(_ context.Context, userID, questionID int64) error {
	delete(m.bookmarkSet, [2]int64{userID, questionID})
	return nil
}
func (m *memBookmarks) GetAll(context.Context, int64, *int) ([]models.BookmarkEntry, error) {
	return nil, nil
}

type memSessions memStore

func (m *memSessions) Create(_ context.Context, s *models.QuizSession) (*models.QuizSession, error) {
	s.TotalQuestions = len(s.Questions)
	if s.Answers == nil {
		s.Answers = map[string]string{}
	}
	s.CreatedAt = time.Now()
	clone := *s
	m.sessions[s.ID] = &clone
	return s, nil
}
func (m *memSessions) GetByID(_ context.Context, id string) (*models.QuizSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := *s
	return &clone, nil
}
func (m *memSessions) Complete(_ context.Context, id string, answers map[string]string, score, timeTaken int) (*models.QuizSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	now := time.Now()
	s.Answers = answers
	s.Score = score
	s.TimeTaken = timeTaken
	s.CompletedAt = &now
	clone := *s
	return &clone, nil
}
func (m *memSessions) GetHistory(_ context.Context, userID int64, year, limit int) ([]models.QuizSession, error) {
	var out []models.QuizSession
	for _, s := range m.sessions {
		if s.UserID == userID && s.Year == year && s.CompletedAt != nil {
			out = append(out, *s)
		}
	}
	return out, nil
}

func seedQuestions(m *memStore) {
	m.questions[10] = &models.Question{
		ID: 10, Year: 2, Section: models.SectionTheory,
		Difficulty: models.DifficultyEasy, Text: "Ohm's law?",
		Options: []string{"V=IR", "P=IV", "I=VR", "R=PV"}, CorrectAnswer: "V=IR",
	}
	m.questions[11] = &models.Question{
		ID: 11, Year: 2, Section: models.SectionSafety,
		Difficulty: models.DifficultyEasy, Text: "First step?",
		Options: []string{"Gloves", "Lock out", "Notify", "Test"}, CorrectAnswer: "Lock out",
	}
}

func TestStartAndCompleteQuiz(t *testing.T) {
	m := newMemStore()
	seedQuestions(m)
	s := NewService(m, 10)
	ctx := context.Background()

	session, err := s.StartQuiz(ctx, 1, models.StartQuizRequest{
		Year: 2, QuestionIDs: []int64{10, 11},
	})
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if session.ID == "" {
		t.Fatal("no session id generated")
	}
	if session.TotalQuestions != 2 || session.QuizMode != "practice" {
		t.Errorf("session = %+v", session)
	}
	if session.CompletedAt != nil {
		t.Error("new session already completed")
	}

	resp, err := s.CompleteQuiz(ctx, 1, session.ID, models.CompleteQuizRequest{
		Answers:   map[string]string{"10": "V=IR", "11": "Gloves"},
		TimeTaken: 90,
	})
	if err != nil {
		t.Fatalf("CompleteQuiz: %v", err)
	}
	if resp.Session.Score != 1 {
		t.Errorf("score = %d, want 1", resp.Session.Score)
	}
	if resp.Session.CompletedAt == nil {
		t.Error("completed_at not stamped")
	}
	if resp.Progress.Statistics[models.StatTotalAnswered] != 2 {
		t.Errorf("progress statistics = %v", resp.Progress.Statistics)
	}

	// The upserted document is readable afterwards.
	doc, err := s.GetProgress(ctx, 1, 2)
	if err != nil {
		t.Fatalf("GetProgress: %v", err)
	}
	if doc.Statistics[models.StatQuizzesCompleted] != 1 {
		t.Errorf("stored statistics = %v", doc.Statistics)
	}
}

func TestCompleteQuizOwnership(t *testing.T) {
	m := newMemStore()
	seedQuestions(m)
	s := NewService(m, 10)
	ctx := context.Background()

	session, err := s.StartQuiz(ctx, 1, models.StartQuizRequest{Year: 2, QuestionIDs: []int64{10}})
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}

	_, err = s.CompleteQuiz(ctx, 2, session.ID, models.CompleteQuizRequest{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("foreign user completing session: err = %v, want ErrNotFound", err)
	}
}

func TestCompleteQuizTwice(t *testing.T) {
	m := newMemStore()
	seedQuestions(m)
	s := NewService(m, 10)
	ctx := context.Background()

	session, err := s.StartQuiz(ctx, 1, models.StartQuizRequest{Year: 2, QuestionIDs: []int64{10}})
	if err != nil {
		t.Fatalf("StartQuiz: %v", err)
	}
	if _, err := s.CompleteQuiz(ctx, 1, session.ID, models.CompleteQuizRequest{}); err != nil {
		t.Fatalf("first CompleteQuiz: %v", err)
	}

	_, err = s.CompleteQuiz(ctx, 1, session.ID, models.CompleteQuizRequest{})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("second CompleteQuiz err = %v, want ErrConflict", err)
	}
}

func TestStartQuizUnknownQuestion(t *testing.T) {
	m := newMemStore()
	seedQuestions(m)
	s := NewService(m, 10)

	_, err := s.StartQuiz(context.Background(), 1, models.StartQuizRequest{
		Year: 2, QuestionIDs: []int64{10, 999},
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestAddBookmarkDerivesYear(t *testing.T) {
	m := newMemStore()
	seedQuestions(m)
	s := NewService(m, 10)
	ctx := context.Background()

	b, err := s.AddBookmark(ctx, 1, 10)
	if err != nil {
		t.Fatalf("AddBookmark: %v", err)
	}
	if b.Year != 2 {
		t.Errorf("Year = %d, want the question's year 2", b.Year)
	}

	if _, err := s.AddBookmark(ctx, 1, 10); !errors.Is(err, store.ErrConflict) {
		t.Errorf("duplicate AddBookmark err = %v, want ErrConflict", err)
	}

	if _, err := s.AddBookmark(ctx, 1, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("bookmark of unknown question err = %v, want ErrNotFound", err)
	}
}
