package local

import (
	"context"
	"errors"
	"testing"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func createTestProfile(t *testing.T, s *Store, email string) *models.Profile {
	t.Helper()
	p, err := s.Profiles().Create(context.Background(), &models.Profile{
		Email:        email,
		FullName:     "Test Apprentice",
		SelectedYear: 2,
		Password:     "not-a-real-hash",
	})
	if err != nil {
		t.Fatalf("create profile: %v", err)
	}
	return p
}

func TestOpenSeedsCatalog(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	questions, err := s.Questions().GetAll(ctx, models.QuestionFilter{})
	if err != nil {
		t.Fatalf("GetAll questions: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("expected seeded questions, got none")
	}

	guides, err := s.StudyGuides().GetAll(ctx, models.GuideFilter{})
	if err != nil {
		t.Fatalf("GetAll guides: %v", err)
	}
	if len(guides) == 0 {
		t.Fatal("expected seeded study guides, got none")
	}
}

func TestQuestionFilters(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	year := 3
	section := models.SectionMotors
	questions, err := s.Questions().GetAll(ctx, models.QuestionFilter{Year: &year, Section: &section})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("expected year-3 motors questions from fixtures")
	}
	for _, q := range questions {
		if q.Year != year || q.Section != section {
			t.Errorf("filter leaked: got year=%d section=%s", q.Year, q.Section)
		}
	}
}

func TestProgressDefaultsToZeroDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "zero@example.com")

	doc, err := s.Progress().Get(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if doc == nil {
		t.Fatal("expected a document, got nil")
	}
	if doc.UserID != user.ID || doc.Year != 1 {
		t.Errorf("wrong identity: user=%d year=%d", doc.UserID, doc.Year)
	}
	if doc.ProgressData == nil || len(doc.ProgressData) != 0 {
		t.Errorf("ProgressData = %v, want empty map", doc.ProgressData)
	}
	if doc.Bookmarks == nil || len(doc.Bookmarks) != 0 {
		t.Errorf("Bookmarks = %v, want empty slice", doc.Bookmarks)
	}
	if doc.StreakData == nil || len(doc.StreakData) != 0 {
		t.Errorf("StreakData = %v, want empty map", doc.StreakData)
	}
}

func TestProgressWriteThenRead(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "rw@example.com")

	doc := models.NewProgressDocument(user.ID, 2)
	doc.ProgressData["electrical_theory"] = "in_progress"
	doc.Statistics[models.StatTotalAnswered] = 12
	doc.Statistics[models.StatTotalCorrect] = 9
	doc.Bookmarks = []int64{1, 4}
	doc.WeakAreas = []string{"code_standards"}
	doc.StreakData[models.StreakCurrent] = 3

	if _, err := s.Progress().Update(ctx, user.ID, 2, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Progress().Get(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ProgressData["electrical_theory"] != "in_progress" {
		t.Errorf("ProgressData = %v", got.ProgressData)
	}
	if got.Statistics[models.StatTotalAnswered] != 12 || got.Statistics[models.StatTotalCorrect] != 9 {
		t.Errorf("Statistics = %v", got.Statistics)
	}
	if len(got.Bookmarks) != 2 || got.Bookmarks[0] != 1 || got.Bookmarks[1] != 4 {
		t.Errorf("Bookmarks = %v", got.Bookmarks)
	}
	if got.StreakData[models.StreakCurrent] != 3 {
		t.Errorf("StreakData = %v", got.StreakData)
	}
}

func TestProgressUpsertOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "upsert@example.com")

	first := models.NewProgressDocument(user.ID, 1)
	first.ProgressData["workplace_safety"] = "completed"
	first.WeakAreas = []string{"motors_controls"}
	if _, err := s.Progress().Update(ctx, user.ID, 1, first); err != nil {
		t.Fatalf("first Update: %v", err)
	}

	// The second write omits weak_areas entirely; it must replace, not merge.
	second := models.NewProgressDocument(user.ID, 1)
	second.ProgressData["electrical_theory"] = "in_progress"
	if _, err := s.Progress().Update(ctx, user.ID, 1, second); err != nil {
		t.Fatalf("second Update: %v", err)
	}

	got, err := s.Progress().Get(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if _, stale := got.ProgressData["workplace_safety"]; stale {
		t.Error("first write's progress_data survived a full overwrite")
	}
	if len(got.WeakAreas) != 0 {
		t.Errorf("WeakAreas = %v, want empty after overwrite", got.WeakAreas)
	}
	if got.ProgressData["electrical_theory"] != "in_progress" {
		t.Errorf("ProgressData = %v", got.ProgressData)
	}
}

func TestProgressYearsAreIndependent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "years@example.com")

	doc := models.NewProgressDocument(user.ID, 1)
	doc.Statistics[models.StatTotalAnswered] = 5
	if _, err := s.Progress().Update(ctx, user.ID, 1, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}

	other, err := s.Progress().Get(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("Get year 2: %v", err)
	}
	if len(other.Statistics) != 0 {
		t.Errorf("year 2 statistics = %v, want empty", other.Statistics)
	}
}

func TestProgressReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "reset@example.com")

	doc := models.NewProgressDocument(user.ID, 3)
	doc.Statistics[models.StatQuizzesCompleted] = 7
	if _, err := s.Progress().Update(ctx, user.ID, 3, doc); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := s.Progress().Reset(ctx, user.ID, 3); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	got, err := s.Progress().Get(ctx, user.ID, 3)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Statistics) != 0 {
		t.Errorf("Statistics = %v after reset, want empty", got.Statistics)
	}
}

func TestBookmarkConflictAndIdempotentRemove(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "bookmarks@example.com")

	questions, err := s.Questions().GetAll(ctx, models.QuestionFilter{})
	if err != nil || len(questions) == 0 {
		t.Fatalf("need seeded questions: %v", err)
	}
	qid := questions[0].ID

	if _, err := s.Bookmarks().Add(ctx, user.ID, qid, questions[0].Year); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := s.Bookmarks().Add(ctx, user.ID, qid, questions[0].Year); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate Add err = %v, want ErrConflict", err)
	}

	if err := s.Bookmarks().Remove(ctx, user.ID, qid); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	// Removing again must be a silent no-op.
	if err := s.Bookmarks().Remove(ctx, user.ID, qid); err != nil {
		t.Fatalf("second Remove: %v", err)
	}

	entries, err := s.Bookmarks().GetAll(ctx, user.ID, nil)
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d bookmarks after remove, want 0", len(entries))
	}
}

func TestSessionHistoryOnlyCompleted(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	user := createTestProfile(t, s, "history@example.com")

	snapshot := []models.SessionQuestion{
		{QuestionID: 1, Section: models.SectionTheory, Text: "q", Options: []string{"a", "b", "c", "d"}, CorrectAnswer: "a"},
	}

	open, err := s.Sessions().Create(ctx, &models.QuizSession{
		ID: "sess-open", UserID: user.ID, Year: 1, QuizMode: "practice", Questions: snapshot,
	})
	if err != nil {
		t.Fatalf("Create open: %v", err)
	}
	if open.TotalQuestions != 1 {
		t.Errorf("TotalQuestions = %d, want 1", open.TotalQuestions)
	}

	done, err := s.Sessions().Create(ctx, &models.QuizSession{
		ID: "sess-done", UserID: user.ID, Year: 1, QuizMode: "practice", Questions: snapshot,
	})
	if err != nil {
		t.Fatalf("Create done: %v", err)
	}
	completed, err := s.Sessions().Complete(ctx, done.ID, map[string]string{"1": "a"}, 1, 42)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.CompletedAt == nil {
		t.Fatal("CompletedAt not stamped")
	}
	if completed.Score != 1 || completed.TimeTaken != 42 {
		t.Errorf("score=%d time=%d", completed.Score, completed.TimeTaken)
	}

	history, err := s.Sessions().GetHistory(ctx, user.ID, 1, 10)
	if err != nil {
		t.Fatalf("GetHistory: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d sessions, want 1 (completed only)", len(history))
	}
	if history[0].ID != "sess-done" {
		t.Errorf("history[0].ID = %s", history[0].ID)
	}
}

func TestCompleteUnknownSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Sessions().Complete(ctx, "no-such-session", nil, 0, 0)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestProfileEmailConflict(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	createTestProfile(t, s, "dup@example.com")

	_, err := s.Profiles().Create(ctx, &models.Profile{
		Email: "dup@example.com", FullName: "Other", SelectedYear: 1, Password: "h",
	})
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
}
