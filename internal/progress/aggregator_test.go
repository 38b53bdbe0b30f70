package progress

import (
	"testing"
	"time"

	"github.com/tradebench/backend/internal/models"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestUpdateStreak(t *testing.T) {
	streak := map[string]int64{}

	UpdateStreak(streak, day(0))
	if streak[models.StreakCurrent] != 1 || streak[models.StreakLongest] != 1 {
		t.Fatalf("after first activity: %v", streak)
	}

	// Same calendar day, later hour: no change.
	UpdateStreak(streak, day(0).Add(5*time.Hour))
	if streak[models.StreakCurrent] != 1 {
		t.Errorf("same-day activity changed the streak: %v", streak)
	}

	UpdateStreak(streak, day(1))
	UpdateStreak(streak, day(2))
	if streak[models.StreakCurrent] != 3 || streak[models.StreakLongest] != 3 {
		t.Errorf("after three consecutive days: %v", streak)
	}

	// Two-day gap resets the current streak but keeps the longest.
	UpdateStreak(streak, day(5))
	if streak[models.StreakCurrent] != 1 {
		t.Errorf("gap did not reset: %v", streak)
	}
	if streak[models.StreakLongest] != 3 {
		t.Errorf("longest streak lost: %v", streak)
	}
}

func TestUpdateStreakAcrossMidnight(t *testing.T) {
	streak := map[string]int64{}
	UpdateStreak(streak, time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC))
	UpdateStreak(streak, time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC))
	if streak[models.StreakCurrent] != 2 {
		t.Errorf("two minutes apart across midnight should extend: %v", streak)
	}
}

func TestRecomputeWeakAreas(t *testing.T) {
	stats := map[string]int{
		// Plenty answered, poor accuracy: weak.
		models.StatAnsweredPrefix + "code_standards": 10,
		models.StatCorrectPrefix + "code_standards":  3,
		// Poor accuracy but too few answers to judge.
		models.StatAnsweredPrefix + "motors_controls": 2,
		models.StatCorrectPrefix + "motors_controls":  0,
		// Strong section.
		models.StatAnsweredPrefix + "electrical_theory": 10,
		models.StatCorrectPrefix + "electrical_theory":  9,
	}

	weak := RecomputeWeakAreas(stats)
	if len(weak) != 1 || weak[0] != "code_standards" {
		t.Errorf("weak = %v, want [code_standards]", weak)
	}
}

func TestRecomputeReadiness(t *testing.T) {
	stats := map[string]int{
		// 20 answered saturates coverage; 80% accuracy → 80.
		models.StatAnsweredPrefix + "electrical_theory": 20,
		models.StatCorrectPrefix + "electrical_theory":  16,
		// 10 answered is half coverage; 100% accuracy → 50.
		models.StatAnsweredPrefix + "workplace_safety": 10,
		models.StatCorrectPrefix + "workplace_safety":  10,
	}

	readiness := RecomputeReadiness(stats)
	if got := readiness["electrical_theory"]; got != 80 {
		t.Errorf("electrical_theory = %v, want 80", got)
	}
	if got := readiness["workplace_safety"]; got != 50 {
		t.Errorf("workplace_safety = %v, want 50", got)
	}
	if got := readiness["overall"]; got != 65 {
		t.Errorf("overall = %v, want 65", got)
	}
	if _, present := readiness["motors_controls"]; present {
		t.Error("unanswered section got a readiness score")
	}
}

func TestRecomputeReadinessEmpty(t *testing.T) {
	readiness := RecomputeReadiness(map[string]int{})
	if len(readiness) != 0 {
		t.Errorf("readiness = %v, want empty", readiness)
	}
}

func testSession() *models.QuizSession {
	return &models.QuizSession{
		ID:     "sess-1",
		UserID: 1,
		Year:   2,
		Questions: []models.SessionQuestion{
			{QuestionID: 10, Section: models.SectionTheory, CorrectAnswer: "V=IR"},
			{QuestionID: 11, Section: models.SectionTheory, CorrectAnswer: "50 ohm"},
			{QuestionID: 12, Section: models.SectionSafety, CorrectAnswer: "Lock out"},
		},
	}
}

func TestScore(t *testing.T) {
	session := testSession()
	answers := map[string]string{
		"10": "V=IR",
		"11": "100 ohm",
		"12": "Lock out",
	}
	if got := Score(session, answers); got != 2 {
		t.Errorf("Score = %d, want 2", got)
	}
	if got := Score(session, nil); got != 0 {
		t.Errorf("Score with no answers = %d, want 0", got)
	}
}

func TestApplyQuizResult(t *testing.T) {
	doc := models.NewProgressDocument(1, 2)
	session := testSession()
	answers := map[string]string{
		"10": "V=IR",
		"11": "100 ohm",
		// question 12 left unanswered
	}

	ApplyQuizResult(doc, session, answers, day(0))

	if doc.ProgressData["10"] != "correct" || doc.ProgressData["11"] != "incorrect" {
		t.Errorf("ProgressData = %v", doc.ProgressData)
	}
	if _, recorded := doc.ProgressData["12"]; recorded {
		t.Error("unanswered question was recorded")
	}
	if doc.Statistics[models.StatTotalAnswered] != 2 {
		t.Errorf("total_answered = %d, want 2", doc.Statistics[models.StatTotalAnswered])
	}
	if doc.Statistics[models.StatTotalCorrect] != 1 {
		t.Errorf("total_correct = %d, want 1", doc.Statistics[models.StatTotalCorrect])
	}
	if doc.Statistics[models.StatQuizzesCompleted] != 1 {
		t.Errorf("quizzes_completed = %d", doc.Statistics[models.StatQuizzesCompleted])
	}
	if doc.Statistics[models.StatAnsweredPrefix+"electrical_theory"] != 2 {
		t.Errorf("section tally = %v", doc.Statistics)
	}
	if doc.StreakData[models.StreakCurrent] != 1 {
		t.Errorf("StreakData = %v", doc.StreakData)
	}
	if len(doc.ExamReadiness) == 0 {
		t.Error("readiness not recomputed")
	}
}

// Repeated quizzes accumulate statistics across calls.
func TestApplyQuizResultAccumulates(t *testing.T) {
	doc := models.NewProgressDocument(1, 2)
	session := testSession()
	answers := map[string]string{"10": "V=IR", "11": "50 ohm", "12": "Lock out"}

	ApplyQuizResult(doc, session, answers, day(0))
	ApplyQuizResult(doc, session, answers, day(1))

	if doc.Statistics[models.StatTotalAnswered] != 6 {
		t.Errorf("total_answered = %d, want 6", doc.Statistics[models.StatTotalAnswered])
	}
	if doc.Statistics[models.StatQuizzesCompleted] != 2 {
		t.Errorf("quizzes_completed = %d, want 2", doc.Statistics[models.StatQuizzesCompleted])
	}
	if doc.StreakData[models.StreakCurrent] != 2 {
		t.Errorf("streak = %v, want 2 after consecutive days", doc.StreakData)
	}
}
