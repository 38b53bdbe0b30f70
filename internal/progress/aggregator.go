// Package progress maintains the per-(user, year) progress document and
// the quiz session log. All aggregation happens here, caller-side; the
// store only ever sees a complete document to upsert.
package progress

import (
	"sort"
	"strconv"
	"time"

	"github.com/tradebench/backend/internal/models"
)

const (
	// A section joins weak_areas once it has enough answers to judge and
	// accuracy below the cutoff.
	weakAreaMinAnswered = 5
	weakAreaMaxAccuracy = 0.6

	// Readiness saturates its coverage factor at this many answers per
	// section.
	readinessTargetAnswered = 20
)

// unixDay converts a moment to whole days since the Unix epoch, UTC. The
// streak logic compares calendar days, not 24h windows.
func unixDay(t time.Time) int64 {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}

// UpdateStreak advances the consecutive-day activity streak in place.
// Activity on the same day is a no-op, the next day extends the streak,
// any gap resets it to 1. The longest streak ever reached is tracked.
func UpdateStreak(streak map[string]int64, now time.Time) {
	today := unixDay(now)
	last, active := streak[models.StreakLastActiveDay]

	switch {
	case active && last == today:
		return
	case active && last == today-1:
		streak[models.StreakCurrent]++
	default:
		streak[models.StreakCurrent] = 1
	}

	streak[models.StreakLastActiveDay] = today
	if streak[models.StreakCurrent] > streak[models.StreakLongest] {
		streak[models.StreakLongest] = streak[models.StreakCurrent]
	}
}

// RecomputeWeakAreas derives the weak section list from the per-section
// tallies in statistics. Output is sorted for stable comparisons.
func RecomputeWeakAreas(stats map[string]int) []string {
	weak := []string{}
	for section := range models.ValidSections {
		answered := stats[models.StatAnsweredPrefix+string(section)]
		if answered < weakAreaMinAnswered {
			continue
		}
		correct := stats[models.StatCorrectPrefix+string(section)]
		if float64(correct)/float64(answered) < weakAreaMaxAccuracy {
			weak = append(weak, string(section))
		}
	}
	sort.Strings(weak)
	return weak
}

// RecomputeReadiness scores each answered section 0–100 as accuracy scaled
// by coverage, plus an "overall" average across answered sections.
func RecomputeReadiness(stats map[string]int) map[string]float64 {
	readiness := map[string]float64{}
	var sum float64
	var n int
	for section := range models.ValidSections {
		answered := stats[models.StatAnsweredPrefix+string(section)]
		if answered == 0 {
			continue
		}
		correct := stats[models.StatCorrectPrefix+string(section)]
		accuracy := float64(correct) / float64(answered)
		coverage := float64(answered) / readinessTargetAnswered
		if coverage > 1 {
			coverage = 1
		}
		score := accuracy * coverage * 100
		readiness[string(section)] = score
		sum += score
		n++
	}
	if n > 0 {
		readiness["overall"] = sum / float64(n)
	}
	return readiness
}

// ApplyQuizResult folds one completed session into the document: answer
// records merge into progress_data, tallies and totals move, then the
// derived fields (weak areas, streak, readiness) are recomputed.
func ApplyQuizResult(doc *models.ProgressDocument, session *models.QuizSession, answers map[string]string, now time.Time) {
	doc.Normalize()

	for _, q := range session.Questions {
		key := strconv.FormatInt(q.QuestionID, 10)
		answer, answered := answers[key]
		if !answered {
			continue
		}

		doc.Statistics[models.StatTotalAnswered]++
		doc.Statistics[models.StatAnsweredPrefix+string(q.Section)]++
		if answer == q.CorrectAnswer {
			doc.ProgressData[key] = "correct"
			doc.Statistics[models.StatTotalCorrect]++
			doc.Statistics[models.StatCorrectPrefix+string(q.Section)]++
		} else {
			doc.ProgressData[key] = "incorrect"
		}
	}

	doc.Statistics[models.StatQuizzesCompleted]++
	doc.WeakAreas = RecomputeWeakAreas(doc.Statistics)
	doc.ExamReadiness = RecomputeReadiness(doc.Statistics)
	UpdateStreak(doc.StreakData, now)
}

// Score counts answers matching the session's snapshot.
func Score(session *models.QuizSession, answers map[string]string) int {
	score := 0
	for _, q := range session.Questions {
		if answers[strconv.FormatInt(q.QuestionID, 10)] == q.CorrectAnswer {
			score++
		}
	}
	return score
}
