package generator

import (
	"fmt"

	"github.com/tradebench/backend/internal/models"
)

var sectionTopics = map[models.Section]string{
	models.SectionTheory:       "electrical theory: Ohm's law, series and parallel circuits, AC fundamentals, power calculations, transformers",
	models.SectionCode:         "electrical code standards: conductor ampacity, overcurrent protection, raceway fill, grounding and bonding, working clearances",
	models.SectionInstallation: "installation methods: burial depths, branch circuits, box fill, cable support, terminations",
	models.SectionSafety:       "workplace safety: lockout/tagout, arc flash, PPE selection, ladder and scaffold rules, confined spaces",
	models.SectionMotors:       "motors and controls: induction motor theory, starters, overload protection, motor circuits, VFD basics",
}

var difficultyGuidance = map[models.Difficulty]string{
	models.DifficultyEasy:   "a single recall step or one simple calculation",
	models.DifficultyMedium: "a two-step reasoning chain or a calculation with one conversion",
	models.DifficultyHard:   "multi-step analysis combining code lookup with calculation, or an exception to the general rule",
}

func SystemPrompt() string {
	return `You write multiple-choice exam questions for electrician apprentices preparing for their yearly certification exams.

Rules:
- Every question has exactly 4 options and exactly one correct answer.
- The correct_answer field must be byte-identical to one of the options.
- Distractors must be plausible: common misconceptions, adjacent code values, or sign/unit errors.
- Each explanation states why the correct answer is right in one or two sentences.
- Respond with JSON only, no prose before or after, in this shape:
{"questions":[{"text":"...","options":["...","...","...","..."],"correct_answer":"...","explanation":"..."}]}`
}

func BuildUserPrompt(year int, section models.Section, difficulty models.Difficulty, count int) string {
	return fmt.Sprintf(
		`Write %d %s questions for a year-%d apprentice covering %s.

Difficulty calibration: each question should need %s.
Spread the questions across different topics within the section; no two questions may test the same fact.`,
		count, difficulty, year, sectionTopics[section], difficultyGuidance[difficulty])
}
