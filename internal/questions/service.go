// Package questions serves the reference catalog: practice questions and
// study guides, read-only for users and writable through admin seeding.
package questions

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/tradebench/backend/internal/generator"
	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type Service struct {
	questions store.QuestionStore
	guides    store.StudyGuideStore
	generator *generator.Generator
}

func NewService(questions store.QuestionStore, guides store.StudyGuideStore, gen *generator.Generator) *Service {
	return &Service{questions: questions, guides: guides, generator: gen}
}

// ListQuestions returns the filtered catalog. A store failure is logged
// and surfaces as an empty list; browsing the catalog never errors out.
func (s *Service) ListQuestions(ctx context.Context, f models.QuestionFilter) []models.Question {
	questions, err := s.questions.GetAll(ctx, f)
	if err != nil {
		log.Printf("[questions] list questions failed: %v", err)
		return []models.Question{}
	}
	if questions == nil {
		questions = []models.Question{}
	}
	return questions
}

// GetQuestion returns (nil, nil) when no question has the given id.
func (s *Service) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	q, err := s.questions.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

func (s *Service) ListGuides(ctx context.Context, f models.GuideFilter) []models.StudyGuide {
	guides, err := s.guides.GetAll(ctx, f)
	if err != nil {
		log.Printf("[questions] list guides failed: %v", err)
		return []models.StudyGuide{}
	}
	if guides == nil {
		guides = []models.StudyGuide{}
	}
	return guides
}

// GetGuide returns (nil, nil) when no guide has the given id.
func (s *Service) GetGuide(ctx context.Context, id int64) (*models.StudyGuide, error) {
	g, err := s.guides.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get guide: %w", err)
	}
	return g, nil
}

// Import validates and inserts an admin-supplied catalog payload. The
// whole payload is rejected on the first invalid entry.
func (s *Service) Import(ctx context.Context, req models.ImportRequest) (*models.ImportResult, error) {
	for i := range req.Questions {
		if err := validateQuestion(&req.Questions[i]); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	for i := range req.Guides {
		if err := validateGuide(&req.Guides[i]); err != nil {
			return nil, fmt.Errorf("guide %d: %w", i, err)
		}
	}

	result := &models.ImportResult{}
	if len(req.Questions) > 0 {
		n, err := s.questions.Insert(ctx, req.Questions)
		if err != nil {
			return nil, fmt.Errorf("import questions: %w", err)
		}
		result.QuestionsImported = n
	}
	if len(req.Guides) > 0 {
		n, err := s.guides.Insert(ctx, req.Guides)
		if err != nil {
			return nil, fmt.Errorf("import guides: %w", err)
		}
		result.GuidesImported = n
	}

	log.Printf("[questions] imported %d questions, %d guides",
		result.QuestionsImported, result.GuidesImported)
	return result, nil
}

// Generate drafts new questions through the LLM generator and inserts the
// ones that pass validation.
func (s *Service) Generate(ctx context.Context, req models.GenerateRequest) (*models.GenerateResponse, error) {
	if s.generator == nil {
		return nil, fmt.Errorf("generator not configured")
	}
	if err := validateGenerateRequest(req); err != nil {
		return nil, err
	}

	drafted, err := s.generator.DraftQuestions(ctx, req.Year, req.Section, req.Difficulty, req.Count)
	if err != nil {
		return nil, fmt.Errorf("draft questions: %w", err)
	}

	n, err := s.questions.Insert(ctx, drafted)
	if err != nil {
		return nil, fmt.Errorf("insert generated questions: %w", err)
	}

	log.Printf("[questions] generated %d questions for year=%d section=%s difficulty=%s",
		n, req.Year, req.Section, req.Difficulty)
	return &models.GenerateResponse{Inserted: n, Questions: drafted}, nil
}

func validateQuestion(q *models.Question) error {
	if q.Year < models.MinYear || q.Year > models.MaxYear {
		return fmt.Errorf("year must be between %d and %d", models.MinYear, models.MaxYear)
	}
	if !models.ValidSections[q.Section] {
		return fmt.Errorf("invalid section %q", q.Section)
	}
	if !models.ValidDifficulties[q.Difficulty] {
		return fmt.Errorf("invalid difficulty %q", q.Difficulty)
	}
	if q.Text == "" {
		return fmt.Errorf("text is required")
	}
	if len(q.Options) != 4 {
		return fmt.Errorf("exactly 4 options required, got %d", len(q.Options))
	}
	found := false
	for _, opt := range q.Options {
		if opt == q.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("correct_answer must be one of the options")
	}
	return nil
}

func validateGuide(g *models.StudyGuide) error {
	if g.Year < models.MinYear || g.Year > models.MaxYear {
		return fmt.Errorf("year must be between %d and %d", models.MinYear, models.MaxYear)
	}
	if !models.ValidSections[g.Section] {
		return fmt.Errorf("invalid section %q", g.Section)
	}
	if g.Title == "" || g.Content == "" {
		return fmt.Errorf("title and content are required")
	}
	return nil
}

func validateGenerateRequest(req models.GenerateRequest) error {
	if req.Year < models.MinYear || req.Year > models.MaxYear {
		return fmt.Errorf("year must be between %d and %d", models.MinYear, models.MaxYear)
	}
	if !models.ValidSections[req.Section] {
		return fmt.Errorf("invalid section %q", req.Section)
	}
	if !models.ValidDifficulties[req.Difficulty] {
		return fmt.Errorf("invalid difficulty %q", req.Difficulty)
	}
	if req.Count <= 0 || req.Count > 20 {
		return fmt.Errorf("count must be between 1 and 20")
	}
	return nil
}
