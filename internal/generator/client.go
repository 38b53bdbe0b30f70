// Package generator drafts practice questions through the Anthropic API,
// with a mock client for development. Drafted questions are validated
// before anything reaches the catalog.
package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/param"

	"github.com/tradebench/backend/internal/models"
)

// LLMClient is the interface both generator implementations satisfy.
type LLMClient interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error)
}

// LLMResponse holds the raw response content and token usage.
type LLMResponse struct {
	Content      string
	PromptTokens int
	OutputTokens int
}

// Generator wraps an LLMClient with the trade-exam drafting flow.
type Generator struct {
	llm   LLMClient
	model string
}

func NewGenerator() *Generator {
	var llm LLMClient
	model := "mock"

	if os.Getenv("MOCK_GENERATOR") == "true" {
		llm = NewMockClient()
		log.Println("[generator] using mock data")
	} else {
		model = os.Getenv("ANTHROPIC_MODEL")
		if model == "" {
			model = "claude-sonnet-4-5"
		}
		llm = NewAPIClient(model)
		log.Println("[generator] using Anthropic API:", model)
	}

	return &Generator{llm: llm, model: model}
}

func (g *Generator) ModelName() string {
	return g.model
}

// DraftQuestions asks the LLM for count questions and returns the parsed,
// validated result stamped with the requested year/section/difficulty.
func (g *Generator) DraftQuestions(ctx context.Context, year int, section models.Section, difficulty models.Difficulty, count int) ([]models.Question, error) {
	systemPrompt := SystemPrompt()
	userPrompt := BuildUserPrompt(year, section, difficulty, count)

	resp, err := g.llm.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, fmt.Errorf("draft questions: %w", err)
	}

	drafted, err := ParseResponse(resp.Content)
	if err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	questions := make([]models.Question, 0, len(drafted))
	for _, d := range drafted {
		questions = append(questions, models.Question{
			Year:          year,
			Section:       section,
			Difficulty:    difficulty,
			Text:          d.Text,
			Options:       d.Options,
			CorrectAnswer: d.CorrectAnswer,
			Explanation:   d.Explanation,
		})
	}
	return questions, nil
}

// ── APIClient — Anthropic SDK (Production) ─────────────────

type APIClient struct {
	client *anthropic.Client
	model  string
}

func NewAPIClient(model string) *APIClient {
	client := anthropic.NewClient(
		option.WithAPIKey(os.Getenv("ANTHROPIC_API_KEY")),
	)
	return &APIClient{client: &client, model: model}
}

func (c *APIClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   4096,
		Temperature: param.NewOpt(0.8),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	}

	message, err := c.callWithRetry(ctx, params)
	if err != nil {
		return nil, err
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText = block.Text
			break
		}
	}

	if responseText == "" {
		return nil, fmt.Errorf("no text content in API response")
	}

	return &LLMResponse{
		Content:      responseText,
		PromptTokens: int(message.Usage.InputTokens),
		OutputTokens: int(message.Usage.OutputTokens),
	}, nil
}

func (c *APIClient) callWithRetry(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			sleepDuration := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("[generator] retrying Anthropic API call in %v (attempt %d)", sleepDuration, attempt+1)
			time.Sleep(sleepDuration)
		}

		message, err := c.client.Messages.New(ctx, params)
		if err == nil {
			return message, nil
		}
		lastErr = err
		log.Printf("[generator] Anthropic API attempt %d failed: %v", attempt+1, err)
	}
	return nil, fmt.Errorf("anthropic API failed after retries: %w", lastErr)
}

// ── MockClient — Local Development ─────────────────────────

type MockClient struct{}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string) (*LLMResponse, error) {
	return &LLMResponse{
		Content:      buildMockJSON(),
		PromptTokens: 800,
		OutputTokens: 1200,
	}, nil
}

func buildMockJSON() string {
	topics := []string{
		"conductor sizing", "overcurrent protection", "grounding and bonding",
		"box fill calculations", "voltage drop",
	}

	questions := "["
	for i := 0; i < 5; i++ {
		topic := topics[i%len(topics)]
		if i > 0 {
			questions += ","
		}
		questions += fmt.Sprintf(
			`{"text":"[Mock] A practice question about %s: which of the following is required?","options":["[Mock] The correct requirement for %s","[Mock] A plausible but wrong answer","[Mock] A common misconception","[Mock] An unrelated requirement"],"correct_answer":"[Mock] The correct requirement for %s","explanation":"[Mock] The first option states the actual requirement for %s."}`,
			topic, topic, topic, topic)
	}
	questions += "]"

	return fmt.Sprintf(`{"questions":%s}`, questions)
}
