package generator

import (
	"encoding/json"
	"fmt"
	"strings"
)

type draftEnvelope struct {
	Questions []DraftedQuestion `json:"questions"`
}

type DraftedQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseResponse decodes and validates the model's JSON payload. Code
// fences around the JSON are tolerated.
func ParseResponse(responseBody string) ([]DraftedQuestion, error) {
	cleaned := stripCodeFences(responseBody)

	var envelope draftEnvelope
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if err := validateDrafts(envelope.Questions); err != nil {
		return nil, err
	}
	return envelope.Questions, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}

func validateDrafts(questions []DraftedQuestion) error {
	var errs []string

	if len(questions) == 0 {
		return &ValidationError{Errors: []string{"no questions in response"}}
	}

	for i, q := range questions {
		qNum := i + 1

		if strings.TrimSpace(q.Text) == "" {
			errs = append(errs, fmt.Sprintf("question %d: empty text", qNum))
		}
		if len(q.Options) != 4 {
			errs = append(errs, fmt.Sprintf("question %d: expected 4 options, got %d", qNum, len(q.Options)))
			continue
		}

		matches := 0
		seen := map[string]bool{}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				errs = append(errs, fmt.Sprintf("question %d: option %d is empty", qNum, j+1))
			}
			if seen[opt] {
				errs = append(errs, fmt.Sprintf("question %d: duplicate option %q", qNum, opt))
			}
			seen[opt] = true
			if opt == q.CorrectAnswer {
				matches++
			}
		}
		if matches != 1 {
			errs = append(errs, fmt.Sprintf("question %d: correct_answer must match exactly one option, matched %d", qNum, matches))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
