package generator

import (
	"context"
	"errors"
	"testing"
)

const validResponse = `{"questions":[
	{"text":"What is the current through a 60 ohm resistor across 120 V?",
	 "options":["0.5 A","1 A","2 A","4 A"],
	 "correct_answer":"2 A",
	 "explanation":"I = V / R = 120 / 60 = 2 A."}
]}`

func TestParseResponse(t *testing.T) {
	questions, err := ParseResponse(validResponse)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(questions) != 1 {
		t.Fatalf("got %d questions, want 1", len(questions))
	}
	if questions[0].CorrectAnswer != "2 A" {
		t.Errorf("CorrectAnswer = %q", questions[0].CorrectAnswer)
	}
}

func TestParseResponseStripsCodeFences(t *testing.T) {
	fenced := "```json\n" + validResponse + "\n```"
	questions, err := ParseResponse(fenced)
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if len(questions) != 1 {
		t.Errorf("got %d questions, want 1", len(questions))
	}
}

func TestParseResponseRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "here are your questions!"},
		{"empty batch", `{"questions":[]}`},
		{"three options", `{"questions":[{"text":"q","options":["a","b","c"],"correct_answer":"a","explanation":"e"}]}`},
		{"five options", `{"questions":[{"text":"q","options":["a","b","c","d","e"],"correct_answer":"a","explanation":"e"}]}`},
		{"answer not among options", `{"questions":[{"text":"q","options":["a","b","c","d"],"correct_answer":"z","explanation":"e"}]}`},
		{"duplicate options", `{"questions":[{"text":"q","options":["a","a","c","d"],"correct_answer":"a","explanation":"e"}]}`},
		{"empty text", `{"questions":[{"text":"","options":["a","b","c","d"],"correct_answer":"a","explanation":"e"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseResponse(tt.body); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// Duplicate options make "exactly one match" ambiguous; the validator must
// also reject an answer that matches two identical options.
func TestParseResponseRejectsAmbiguousAnswer(t *testing.T) {
	body := `{"questions":[{"text":"q","options":["a","a","c","d"],"correct_answer":"a","explanation":"e"}]}`
	_, err := ParseResponse(body)
	if err == nil {
		t.Fatal("expected an error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Errorf("err = %v, want a ValidationError", err)
	}
}

func TestMockClientOutputParses(t *testing.T) {
	resp, err := NewMockClient().Generate(context.Background(), "", "")
	if err != nil {
		t.Fatalf("mock Generate: %v", err)
	}
	questions, err := ParseResponse(resp.Content)
	if err != nil {
		t.Fatalf("mock output failed validation: %v", err)
	}
	if len(questions) == 0 {
		t.Fatal("mock produced no questions")
	}
}
