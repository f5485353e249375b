package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"docforge/internal/models"
)

// stubGenerator returns a canned reply or error. Prompts are recorded for
// assertions.
type stubGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

var testSection = models.SectionDefinition{
	ID:         "intro",
	Title:      "Introduction",
	PromptHint: "Introduce the company.",
	MinWords:   50,
	MaxWords:   150,
}

func TestGenerateQuestionsAssignsIDs(t *testing.T) {
	gen := &stubGenerator{reply: `{"questions": ["A?", "B?", "C?"]}`}
	svc := NewQuestionService(gen)

	questions := svc.GenerateQuestions(context.Background(), testSection, nil)

	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}
	for i, q := range questions {
		wantID := fmt.Sprintf("q%d", i+1)
		if q.QuestionID != wantID {
			t.Errorf("question %d: expected id %s, got %s", i, wantID, q.QuestionID)
		}
		if !q.IsRequired {
			t.Errorf("question %s must be required", q.QuestionID)
		}
		if q.Answer != "" {
			t.Errorf("question %s must start unanswered", q.QuestionID)
		}
	}
}

func TestGenerateQuestionsCapped(t *testing.T) {
	var entries []string
	for i := 0; i < 12; i++ {
		entries = append(entries, fmt.Sprintf("%q", fmt.Sprintf("Question %d?", i)))
	}
	gen := &stubGenerator{reply: fmt.Sprintf(`{"questions": [%s]}`, strings.Join(entries, ","))}

	questions := NewQuestionService(gen).GenerateQuestions(context.Background(), testSection, nil)

	if len(questions) != maxQuestionsPerSection {
		t.Errorf("expected cap at %d, got %d", maxQuestionsPerSection, len(questions))
	}
}

func TestGenerateQuestionsModelFailureYieldsEmptyList(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}

	questions := NewQuestionService(gen).GenerateQuestions(context.Background(), testSection, nil)

	if questions == nil || len(questions) != 0 {
		t.Errorf("expected empty non-nil list, got %v", questions)
	}
}

func TestGenerateQuestionsPromptCarriesContext(t *testing.T) {
	gen := &stubGenerator{reply: `{"questions": []}`}
	facts := models.CompanyContext{
		"industry": "bakery",
		"location": "Hamburg",
	}

	NewQuestionService(gen).GenerateQuestions(context.Background(), testSection, facts)

	if len(gen.prompts) != 1 {
		t.Fatalf("expected one model call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "industry: bakery") || !strings.Contains(prompt, "location: Hamburg") {
		t.Error("prompt must carry the known company facts")
	}
	if !strings.Contains(prompt, "Introduction") {
		t.Error("prompt must carry the section metadata")
	}
}
