package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"docforge/internal/models"
)

func TestWriteSectionReturnsTrimmedContent(t *testing.T) {
	gen := &stubGenerator{reply: "\n\nThe company was founded in 2001.\n"}
	svc := NewSectionService(gen)

	content, err := svc.WriteSection(context.Background(), testSection, nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "The company was founded in 2001." {
		t.Errorf("got %q", content)
	}
}

func TestWriteSectionPromptCarriesQAAndRules(t *testing.T) {
	gen := &stubGenerator{reply: "content"}
	svc := NewSectionService(gen)

	qa := []models.QAPair{{Question: "How many employees?", Answer: "42"}}
	rules := map[string]any{"tone": "formal"}
	terms := map[string]any{"company": "the Company"}

	if _, err := svc.WriteSection(context.Background(), testSection, qa, rules, terms); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prompt := gen.prompts[0]
	for _, want := range []string{"How many employees?", "42", "formal", "the Company", "Introduction"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestWriteSectionModelFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("timeout")}
	svc := NewSectionService(gen)

	_, err := svc.WriteSection(context.Background(), testSection, nil, nil, nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestWriteSectionEmptyReply(t *testing.T) {
	gen := &stubGenerator{reply: "   \n  "}
	svc := NewSectionService(gen)

	_, err := svc.WriteSection(context.Background(), testSection, nil, nil, nil)
	if !errors.Is(err, ErrGenerationFailed) {
		t.Errorf("expected ErrGenerationFailed on empty reply, got %v", err)
	}
}

func TestEnhanceSectionPromptCarriesInstruction(t *testing.T) {
	gen := &stubGenerator{reply: "Revised content."}
	svc := NewSectionService(gen)

	content, err := svc.EnhanceSection(context.Background(), testSection, "Old content.", "Make it shorter.", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if content != "Revised content." {
		t.Errorf("got %q", content)
	}

	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "Old content.") || !strings.Contains(prompt, "Make it shorter.") {
		t.Error("prompt must carry the current content and the instruction")
	}
}
