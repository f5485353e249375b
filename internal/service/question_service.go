package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"docforge/internal/models"
)

const maxQuestionsPerSection = 7

// Generator produces a completion for a prompt. Satisfied by llm.Provider.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// QuestionService asks the model for clarifying questions about a section.
type QuestionService struct {
	generator Generator
}

func NewQuestionService(generator Generator) *QuestionService {
	return &QuestionService{generator: generator}
}

// GenerateQuestions returns clarifying questions for the given section. A
// model failure or an unparsable reply yields an empty list, not an error,
// so a question round can always be recorded for the section.
func (s *QuestionService) GenerateQuestions(ctx context.Context, section models.SectionDefinition, companyContext models.CompanyContext) []models.Question {
	prompt := s.buildPrompt(section, companyContext)

	reply, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		slog.Warn("Question generation failed, continuing without questions",
			"section_id", section.ID, "error", err)
		return []models.Question{}
	}

	texts := ExtractQuestions(reply)
	if len(texts) > maxQuestionsPerSection {
		texts = texts[:maxQuestionsPerSection]
	}

	questions := make([]models.Question, 0, len(texts))
	for i, text := range texts {
		questions = append(questions, models.Question{
			QuestionID:   fmt.Sprintf("q%d", i+1),
			QuestionText: text,
			IsRequired:   true,
		})
	}

	return questions
}

func (s *QuestionService) buildPrompt(section models.SectionDefinition, companyContext models.CompanyContext) string {
	meta, _ := json.Marshal(section)

	var b strings.Builder
	b.WriteString("You are preparing to draft a business document section.\n")
	b.WriteString("Section metadata:\n")
	b.Write(meta)
	b.WriteString("\n\n")

	if facts := companyContext.PromptLines(); facts != "" {
		b.WriteString("Already known company context (do not ask about this):\n")
		b.WriteString(facts)
		b.WriteString("\n\n")
	}

	b.WriteString("List the clarifying questions a writer would need answered before ")
	b.WriteString("drafting this section. Ask only about facts not already known. ")
	fmt.Fprintf(&b, "Ask at most %d questions.\n", maxQuestionsPerSection)
	b.WriteString(`Respond with a single JSON object: {"questions": ["...", "..."]}`)

	return b.String()
}
