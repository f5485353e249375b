package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"docforge/internal/models"
)

// SectionService drafts and refines section content via the model.
type SectionService struct {
	generator Generator
}

func NewSectionService(generator Generator) *SectionService {
	return &SectionService{generator: generator}
}

// WriteSection produces a full draft for the section from its metadata, the
// answered clarifying questions and the template rules.
func (s *SectionService) WriteSection(ctx context.Context, section models.SectionDefinition, qa []models.QAPair, generationRules, terminologyRules map[string]any) (string, error) {
	prompt := s.buildWritePrompt(section, qa, generationRules, terminologyRules)

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%w: model returned empty content", ErrGenerationFailed)
	}

	return content, nil
}

// EnhanceSection rewrites existing content following a user instruction. The
// result is a preview only; callers decide whether to keep it.
func (s *SectionService) EnhanceSection(ctx context.Context, section models.SectionDefinition, content, instruction string, companyContext models.CompanyContext) (string, error) {
	var b strings.Builder
	b.WriteString("Revise the following business document section.\n\n")
	fmt.Fprintf(&b, "Section title: %s\n\n", section.Title)
	b.WriteString("Current content:\n")
	b.WriteString(content)
	b.WriteString("\n\nRevision instruction:\n")
	b.WriteString(instruction)
	b.WriteString("\n\n")
	if facts := companyContext.PromptLines(); facts != "" {
		b.WriteString("Company context:\n")
		b.WriteString(facts)
		b.WriteString("\n\n")
	}
	s.writeStyleRules(&b, section)

	revised, err := s.generator.Generate(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	revised = strings.TrimSpace(revised)
	if revised == "" {
		return "", fmt.Errorf("%w: model returned empty content", ErrGenerationFailed)
	}

	return revised, nil
}

func (s *SectionService) buildWritePrompt(section models.SectionDefinition, qa []models.QAPair, generationRules, terminologyRules map[string]any) string {
	var b strings.Builder
	b.WriteString("Write the content of a business document section.\n\n")
	fmt.Fprintf(&b, "Section title: %s\n", section.Title)
	if section.PromptHint != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", section.PromptHint)
	}
	if section.MinWords > 0 || section.MaxWords > 0 {
		fmt.Fprintf(&b, "Length: between %d and %d words.\n", section.MinWords, section.MaxWords)
	}
	b.WriteString("\n")

	if len(qa) > 0 {
		b.WriteString("Answered clarifying questions:\n")
		for _, pair := range qa {
			fmt.Fprintf(&b, "Q: %s\nA: %s\n", pair.Question, pair.Answer)
		}
		b.WriteString("\n")
	}

	if len(generationRules) > 0 {
		rules, _ := json.Marshal(generationRules)
		b.WriteString("Generation rules:\n")
		b.Write(rules)
		b.WriteString("\n\n")
	}
	if len(terminologyRules) > 0 {
		rules, _ := json.Marshal(terminologyRules)
		b.WriteString("Terminology rules:\n")
		b.Write(rules)
		b.WriteString("\n\n")
	}

	s.writeStyleRules(&b, section)
	return b.String()
}

func (s *SectionService) writeStyleRules(b *strings.Builder, section models.SectionDefinition) {
	b.WriteString("Formatting rules:\n")
	b.WriteString("- Write plain Markdown only, no HTML.\n")
	fmt.Fprintf(b, "- Do not repeat the section title %q as a heading.\n", section.Title)
	b.WriteString("- Use Markdown tables for structured rows of data.\n")
	b.WriteString("- Use only facts provided above; never invent names, numbers or dates.\n")
	b.WriteString("- Reply with the section content only, without any preamble or acknowledgement.\n")
}
