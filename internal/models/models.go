package models

import (
	"time"
)

// Session status values
const (
	SessionStatusInProgress = "in_progress"
	SessionStatusCompleted  = "completed"
	SessionStatusCompiled   = "compiled"
)

// Section draft status values
const (
	DraftStatusGenerated = "generated"
	DraftStatusApproved  = "approved"
)

// DocSession represents one document-generation run through a template.
// CurrentSectionIndex is a 0-based pointer into the template's section list;
// it equals TotalSections exactly when every section has been approved.
type DocSession struct {
	ID                  string    `json:"session_id" db:"id"`
	TemplateID          string    `json:"template_id" db:"template_id"`
	DeptID              string    `json:"dept_id" db:"dept_id"`
	Status              string    `json:"status" db:"status"`
	CurrentSectionIndex int       `json:"current_section_index" db:"current_section_index"`
	TotalSections       int       `json:"total_sections" db:"total_sections"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// AllSectionsApproved reports whether the progress pointer has reached the end
// of the template's section list.
func (s *DocSession) AllSectionsApproved() bool {
	return s.CurrentSectionIndex >= s.TotalSections
}

// Question is one clarifying question inside a SectionQuestionSet.
// QuestionID is assigned at generation time and never changes; Answer is
// empty until submitted.
type Question struct {
	QuestionID   string `json:"question_id"`
	QuestionText string `json:"question_text"`
	Answer       string `json:"answer"`
	IsRequired   bool   `json:"is_required"`
}

// SectionQuestionSet holds the clarifying questions for one (session, section)
// pair. Created at most once; regeneration is not supported. The Questions
// slice is persisted as a single JSONB value so every mutation is one atomic
// row upsert.
type SectionQuestionSet struct {
	ID        string     `json:"id" db:"id"`
	SessionID string     `json:"session_id" db:"session_id"`
	SectionID string     `json:"section_id" db:"section_id"`
	Questions []Question `json:"questions" db:"questions"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
}

// MissingRequiredAnswers returns the ids of required questions that are still
// unanswered, in question order.
func (qs *SectionQuestionSet) MissingRequiredAnswers() []string {
	var missing []string
	for _, q := range qs.Questions {
		if q.IsRequired && q.Answer == "" {
			missing = append(missing, q.QuestionID)
		}
	}
	return missing
}

// MergeAnswers merges submitted answers into the set by question id.
// Unknown ids are ignored; questions without a submission keep their prior
// answer. The set of question ids never changes.
func (qs *SectionQuestionSet) MergeAnswers(answers []AnswerSubmission) {
	byID := make(map[string]string, len(answers))
	for _, a := range answers {
		byID[a.QuestionID] = a.Answer
	}
	for i := range qs.Questions {
		if answer, ok := byID[qs.Questions[i].QuestionID]; ok {
			qs.Questions[i].Answer = answer
		}
	}
}

// QAPairs converts answered questions into question/answer pairs for the
// section writer, preserving question order.
func (qs *SectionQuestionSet) QAPairs() []QAPair {
	pairs := make([]QAPair, 0, len(qs.Questions))
	for _, q := range qs.Questions {
		pairs = append(pairs, QAPair{Question: q.QuestionText, Answer: q.Answer})
	}
	return pairs
}

// SectionDraft is the generated (and possibly edited) content for one section
// of a session. One row per (session, section); regeneration updates the row
// in place and increments Version.
type SectionDraft struct {
	ID           string    `json:"id" db:"id"`
	SessionID    string    `json:"session_id" db:"session_id"`
	SectionID    string    `json:"section_id" db:"section_id"`
	SectionTitle string    `json:"section_title" db:"section_title"`
	Content      string    `json:"content" db:"content"`
	Status       string    `json:"status" db:"status"`
	Version      int       `json:"version" db:"version"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// CompiledDocument is the concatenation of all approved sections of a
// session. One row per session, replaced on re-compile.
type CompiledDocument struct {
	ID              string    `json:"document_id" db:"id"`
	SessionID       string    `json:"session_id" db:"session_id"`
	DocTitle        string    `json:"doc_title" db:"doc_title"`
	CompiledContent string    `json:"compiled_content" db:"compiled_content"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// QAPair is one answered clarifying question, the section writer's only
// source of facts.
type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SectionDefinition is one ordered section of a document template.
type SectionDefinition struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	PromptHint string `json:"prompt_hint"`
	MinWords   int    `json:"min_words,omitempty"`
	MaxWords   int    `json:"max_words,omitempty"`
}

// TemplateBody is the JSON payload of a document template: the ordered
// section list plus global generation and terminology rules.
type TemplateBody struct {
	Sections         []SectionDefinition `json:"sections"`
	GenerationRules  map[string]any      `json:"generation_rules"`
	TerminologyRules map[string]any      `json:"terminology_rules"`
}

// Template is a read-only document template fetched by id.
type Template struct {
	ID      string       `json:"id" db:"id"`
	DeptID  string       `json:"dept_id" db:"dept_id"`
	DocName string       `json:"doc_name" db:"doc_name"`
	Body    TemplateBody `json:"template_json" db:"template_json"`
}

// SectionByID looks up a section definition in template order.
func (t *Template) SectionByID(sectionID string) (*SectionDefinition, bool) {
	for i := range t.Body.Sections {
		if t.Body.Sections[i].ID == sectionID {
			return &t.Body.Sections[i], true
		}
	}
	return nil, false
}

// Department groups templates for selection.
type Department struct {
	ID   string `json:"dept_id" db:"id"`
	Name string `json:"dept_name" db:"name"`
}
