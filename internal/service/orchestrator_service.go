package service

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"strings"
	"time"

	"docforge/internal/models"
	"docforge/internal/repository"
)

const sectionSeparator = "\n\n---\n\n"

// Orchestrator drives a document-generation session through its lifecycle:
// questions, drafting, approval, compilation. It owns the progress pointer
// semantics; the section and question services only talk to the model.
type Orchestrator struct {
	sessions  *repository.SessionRepository
	templates *repository.TemplateRepository
	questions *repository.QuestionRepository
	drafts    *repository.DraftRepository
	documents *repository.DocumentRepository

	questionSvc *QuestionService
	sectionSvc  *SectionService
}

// NewOrchestrator creates the workflow orchestrator
func NewOrchestrator(
	sessions *repository.SessionRepository,
	templates *repository.TemplateRepository,
	questions *repository.QuestionRepository,
	drafts *repository.DraftRepository,
	documents *repository.DocumentRepository,
	questionSvc *QuestionService,
	sectionSvc *SectionService,
) *Orchestrator {
	return &Orchestrator{
		sessions:    sessions,
		templates:   templates,
		questions:   questions,
		drafts:      drafts,
		documents:   documents,
		questionSvc: questionSvc,
		sectionSvc:  sectionSvc,
	}
}

// CurrentSectionInfo describes where a session stands: the section the
// pointer rests on, or the done state once every section is approved.
type CurrentSectionInfo struct {
	SessionID           string                    `json:"session_id"`
	Status              string                    `json:"status"`
	CurrentSectionIndex int                       `json:"current_section_index"`
	TotalSections       int                       `json:"total_sections"`
	AllSectionsDone     bool                      `json:"all_sections_done"`
	Section             *models.SectionDefinition `json:"section,omitempty"`
}

// GenerationResult is the outcome of a drafting attempt. When required
// answers are missing no draft is written and WaitingForAnswers is set.
type GenerationResult struct {
	WaitingForAnswers  bool
	MissingQuestionIDs []string
	Content            string
	Version            int
}

// ApprovalResult reports the pointer position after an approval.
type ApprovalResult struct {
	NextIndex       int
	Status          string
	AllSectionsDone bool
}

// CreateSession starts a new session for a template with the progress
// pointer at the first section.
func (o *Orchestrator) CreateSession(ctx context.Context, templateID string) (*models.DocSession, error) {
	template, err := o.templates.GetByID(templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	session := &models.DocSession{
		ID:                  newID("sess"),
		TemplateID:          template.ID,
		DeptID:              template.DeptID,
		Status:              models.SessionStatusInProgress,
		CurrentSectionIndex: 0,
		TotalSections:       len(template.Body.Sections),
		CreatedAt:           time.Now(),
	}

	if err := o.sessions.Create(session); err != nil {
		return nil, err
	}

	slog.Info("Session created",
		"session_id", session.ID,
		"template_id", template.ID,
		"total_sections", session.TotalSections)

	return session, nil
}

// CurrentSection returns the section the progress pointer rests on, or the
// done state when the pointer has passed the last section.
func (o *Orchestrator) CurrentSection(ctx context.Context, sessionID string) (*CurrentSectionInfo, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	info := &CurrentSectionInfo{
		SessionID:           session.ID,
		Status:              session.Status,
		CurrentSectionIndex: session.CurrentSectionIndex,
		TotalSections:       session.TotalSections,
		AllSectionsDone:     session.AllSectionsApproved(),
	}

	if !info.AllSectionsDone {
		info.Section = &template.Body.Sections[session.CurrentSectionIndex]
	}

	return info, nil
}

// RequestQuestions generates and records the clarifying questions for a
// section. The operation is idempotent: the first call wins, every later
// call returns the stored set unchanged, answers included. An empty
// question list is recorded too, so the section is never asked twice.
func (o *Orchestrator) RequestQuestions(ctx context.Context, sessionID, sectionID string, companyContext models.CompanyContext) (*models.SectionQuestionSet, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	section, ok := template.SectionByID(sectionID)
	if !ok {
		return nil, ErrSectionNotFound
	}

	existing, err := o.questions.GetBySection(session.ID, sectionID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	generated := o.questionSvc.GenerateQuestions(ctx, *section, companyContext)

	set := &models.SectionQuestionSet{
		ID:        newID("q"),
		SessionID: session.ID,
		SectionID: sectionID,
		Questions: generated,
		CreatedAt: time.Now(),
	}
	if err := o.questions.Create(set); err != nil {
		return nil, err
	}

	// Re-read so that a concurrent first call that won the insert race is
	// what both callers see.
	stored, err := o.questions.GetBySection(session.ID, sectionID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("question set for session %s section %s missing after insert", session.ID, sectionID)
	}

	return stored, nil
}

// SubmitAnswers merges submitted answers into the section's question set by
// question id. Unknown ids are ignored, omitted questions keep their prior
// answer. A question set must already exist for the section.
func (o *Orchestrator) SubmitAnswers(ctx context.Context, sessionID, sectionID string, answers []models.AnswerSubmission) (*models.SectionQuestionSet, error) {
	session, _, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	set, err := o.questions.GetBySection(session.ID, sectionID)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, ErrQuestionSetNotFound
	}

	set.MergeAnswers(models.NormalizeAnswers(answers))

	if err := o.questions.UpdateQuestions(set); err != nil {
		return nil, err
	}

	return set, nil
}

// GenerateSection drafts the content of a section. When the section has
// unanswered required questions the result carries the missing ids and no
// draft is written; a section without a question round drafts from template
// metadata alone.
func (o *Orchestrator) GenerateSection(ctx context.Context, sessionID, sectionID string, companyContext models.CompanyContext) (*GenerationResult, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	section, ok := template.SectionByID(sectionID)
	if !ok {
		return nil, ErrSectionNotFound
	}

	set, err := o.questions.GetBySection(session.ID, sectionID)
	if err != nil {
		return nil, err
	}

	var qa []models.QAPair
	if set != nil {
		if missing := set.MissingRequiredAnswers(); len(missing) > 0 {
			return &GenerationResult{WaitingForAnswers: true, MissingQuestionIDs: missing}, nil
		}
		qa = set.QAPairs()
	}

	rules := template.Body.GenerationRules
	if len(companyContext) > 0 {
		rules = maps.Clone(rules)
		if rules == nil {
			rules = make(map[string]any, 1)
		}
		rules["company_context"] = map[string]string(companyContext)
	}

	content, err := o.sectionSvc.WriteSection(ctx, *section, qa, rules, template.Body.TerminologyRules)
	if err != nil {
		return nil, err
	}

	draft := &models.SectionDraft{
		ID:           newID("sec"),
		SessionID:    session.ID,
		SectionID:    section.ID,
		SectionTitle: section.Title,
		Content:      content,
	}
	_, version, err := o.drafts.Upsert(draft)
	if err != nil {
		return nil, err
	}

	slog.Info("Section drafted",
		"session_id", session.ID, "section_id", section.ID, "version", version)

	return &GenerationResult{Content: content, Version: version}, nil
}

// ApproveSection locks in a section's content and, when the section is the
// one the progress pointer rests on, advances the pointer. When edited
// content is supplied it overwrites the draft verbatim, without another model
// call. Approving a section behind the pointer is a re-approval: it updates
// the content but leaves the pointer where it is, even after the section was
// regenerated in between.
func (o *Orchestrator) ApproveSection(ctx context.Context, sessionID, sectionID, editedContent string) (*ApprovalResult, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	if _, ok := template.SectionByID(sectionID); !ok {
		return nil, ErrSectionNotFound
	}

	draft, err := o.drafts.GetBySection(session.ID, sectionID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, ErrDraftNotFound
	}

	content := draft.Content
	if editedContent != "" {
		content = editedContent
	}

	if err := o.drafts.Approve(session.ID, sectionID, content); err != nil {
		return nil, err
	}

	atPointer := session.CurrentSectionIndex < session.TotalSections &&
		template.Body.Sections[session.CurrentSectionIndex].ID == sectionID
	if !atPointer {
		return &ApprovalResult{
			NextIndex:       session.CurrentSectionIndex,
			Status:          session.Status,
			AllSectionsDone: session.AllSectionsApproved(),
		}, nil
	}

	newIndex, status, err := o.sessions.AdvanceSection(session.ID, session.CurrentSectionIndex)
	if err != nil {
		return nil, err
	}

	slog.Info("Section approved",
		"session_id", session.ID, "section_id", sectionID, "next_index", newIndex)

	return &ApprovalResult{
		NextIndex:       newIndex,
		Status:          status,
		AllSectionsDone: newIndex >= session.TotalSections,
	}, nil
}

// EnhanceSection rewrites a drafted section following a user instruction and
// returns the revision as a preview. Nothing is persisted; the caller
// submits the preview through ApproveSection to keep it.
func (o *Orchestrator) EnhanceSection(ctx context.Context, sessionID, sectionID, instruction string, companyContext models.CompanyContext) (string, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return "", err
	}

	section, ok := template.SectionByID(sectionID)
	if !ok {
		return "", ErrSectionNotFound
	}

	draft, err := o.drafts.GetBySection(session.ID, sectionID)
	if err != nil {
		return "", err
	}
	if draft == nil {
		return "", ErrDraftNotFound
	}

	return o.sectionSvc.EnhanceSection(ctx, *section, draft.Content, instruction, companyContext)
}

// ListSections returns all drafted sections of a session in template order.
func (o *Orchestrator) ListSections(ctx context.Context, sessionID string) ([]models.SectionDraft, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	drafts, err := o.drafts.ListBySession(session.ID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.SectionDraft, len(drafts))
	for _, draft := range drafts {
		byID[draft.SectionID] = draft
	}

	ordered := make([]models.SectionDraft, 0, len(drafts))
	for _, section := range template.Body.Sections {
		if draft, ok := byID[section.ID]; ok {
			ordered = append(ordered, draft)
		}
	}

	return ordered, nil
}

// Compile concatenates every approved section into the final document.
// Every section of the template must be approved; otherwise the first
// unapproved section is reported. Compilation is deterministic and
// idempotent: recompiling replaces the content but keeps the document id.
func (o *Orchestrator) Compile(ctx context.Context, sessionID, docTitle string) (*models.CompiledDocument, error) {
	session, template, err := o.loadSessionAndTemplate(sessionID)
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(template.Body.Sections))
	for _, section := range template.Body.Sections {
		draft, err := o.drafts.GetApproved(session.ID, section.ID)
		if err != nil {
			return nil, err
		}
		if draft == nil {
			return nil, &CompileBlockedError{SectionID: section.ID}
		}
		parts = append(parts, "## "+draft.SectionTitle+"\n\n"+draft.Content)
	}

	if docTitle == "" {
		docTitle = template.DocName
	}

	doc := &models.CompiledDocument{
		ID:              newID("doc"),
		SessionID:       session.ID,
		DocTitle:        docTitle,
		CompiledContent: strings.Join(parts, sectionSeparator),
	}

	id, err := o.documents.Upsert(doc)
	if err != nil {
		return nil, err
	}
	doc.ID = id

	if err := o.sessions.SetStatus(session.ID, models.SessionStatusCompiled); err != nil {
		return nil, err
	}

	slog.Info("Document compiled",
		"session_id", session.ID, "document_id", doc.ID, "sections", len(parts))

	return doc, nil
}

// CompiledDocument returns the compiled document of a session.
func (o *Orchestrator) CompiledDocument(ctx context.Context, sessionID string) (*models.CompiledDocument, error) {
	session, err := o.sessions.GetByID(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	doc, err := o.documents.GetBySession(session.ID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}

	return doc, nil
}

// DeleteSession removes a session with all of its question rounds, drafts
// and compiled document.
func (o *Orchestrator) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := o.sessions.GetByID(sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}

	if err := o.sessions.Delete(session.ID); err != nil {
		return err
	}

	slog.Info("Session deleted", "session_id", session.ID)
	return nil
}

func (o *Orchestrator) loadSessionAndTemplate(sessionID string) (*models.DocSession, *models.Template, error) {
	session, err := o.sessions.GetByID(sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	template, err := o.templates.GetByID(session.TemplateID)
	if err != nil {
		return nil, nil, err
	}
	if template == nil {
		return nil, nil, ErrTemplateNotFound
	}

	return session, template, nil
}
