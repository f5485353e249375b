package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"docforge/internal/models"
	"docforge/internal/service"
)

// SessionHandler handles document-generation session requests
type SessionHandler struct {
	orchestrator *service.Orchestrator
	exporter     *service.ExportService
	notion       *service.NotionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(orchestrator *service.Orchestrator, exporter *service.ExportService, notion *service.NotionService) *SessionHandler {
	return &SessionHandler{
		orchestrator: orchestrator,
		exporter:     exporter,
		notion:       notion,
	}
}

// CreateSessionRequest is the body of POST /sessions/
type CreateSessionRequest struct {
	TemplateID string `json:"template_id"`
}

// Create starts a new document-generation session
// @Summary Start a session
// @Description Create a document-generation session for a template
// @Tags Sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Template to generate"
// @Success 201 {object} map[string]interface{} "Created session"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Template not found"
// @Router /sessions/ [post]
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.TemplateID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgTemplateIDRequired)
		return
	}

	session, err := h.orchestrator.CreateSession(r.Context(), req.TemplateID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id":     session.ID,
		"template_id":    session.TemplateID,
		"status":         session.Status,
		"total_sections": session.TotalSections,
	})
}

// CurrentSection returns the section the session's progress pointer rests on
// @Summary Get current section
// @Description Get the section currently awaiting work, or the done state
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} service.CurrentSectionInfo "Current section"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/current_section [get]
func (h *SessionHandler) CurrentSection(w http.ResponseWriter, r *http.Request) {
	info, err := h.orchestrator.CurrentSection(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, info)
}

// Delete removes a session and everything attached to it
// @Summary Delete a session
// @Description Delete a session with its question rounds, drafts and compiled document
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]string "Confirmation"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.orchestrator.DeleteSession(r.Context(), r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Session deleted",
	})
}

// GenerateQuestionsRequest is the body of POST /sessions/{id}/generate_questions
type GenerateQuestionsRequest struct {
	SectionID      string                `json:"section_id"`
	CompanyContext models.CompanyContext `json:"company_context"`
}

// GenerateQuestions generates clarifying questions for a section
// @Summary Generate clarifying questions
// @Description Generate and record the clarifying questions for a section. Repeat calls return the stored set.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body GenerateQuestionsRequest true "Target section"
// @Success 200 {object} map[string]interface{} "Question set"
// @Failure 404 {object} map[string]string "Session or section not found"
// @Router /sessions/{id}/generate_questions [post]
func (h *SessionHandler) GenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var req GenerateQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.SectionID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgSectionIDRequired)
		return
	}

	set, err := h.orchestrator.RequestQuestions(r.Context(), r.PathValue("id"), req.SectionID, req.CompanyContext)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	questions := set.Questions
	if questions == nil {
		questions = []models.Question{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"section_id": set.SectionID,
		"questions":  questions,
	})
}

// SubmitAnswersRequest is the body of POST /sessions/{id}/submit_answers
type SubmitAnswersRequest struct {
	SectionID string                    `json:"section_id"`
	Answers   []models.AnswerSubmission `json:"answers"`
}

// SubmitAnswers records answers to a section's clarifying questions
// @Summary Submit answers
// @Description Merge submitted answers into the section's question set by question id
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body SubmitAnswersRequest true "Answers"
// @Success 200 {object} map[string]string "Confirmation"
// @Failure 404 {object} map[string]string "Session, section, or question set not found"
// @Router /sessions/{id}/submit_answers [post]
func (h *SessionHandler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.SectionID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgSectionIDRequired)
		return
	}

	set, err := h.orchestrator.SubmitAnswers(r.Context(), r.PathValue("id"), req.SectionID, req.Answers)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Answers recorded for section %s", set.SectionID),
	})
}

// GenerateSectionRequest is the body of POST /sessions/{id}/generate_section
type GenerateSectionRequest struct {
	SectionID      string                `json:"section_id"`
	CompanyContext models.CompanyContext `json:"company_context"`
}

// GenerateSection drafts the content of a section
// @Summary Generate section content
// @Description Draft a section from its answered questions and template rules
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body GenerateSectionRequest true "Target section"
// @Success 200 {object} map[string]interface{} "Drafted content"
// @Failure 404 {object} map[string]string "Session or section not found"
// @Failure 409 {object} map[string]interface{} "Required answers missing"
// @Failure 502 {object} map[string]string "Generation failed"
// @Router /sessions/{id}/generate_section [post]
func (h *SessionHandler) GenerateSection(w http.ResponseWriter, r *http.Request) {
	var req GenerateSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.SectionID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgSectionIDRequired)
		return
	}

	result, err := h.orchestrator.GenerateSection(r.Context(), r.PathValue("id"), req.SectionID, req.CompanyContext)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if result.WaitingForAnswers {
		respondWithJSON(w, http.StatusConflict, map[string]interface{}{
			"status":               "waiting_for_answers",
			"missing_question_ids": result.MissingQuestionIDs,
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"content": result.Content,
		"version": result.Version,
	})
}

// ApproveSectionRequest is the body of POST /sessions/{id}/approve_section
type ApproveSectionRequest struct {
	SectionID     string `json:"section_id"`
	EditedContent string `json:"edited_content"`
}

// ApproveSection locks in a section and advances the session
// @Summary Approve a section
// @Description Approve a drafted section, optionally with edited content, and advance the progress pointer
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ApproveSectionRequest true "Section to approve"
// @Success 200 {object} map[string]interface{} "Approval result"
// @Failure 404 {object} map[string]string "Session, section, or draft not found"
// @Router /sessions/{id}/approve_section [post]
func (h *SessionHandler) ApproveSection(w http.ResponseWriter, r *http.Request) {
	var req ApproveSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.SectionID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgSectionIDRequired)
		return
	}

	result, err := h.orchestrator.ApproveSection(r.Context(), r.PathValue("id"), req.SectionID, req.EditedContent)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":           fmt.Sprintf("Section %s approved", req.SectionID),
		"next_index":        result.NextIndex,
		"status":            result.Status,
		"all_sections_done": result.AllSectionsDone,
	})
}

// EnhanceSectionRequest is the body of POST /sessions/{id}/enhance_section
type EnhanceSectionRequest struct {
	SectionID      string                `json:"section_id"`
	Instruction    string                `json:"instruction"`
	CompanyContext models.CompanyContext `json:"company_context"`
}

// EnhanceSection previews a revision of a drafted section
// @Summary Enhance a section
// @Description Rewrite a drafted section following an instruction. The revision is a preview; approve it with edited_content to keep it.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body EnhanceSectionRequest true "Revision instruction"
// @Success 200 {object} map[string]string "Revised content"
// @Failure 404 {object} map[string]string "Session, section, or draft not found"
// @Failure 502 {object} map[string]string "Generation failed"
// @Router /sessions/{id}/enhance_section [post]
func (h *SessionHandler) EnhanceSection(w http.ResponseWriter, r *http.Request) {
	var req EnhanceSectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.SectionID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgSectionIDRequired)
		return
	}
	if req.Instruction == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgInstructionRequired)
		return
	}

	content, err := h.orchestrator.EnhanceSection(r.Context(), r.PathValue("id"), req.SectionID, req.Instruction, req.CompanyContext)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"content": content})
}

// ListSections lists a session's drafted sections
// @Summary List sections
// @Description List drafted sections of a session in template order
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} map[string]interface{} "Sections"
// @Failure 404 {object} map[string]string "Session not found"
// @Router /sessions/{id}/sections [get]
func (h *SessionHandler) ListSections(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.orchestrator.ListSections(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	sections := make([]map[string]interface{}, 0, len(drafts))
	for _, draft := range drafts {
		sections = append(sections, map[string]interface{}{
			"section_id":    draft.SectionID,
			"section_title": draft.SectionTitle,
			"content":       draft.Content,
			"status":        draft.Status,
			"version":       draft.Version,
		})
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{"sections": sections})
}

// CompileRequest is the body of POST /sessions/{id}/compile
type CompileRequest struct {
	DocTitle string `json:"doc_title"`
}

// Compile concatenates all approved sections into the final document
// @Summary Compile the document
// @Description Compile every approved section into the final document. Fails when any section remains unapproved.
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body CompileRequest false "Optional document title"
// @Success 200 {object} map[string]string "Compiled document id"
// @Failure 404 {object} map[string]string "Session not found"
// @Failure 409 {object} map[string]string "A section is not approved yet"
// @Router /sessions/{id}/compile [post]
func (h *SessionHandler) Compile(w http.ResponseWriter, r *http.Request) {
	var req CompileRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
			return
		}
	}

	doc, err := h.orchestrator.Compile(r.Context(), r.PathValue("id"), req.DocTitle)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message":     "Document compiled successfully",
		"document_id": doc.ID,
	})
}

// DownloadPDF renders the compiled document as a PDF attachment
// @Summary Download PDF
// @Description Download the compiled document rendered as a PDF
// @Tags Sessions
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary "PDF document"
// @Failure 404 {object} map[string]string "Session or document not found"
// @Router /sessions/{id}/download_pdf [get]
func (h *SessionHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	doc, err := h.orchestrator.CompiledDocument(r.Context(), sessionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	pdf, err := h.exporter.RenderPDF(doc)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="document_%s.pdf"`, sessionID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// PublishNotionRequest is the body of POST /sessions/{id}/publish_notion
type PublishNotionRequest struct {
	NotionDatabaseID string `json:"notion_database_id"`
	DocTitle         string `json:"doc_title"`
}

// PublishNotion publishes the compiled document to a Notion database
// @Summary Publish to Notion
// @Description Create a Notion page holding the compiled document
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body PublishNotionRequest true "Target Notion database"
// @Success 200 {object} map[string]string "Confirmation"
// @Failure 404 {object} map[string]string "Session or document not found"
// @Failure 502 {object} map[string]string "Notion publish failed"
// @Router /sessions/{id}/publish_notion [post]
func (h *SessionHandler) PublishNotion(w http.ResponseWriter, r *http.Request) {
	var req PublishNotionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.NotionDatabaseID == "" {
		respondWithError(w, http.StatusBadRequest, ErrMsgDatabaseIDRequired)
		return
	}

	doc, err := h.orchestrator.CompiledDocument(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if req.DocTitle != "" {
		doc.DocTitle = req.DocTitle
	}

	if err := h.notion.Publish(r.Context(), req.NotionDatabaseID, doc); err != nil {
		if errors.Is(err, service.ErrPublishDisabled) {
			respondWithServiceError(w, err)
			return
		}
		slog.Error("Notion publish failed", "session_id", doc.SessionID, "error", err)
		respondWithError(w, http.StatusBadGateway, "Failed to publish to Notion")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Document published to Notion",
	})
}
