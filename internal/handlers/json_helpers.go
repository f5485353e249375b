package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"docforge/internal/service"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// respondWithServiceError maps service layer errors onto HTTP statuses:
// missing resources to 404, blocked compilation to 409 with the offending
// section, model failures to 502. Everything else is a 500 with a generic
// message so internals never leak.
func respondWithServiceError(w http.ResponseWriter, err error) {
	var blocked *service.CompileBlockedError
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrTemplateNotFound),
		errors.Is(err, service.ErrSectionNotFound),
		errors.Is(err, service.ErrQuestionSetNotFound),
		errors.Is(err, service.ErrDraftNotFound),
		errors.Is(err, service.ErrDocumentNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())

	case errors.As(err, &blocked):
		respondWithJSON(w, http.StatusConflict, map[string]string{
			"error":      blocked.Error(),
			"section_id": blocked.SectionID,
		})

	case errors.Is(err, service.ErrDocumentEmpty):
		respondWithError(w, http.StatusConflict, err.Error())

	case errors.Is(err, service.ErrGenerationFailed):
		respondWithError(w, http.StatusBadGateway, "Content generation failed")

	case errors.Is(err, service.ErrPublishDisabled):
		respondWithError(w, http.StatusServiceUnavailable, "Publishing is not configured")

	default:
		slog.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
