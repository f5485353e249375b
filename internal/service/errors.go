package service

import (
	"errors"
	"fmt"
)

// Sentinel errors for workflow operations. Handlers map these onto the API
// error contract: absent entities become client errors naming the entity,
// generation failures become upstream errors.
var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrTemplateNotFound    = errors.New("template not found")
	ErrSectionNotFound     = errors.New("section not found in template")
	ErrQuestionSetNotFound = errors.New("question set not found")
	ErrDraftNotFound       = errors.New("section draft not found")
	ErrDocumentNotFound    = errors.New("compiled document not found")
	ErrDocumentEmpty       = errors.New("compiled document is empty")
	ErrGenerationFailed    = errors.New("content generation failed")
	ErrPublishDisabled     = errors.New("notion publishing is disabled")
)

// CompileBlockedError reports the first template section without an approved
// draft at compile time. It is a precondition failure, not an infrastructure
// error: the caller resolves it by approving the named section.
type CompileBlockedError struct {
	SectionID string
}

func (e *CompileBlockedError) Error() string {
	return fmt.Sprintf("section '%s' not approved yet", e.SectionID)
}
