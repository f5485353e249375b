package repository

import (
	"database/sql"
	"fmt"
	"time"

	"docforge/internal/models"
)

// SessionRepository handles document-generation session database operations
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create creates a new session
func (r *SessionRepository) Create(session *models.DocSession) error {
	query := `
		INSERT INTO doc_sessions (id, template_id, dept_id, status, current_section_index, total_sections, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	`

	_, err := r.db.Exec(
		query,
		session.ID,
		session.TemplateID,
		session.DeptID,
		session.Status,
		session.CurrentSectionIndex,
		session.TotalSections,
		session.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by id. Returns nil without error when the
// session does not exist.
func (r *SessionRepository) GetByID(sessionID string) (*models.DocSession, error) {
	query := `
		SELECT id, template_id, dept_id, status, current_section_index, total_sections, created_at, updated_at
		FROM doc_sessions
		WHERE id = $1
	`

	session := &models.DocSession{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID,
		&session.TemplateID,
		&session.DeptID,
		&session.Status,
		&session.CurrentSectionIndex,
		&session.TotalSections,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// AdvanceSection atomically advances the progress pointer from fromIndex to
// fromIndex+1 and flips the status to completed when the pointer reaches the
// end. The WHERE guard makes the increment-and-check atomic: a concurrent
// call racing on the same fromIndex matches no row and gets back the stored
// state instead, so the pointer moves at most once per observed position.
func (r *SessionRepository) AdvanceSection(sessionID string, fromIndex int) (int, string, error) {
	query := `
		UPDATE doc_sessions
		SET current_section_index = current_section_index + 1,
		    status = CASE WHEN current_section_index + 1 >= total_sections THEN $3 ELSE status END,
		    updated_at = $4
		WHERE id = $1 AND current_section_index = $2 AND current_section_index < total_sections
		RETURNING current_section_index, status
	`

	var newIndex int
	var status string
	err := r.db.QueryRow(query, sessionID, fromIndex, models.SessionStatusCompleted, time.Now()).Scan(&newIndex, &status)

	if err == sql.ErrNoRows {
		// Lost the race or the pointer is at the end; report the stored state.
		session, getErr := r.GetByID(sessionID)
		if getErr != nil {
			return 0, "", getErr
		}
		if session == nil {
			return 0, "", fmt.Errorf("session %s not found", sessionID)
		}
		return session.CurrentSectionIndex, session.Status, nil
	}
	if err != nil {
		return 0, "", fmt.Errorf("failed to advance session: %w", err)
	}

	return newIndex, status, nil
}

// SetStatus updates the session status
func (r *SessionRepository) SetStatus(sessionID, status string) error {
	query := `UPDATE doc_sessions SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(query, sessionID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("session %s not found", sessionID)
	}

	return nil
}

// Delete deletes a session; question sets, drafts, and the compiled document
// cascade with it.
func (r *SessionRepository) Delete(sessionID string) error {
	query := `DELETE FROM doc_sessions WHERE id = $1`
	_, err := r.db.Exec(query, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
