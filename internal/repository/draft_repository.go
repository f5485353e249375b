package repository

import (
	"database/sql"
	"fmt"
	"time"

	"docforge/internal/models"
)

// DraftRepository handles section draft database operations
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a new draft repository
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Upsert inserts a draft for a (session, section) pair, or replaces the
// content of the existing one. A replaced draft goes back to generated
// status and its version counter increments. Returns the stored draft id
// and version.
func (r *DraftRepository) Upsert(draft *models.SectionDraft) (string, int, error) {
	query := `
		INSERT INTO doc_sections (id, session_id, section_id, section_title, content, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $7)
		ON CONFLICT (session_id, section_id) DO UPDATE
		SET content = EXCLUDED.content,
		    status = EXCLUDED.status,
		    version = doc_sections.version + 1,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, version
	`

	var id string
	var version int
	err := r.db.QueryRow(
		query,
		draft.ID,
		draft.SessionID,
		draft.SectionID,
		draft.SectionTitle,
		draft.Content,
		models.DraftStatusGenerated,
		time.Now(),
	).Scan(&id, &version)

	if err != nil {
		return "", 0, fmt.Errorf("failed to upsert draft: %w", err)
	}

	return id, version, nil
}

// GetBySection retrieves the draft for a (session, section) pair.
// Returns nil without error when none exists.
func (r *DraftRepository) GetBySection(sessionID, sectionID string) (*models.SectionDraft, error) {
	query := `
		SELECT id, session_id, section_id, section_title, content, status, version, created_at, updated_at
		FROM doc_sections
		WHERE session_id = $1 AND section_id = $2
	`

	draft := &models.SectionDraft{}
	err := r.db.QueryRow(query, sessionID, sectionID).Scan(
		&draft.ID,
		&draft.SessionID,
		&draft.SectionID,
		&draft.SectionTitle,
		&draft.Content,
		&draft.Status,
		&draft.Version,
		&draft.CreatedAt,
		&draft.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return draft, nil
}

// GetApproved retrieves the approved draft for a (session, section) pair.
// Returns nil without error when no approved draft exists.
func (r *DraftRepository) GetApproved(sessionID, sectionID string) (*models.SectionDraft, error) {
	draft, err := r.GetBySection(sessionID, sectionID)
	if err != nil {
		return nil, err
	}
	if draft == nil || draft.Status != models.DraftStatusApproved {
		return nil, nil
	}
	return draft, nil
}

// ListBySession retrieves all drafts of a session
func (r *DraftRepository) ListBySession(sessionID string) ([]models.SectionDraft, error) {
	query := `
		SELECT id, session_id, section_id, section_title, content, status, version, created_at, updated_at
		FROM doc_sections
		WHERE session_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.SectionDraft
	for rows.Next() {
		var draft models.SectionDraft
		if err := rows.Scan(
			&draft.ID,
			&draft.SessionID,
			&draft.SectionID,
			&draft.SectionTitle,
			&draft.Content,
			&draft.Status,
			&draft.Version,
			&draft.CreatedAt,
			&draft.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		drafts = append(drafts, draft)
	}

	return drafts, nil
}

// Approve sets the draft content and flips its status to approved
func (r *DraftRepository) Approve(sessionID, sectionID, content string) error {
	query := `
		UPDATE doc_sections
		SET content = $3, status = $4, updated_at = $5
		WHERE session_id = $1 AND section_id = $2
	`

	result, err := r.db.Exec(query, sessionID, sectionID, content, models.DraftStatusApproved, time.Now())
	if err != nil {
		return fmt.Errorf("failed to approve draft: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to approve draft: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("draft for session %s section %s not found", sessionID, sectionID)
	}

	return nil
}
