package repository

import (
	"database/sql"
	"fmt"
	"time"

	"docforge/internal/models"
)

// DocumentRepository handles compiled document database operations
type DocumentRepository struct {
	db *sql.DB
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// Upsert stores the compiled document for a session, replacing a prior
// compile. The first compile's document id is kept on replace.
func (r *DocumentRepository) Upsert(doc *models.CompiledDocument) (string, error) {
	query := `
		INSERT INTO generated_documents (id, session_id, doc_title, compiled_content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (session_id) DO UPDATE
		SET doc_title = EXCLUDED.doc_title,
		    compiled_content = EXCLUDED.compiled_content,
		    updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	var id string
	err := r.db.QueryRow(query, doc.ID, doc.SessionID, doc.DocTitle, doc.CompiledContent, time.Now()).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("failed to upsert compiled document: %w", err)
	}

	return id, nil
}

// GetBySession retrieves the compiled document for a session.
// Returns nil without error when the session has not been compiled.
func (r *DocumentRepository) GetBySession(sessionID string) (*models.CompiledDocument, error) {
	query := `
		SELECT id, session_id, doc_title, compiled_content, created_at, updated_at
		FROM generated_documents
		WHERE session_id = $1
	`

	doc := &models.CompiledDocument{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&doc.ID,
		&doc.SessionID,
		&doc.DocTitle,
		&doc.CompiledContent,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get compiled document: %w", err)
	}

	return doc, nil
}
