package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"docforge/internal/models"
)

// QuestionRepository handles section question set database operations.
// The question list lives in a single JSONB column; every write replaces the
// whole list in one atomic row update.
type QuestionRepository struct {
	db *sql.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create persists a new question set for a (session, section) pair.
// The unique constraint on (session_id, section_id) enforces at-most-once
// creation; a conflicting insert keeps the existing row untouched.
func (r *QuestionRepository) Create(set *models.SectionQuestionSet) error {
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		INSERT INTO session_questions (id, session_id, section_id, questions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (session_id, section_id) DO NOTHING
	`

	_, err = r.db.Exec(query, set.ID, set.SessionID, set.SectionID, questions, set.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create question set: %w", err)
	}

	return nil
}

// GetBySection retrieves the question set for a (session, section) pair.
// Returns nil without error when none exists.
func (r *QuestionRepository) GetBySection(sessionID, sectionID string) (*models.SectionQuestionSet, error) {
	query := `
		SELECT id, session_id, section_id, questions, created_at, updated_at
		FROM session_questions
		WHERE session_id = $1 AND section_id = $2
	`

	set := &models.SectionQuestionSet{}
	var questions []byte
	err := r.db.QueryRow(query, sessionID, sectionID).Scan(
		&set.ID,
		&set.SessionID,
		&set.SectionID,
		&questions,
		&set.CreatedAt,
		&set.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question set: %w", err)
	}

	if err := json.Unmarshal(questions, &set.Questions); err != nil {
		return nil, fmt.Errorf("failed to parse questions: %w", err)
	}

	return set, nil
}

// UpdateQuestions replaces the stored question list (used after an answer
// merge; the set of question ids never changes)
func (r *QuestionRepository) UpdateQuestions(set *models.SectionQuestionSet) error {
	questions, err := json.Marshal(set.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}

	query := `
		UPDATE session_questions
		SET questions = $3, updated_at = $4
		WHERE session_id = $1 AND section_id = $2
	`

	result, err := r.db.Exec(query, set.SessionID, set.SectionID, questions, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update question set: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update question set: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("question set for session %s section %s not found", set.SessionID, set.SectionID)
	}

	return nil
}
