package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"docforge/internal/models"
)

// TemplateRepository provides read-only access to the template catalog
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new template repository
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByID retrieves a template by id, including its parsed section list
func (r *TemplateRepository) GetByID(templateID string) (*models.Template, error) {
	query := `
		SELECT id, dept_id, doc_name, template_json
		FROM document_templates
		WHERE id = $1
	`

	template := &models.Template{}
	var body []byte
	err := r.db.QueryRow(query, templateID).Scan(
		&template.ID,
		&template.DeptID,
		&template.DocName,
		&body,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	if err := json.Unmarshal(body, &template.Body); err != nil {
		return nil, fmt.Errorf("failed to parse template body: %w", err)
	}

	return template, nil
}

// ListByDepartment retrieves all templates for a department (id and name only)
func (r *TemplateRepository) ListByDepartment(deptID string) ([]models.Template, error) {
	query := `
		SELECT id, dept_id, doc_name
		FROM document_templates
		WHERE dept_id = $1
		ORDER BY doc_name
	`

	rows, err := r.db.Query(query, deptID)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		var template models.Template
		if err := rows.Scan(&template.ID, &template.DeptID, &template.DocName); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, template)
	}

	return templates, nil
}

// ListDepartments retrieves all departments
func (r *TemplateRepository) ListDepartments() ([]models.Department, error) {
	query := `SELECT id, name FROM departments ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var dept models.Department
		if err := rows.Scan(&dept.ID, &dept.Name); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, dept)
	}

	return departments, nil
}
