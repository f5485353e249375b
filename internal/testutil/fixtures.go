package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"

	"docforge/internal/models"
)

// Fixtures holds test data
type Fixtures struct {
	DB         *sql.DB
	Department *models.Department
	Template   *models.Template
}

// SetupFixtures creates a department and a two-section document template
func SetupFixtures(t *testing.T, db *sql.DB) *Fixtures {
	t.Helper()

	dept := &models.Department{ID: "dept_test", Name: "Test Department"}
	if _, err := db.Exec(
		`INSERT INTO departments (id, name) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		dept.ID, dept.Name,
	); err != nil {
		t.Fatalf("Failed to create department: %v", err)
	}

	template := &models.Template{
		ID:      "tpl_test",
		DeptID:  dept.ID,
		DocName: "Test Document",
		Body: models.TemplateBody{
			Sections: []models.SectionDefinition{
				{
					ID:         "intro",
					Title:      "Introduction",
					PromptHint: "Introduce the document and its purpose.",
					MinWords:   50,
					MaxWords:   150,
				},
				{
					ID:         "details",
					Title:      "Details",
					PromptHint: "Lay out the specifics.",
					MinWords:   100,
					MaxWords:   300,
				},
			},
			GenerationRules:  map[string]any{"tone": "formal"},
			TerminologyRules: map[string]any{"company": "the Company"},
		},
	}

	body, err := json.Marshal(template.Body)
	if err != nil {
		t.Fatalf("Failed to marshal template body: %v", err)
	}

	if _, err := db.Exec(
		`INSERT INTO document_templates (id, dept_id, doc_name, template_json)
		 VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`,
		template.ID, template.DeptID, template.DocName, body,
	); err != nil {
		t.Fatalf("Failed to create template: %v", err)
	}

	return &Fixtures{
		DB:         db,
		Department: dept,
		Template:   template,
	}
}
