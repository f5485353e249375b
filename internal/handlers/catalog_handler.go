package handlers

import (
	"net/http"

	"docforge/internal/repository"
)

// CatalogHandler serves the department and template catalog
type CatalogHandler struct {
	templateRepo *repository.TemplateRepository
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(templateRepo *repository.TemplateRepository) *CatalogHandler {
	return &CatalogHandler{templateRepo: templateRepo}
}

// ListDepartments lists all departments
// @Summary List departments
// @Description List all departments that own document templates
// @Tags Catalog
// @Produce json
// @Success 200 {array} models.Department "Departments"
// @Router /departments/ [get]
func (h *CatalogHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.templateRepo.ListDepartments()
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	result := make([]map[string]string, 0, len(departments))
	for _, dept := range departments {
		result = append(result, map[string]string{
			"dept_id":   dept.ID,
			"dept_name": dept.Name,
		})
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ListTemplates lists a department's document templates
// @Summary List templates
// @Description List the document templates of a department
// @Tags Catalog
// @Produce json
// @Param dept_id query string true "Department ID"
// @Success 200 {array} object "Templates"
// @Failure 400 {object} map[string]string "Missing dept_id"
// @Router /templates/ [get]
func (h *CatalogHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	deptID := r.URL.Query().Get("dept_id")
	if deptID == "" {
		respondWithError(w, http.StatusBadRequest, "dept_id is required")
		return
	}

	templates, err := h.templateRepo.ListByDepartment(deptID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	result := make([]map[string]string, 0, len(templates))
	for _, template := range templates {
		result = append(result, map[string]string{
			"id":    template.ID,
			"label": template.DocName,
		})
	}

	respondWithJSON(w, http.StatusOK, result)
}
