package api

import (
	"net/http"

	"github.com/okian/juryboard/internal/domain/criteria"
)

// CriteriaHandler serves the fixed criteria table.
type CriteriaHandler struct {
	deps Dependencies
}

// NewCriteriaHandler creates a new criteria handler.
func NewCriteriaHandler(deps Dependencies) *CriteriaHandler {
	return &CriteriaHandler{deps: deps}
}

type criteriaResponse struct {
	Criteria []criteria.Criterion `json:"criteria"`
}

// HandleCriteria handles GET /api/criteria requests.
func (h *CriteriaHandler) HandleCriteria(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "api.criteria", http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, criteriaResponse{Criteria: h.deps.Criteria()})
}
