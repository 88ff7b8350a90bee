package handlers

import (
	"net/http"
	"strconv"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/application/services"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

// EntityHandler serves entity search requests.
type EntityHandler struct {
	search *services.EntitySearchService
}

// NewEntityHandler creates a new entity handler.
func NewEntityHandler(search *services.EntitySearchService) *EntityHandler {
	return &EntityHandler{search: search}
}

// Search handles GET /api/entities/search
func (h *EntityHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	searchType := query.Get("type")
	if searchType == "" {
		respondWithError(w, r, apperrors.NewValidationError("type parameter is required"))
		return
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, r, apperrors.NewValidationError("limit must be an integer"))
			return
		}
		limit = parsed
	}

	result, err := h.search.Search(r.Context(), searchType, query.Get("q"), query.Get("specialty"), limit)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
