package handlers

import (
	"net/http"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/application/services"
)

// FilterHandler serves filter option requests.
type FilterHandler struct {
	filters *services.FilterOptionsService
}

// NewFilterHandler creates a new filter handler.
func NewFilterHandler(filters *services.FilterOptionsService) *FilterHandler {
	return &FilterHandler{filters: filters}
}

// GetFilterOptions handles GET /api/filters
func (h *FilterHandler) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	options, err := h.filters.GetFilterOptions(r.Context(), query.Get("specialty"), query.Get("state"), query.Get("quarter"))
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, options)
}
