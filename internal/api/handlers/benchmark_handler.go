package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/application/services"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

// BenchmarkHandler serves benchmark report and service-code breakdown requests.
type BenchmarkHandler struct {
	reports        *services.BenchmarkReportService
	cohorts        *services.CohortService
	codes          *services.ServiceCodeService
	breakdownLimit int
}

// NewBenchmarkHandler creates a new benchmark handler.
func NewBenchmarkHandler(
	reports *services.BenchmarkReportService,
	cohorts *services.CohortService,
	codes *services.ServiceCodeService,
	breakdownLimit int,
) *BenchmarkHandler {
	return &BenchmarkHandler{
		reports:        reports,
		cohorts:        cohorts,
		codes:          codes,
		breakdownLimit: breakdownLimit,
	}
}

// RunBenchmark handles POST /api/benchmark
func (h *BenchmarkHandler) RunBenchmark(w http.ResponseWriter, r *http.Request) {
	var profile entities.BenchmarkProfile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		respondWithError(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	report, err := h.reports.Run(r.Context(), profile, h.breakdownLimit)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

type serviceCodeRequest struct {
	entities.BenchmarkProfile
	Limit int `json:"limit"`
}

type serviceCodeResponse struct {
	Rows    []entities.ServiceCodeRow    `json:"rows"`
	Summary *entities.ServiceCodeSummary `json:"summary"`
}

// ServiceCodeBreakdown handles POST /api/benchmark/service-codes
func (h *BenchmarkHandler) ServiceCodeBreakdown(w http.ResponseWriter, r *http.Request) {
	var req serviceCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, r, apperrors.NewValidationError("invalid request body"))
		return
	}

	minePredicate, _, err := h.cohorts.ResolveCohorts(req.BenchmarkProfile)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = h.breakdownLimit
	}

	rows, summary, err := h.codes.ComputeBreakdown(r.Context(), minePredicate, limit)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, serviceCodeResponse{Rows: rows, Summary: summary})
}
