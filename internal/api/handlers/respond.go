package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			observability.GetLogger().Error().Err(err).Msg("failed to encode response")
		}
	}
}

// respondWithError maps application errors onto HTTP status codes
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	statusCode := http.StatusInternalServerError
	message := "internal server error"

	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
		switch appErr.Type {
		case apperrors.ErrorTypeValidation:
			statusCode = http.StatusBadRequest
		case apperrors.ErrorTypeNotFound:
			statusCode = http.StatusNotFound
		case apperrors.ErrorTypeUpstream:
			statusCode = http.StatusBadGateway
		}
	}

	if statusCode >= http.StatusInternalServerError {
		observability.LoggerFromContext(r.Context()).Error().
			Err(err).
			Str("path", r.URL.Path).
			Msg("request failed")
	}

	respondWithJSON(w, statusCode, map[string]string{"error": message})
}
