package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/memory"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/api/handlers"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/application/services"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
)

func searchDisputes() []*entities.Dispute {
	return []*entities.Dispute{
		{DisputeNumber: "S1", DataQuarter: "2024-Q4", ProviderName: strPtr("Coastal Medical"), Specialty: strPtr("Radiology")},
		{DisputeNumber: "S2", DataQuarter: "2024-Q4", ProviderName: strPtr("Coastal Medical"), Specialty: strPtr("Radiology")},
		{DisputeNumber: "S3", DataQuarter: "2024-Q3", ProviderName: strPtr("Coastal Medical Group"), Specialty: strPtr("Emergency Medicine")},
	}
}

func newEntityHandler() *handlers.EntityHandler {
	store := memory.NewRecordStore(searchDisputes(), nil)
	return handlers.NewEntityHandler(services.NewEntitySearchService(store, 0, 15))
}

func TestEntityHandler_Search_Success(t *testing.T) {
	handler := newEntityHandler()

	req := httptest.NewRequest("GET", "/api/entities/search?type=practice&q=coastal", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result entities.SearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, entities.SearchStatusOK, result.Status)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "Coastal Medical", result.Candidates[0].Name)
	assert.Equal(t, 2, result.Candidates[0].DisputeCount)
}

func TestEntityHandler_Search_QueryTooShort(t *testing.T) {
	handler := newEntityHandler()

	req := httptest.NewRequest("GET", "/api/entities/search?type=practice&q=c", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result entities.SearchResult
	require.NoError(t, json.NewDecoder(w.Body).Decode(&result))
	assert.Equal(t, entities.SearchStatusQueryTooShort, result.Status)
	assert.Empty(t, result.Candidates)
}

func TestEntityHandler_Search_MissingType(t *testing.T) {
	handler := newEntityHandler()

	req := httptest.NewRequest("GET", "/api/entities/search?q=coastal", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEntityHandler_Search_BadLimit(t *testing.T) {
	handler := newEntityHandler()

	req := httptest.NewRequest("GET", "/api/entities/search?type=practice&q=coastal&limit=many", nil)
	w := httptest.NewRecorder()

	handler.Search(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
