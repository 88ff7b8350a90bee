package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/cache"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/memory"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

func filterDisputes() []*entities.Dispute {
	return []*entities.Dispute{
		{DisputeNumber: "D1", DataQuarter: "2024-Q4", Specialty: strPtr("Emergency Medicine"), State: strPtr("TX"), PracticeSize: strPtr("20-50 employees"), ServiceCode: strPtr("99285")},
		{DisputeNumber: "D2", DataQuarter: "2024-Q4", Specialty: strPtr("Radiology"), State: strPtr("OK"), PracticeSize: strPtr("Fewer than 20 employees"), ServiceCode: strPtr("99285")},
		{DisputeNumber: "D3", DataQuarter: "2024-Q3", Specialty: strPtr("Emergency Medicine"), State: strPtr("TX"), ServiceCode: strPtr("99284")},
	}
}

func filterLookups() map[string][]entities.LookupRow {
	return map[string][]entities.LookupRow{
		entities.LookupTablePracticeSizes: {
			{Code: "<20", Label: "Fewer than 20 employees", SortOrder: 1},
			{Code: "20-50", Label: "20-50 employees", SortOrder: 2},
		},
	}
}

func TestGetFilterOptions_Computes(t *testing.T) {
	store := memory.NewRecordStore(filterDisputes(), filterLookups())
	svc := NewFilterOptionsService(store, nil, 0, 0)

	options, err := svc.GetFilterOptions(context.Background(), "", "", "")
	require.NoError(t, err)

	assert.Equal(t, []string{"Emergency Medicine", "Radiology"}, options.Specialties)
	assert.Equal(t, []string{"OK", "TX"}, options.States)
	// Lookup-table order, not alphabetical.
	assert.Equal(t, []string{"Fewer than 20 employees", "20-50 employees"}, options.PracticeSizes)
	assert.Equal(t, []string{"2024-Q3", "2024-Q4"}, options.Quarters)
	require.Len(t, options.ServiceCodes, 2)
	assert.Equal(t, entities.ServiceCodeOption{Code: "99285", Count: 2}, options.ServiceCodes[0])
}

func TestGetFilterOptions_ScopedByParameters(t *testing.T) {
	store := memory.NewRecordStore(filterDisputes(), filterLookups())
	svc := NewFilterOptionsService(store, nil, 0, 0)

	options, err := svc.GetFilterOptions(context.Background(), "Emergency Medicine", "", "2024-Q4")
	require.NoError(t, err)

	assert.Equal(t, []string{"Emergency Medicine"}, options.Specialties)
	assert.Equal(t, []string{"TX"}, options.States)
	require.Len(t, options.ServiceCodes, 1)
	assert.Equal(t, "99285", options.ServiceCodes[0].Code)
}

func TestGetFilterOptions_CachesSuccessfulResults(t *testing.T) {
	store := memory.NewRecordStore(filterDisputes(), filterLookups())
	counting := &countingStore{RecordStore: store}
	memCache := cache.NewMemoryAdapter(20)
	svc := NewFilterOptionsService(counting, memCache, 0, 300)

	ctx := context.Background()
	first, err := svc.GetFilterOptions(ctx, "", "", "")
	require.NoError(t, err)
	second, err := svc.GetFilterOptions(ctx, "", "", "")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counting.queryCount(), "second call should be served from cache")

	// A differently scoped request misses.
	_, err = svc.GetFilterOptions(ctx, "Radiology", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, counting.queryCount())
}

func TestGetFilterOptions_ErrorsAreNotCached(t *testing.T) {
	memCache := cache.NewMemoryAdapter(20)
	svc := NewFilterOptionsService(failingStore{}, memCache, 0, 300)

	_, err := svc.GetFilterOptions(context.Background(), "", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.TypeOf(err))

	exists, err := memCache.Exists(context.Background(), filterCacheKey("", "", ""))
	require.NoError(t, err)
	assert.False(t, exists, "a failed fetch must never be memoized")
}

// countingStore wraps a record store and counts Query calls. Queries may
// arrive from concurrent goroutines.
type countingStore struct {
	repositories.RecordStore
	mu      sync.Mutex
	queries int
}

func (c *countingStore) Query(ctx context.Context, p entities.Predicate, proj []entities.Field, limit int) ([]*entities.Dispute, error) {
	c.mu.Lock()
	c.queries++
	c.mu.Unlock()
	return c.RecordStore.Query(ctx, p, proj, limit)
}

func (c *countingStore) queryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries
}
