package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/providers"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

const topServiceCodeCount = 20

var filterProjection = []entities.Field{
	entities.FieldSpecialty,
	entities.FieldState,
	entities.FieldPracticeSize,
	entities.FieldDataQuarter,
	entities.FieldServiceCode,
}

// FilterOptionsService serves the dropdown metadata bundle, memoized through
// a CacheProvider keyed by the request's scoping parameters. Only successful
// computations are cached; a failed fetch is never memoized.
type FilterOptionsService struct {
	store      repositories.RecordStore
	cache      providers.CacheProvider
	rowCeiling int
	ttlSeconds int
}

// NewFilterOptionsService creates a new filter options service.
func NewFilterOptionsService(store repositories.RecordStore, cache providers.CacheProvider, rowCeiling, ttlSeconds int) *FilterOptionsService {
	if rowCeiling <= 0 {
		rowCeiling = 50000
	}
	if ttlSeconds <= 0 {
		ttlSeconds = 300
	}
	return &FilterOptionsService{
		store:      store,
		cache:      cache,
		rowCeiling: rowCeiling,
		ttlSeconds: ttlSeconds,
	}
}

// GetFilterOptions returns the cached or freshly computed option bundle
// scoped by the optional specialty, state and quarter parameters.
func (s *FilterOptionsService) GetFilterOptions(ctx context.Context, specialty, state, quarter string) (*entities.FilterOptions, error) {
	specialty = strings.TrimSpace(specialty)
	state = strings.TrimSpace(state)
	quarter = strings.TrimSpace(quarter)
	key := filterCacheKey(specialty, state, quarter)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var options entities.FilterOptions
			if err := json.Unmarshal(cached, &options); err == nil {
				return &options, nil
			}
		}
	}

	options, err := s.computeFilterOptions(ctx, specialty, state, quarter)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(options); err == nil {
			if err := s.cache.Set(ctx, key, encoded, s.ttlSeconds); err != nil {
				observability.LoggerFromContext(ctx).Warn().Err(err).
					Str("key", key).
					Msg("failed to cache filter options")
			}
		}
	}
	return options, nil
}

func (s *FilterOptionsService) computeFilterOptions(ctx context.Context, specialty, state, quarter string) (*entities.FilterOptions, error) {
	predicate := entities.Predicate{}
	if quarter != "" {
		predicate = predicate.Eq(entities.FieldDataQuarter, quarter)
	}
	if specialty != "" {
		predicate = predicate.Eq(entities.FieldSpecialty, specialty)
	}
	if state != "" {
		predicate = predicate.Eq(entities.FieldState, state)
	}

	disputes, err := s.store.Query(ctx, predicate, filterProjection, s.rowCeiling)
	if err != nil {
		return nil, err
	}

	specialties := make(map[string]struct{})
	states := make(map[string]struct{})
	sizes := make(map[string]struct{})
	quarters := make(map[string]struct{})
	codeCounts := make(map[string]int)
	for _, d := range disputes {
		addDistinct(specialties, d.Specialty)
		addDistinct(states, d.State)
		addDistinct(sizes, d.PracticeSize)
		if d.DataQuarter != "" {
			quarters[d.DataQuarter] = struct{}{}
		}
		if d.ServiceCode != nil && *d.ServiceCode != "" {
			codeCounts[*d.ServiceCode]++
		}
	}

	options := &entities.FilterOptions{
		Specialties:   sortedKeys(specialties),
		States:        sortedKeys(states),
		PracticeSizes: s.orderedPracticeSizes(ctx, sizes),
		Quarters:      sortedKeys(quarters),
		ServiceCodes:  topServiceCodes(codeCounts, topServiceCodeCount),
	}
	return options, nil
}

// orderedPracticeSizes returns the observed size labels in the lookup
// table's sort order, appending any label the lookup does not know. A store
// without the lookup table falls back to plain sorting.
func (s *FilterOptionsService) orderedPracticeSizes(ctx context.Context, observed map[string]struct{}) []string {
	lookup, err := s.store.Lookup(ctx, entities.LookupTablePracticeSizes, "")
	if err != nil {
		if !apperrors.IsValidation(err) {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Msg("practice size lookup failed, falling back to sorted labels")
		}
		return sortedKeys(observed)
	}

	ordered := make([]string, 0, len(observed))
	seen := make(map[string]struct{})
	for _, row := range lookup {
		if _, ok := observed[row.Label]; ok {
			ordered = append(ordered, row.Label)
			seen[row.Label] = struct{}{}
		}
	}
	var rest []string
	for label := range observed {
		if _, ok := seen[label]; !ok {
			rest = append(rest, label)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}

func filterCacheKey(specialty, state, quarter string) string {
	return fmt.Sprintf("filters:specialty=%s|state=%s|quarter=%s",
		strings.ToLower(specialty), strings.ToLower(state), strings.ToLower(quarter))
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func topServiceCodes(counts map[string]int, limit int) []entities.ServiceCodeOption {
	options := make([]entities.ServiceCodeOption, 0, len(counts))
	for code, count := range counts {
		options = append(options, entities.ServiceCodeOption{Code: code, Count: count})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Count != options[j].Count {
			return options[i].Count > options[j].Count
		}
		return options[i].Code < options[j].Code
	})
	if len(options) > limit {
		options = options[:limit]
	}
	return options
}
