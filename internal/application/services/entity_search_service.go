package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

const minQueryLength = 2

// EntitySearchService resolves a partial name or domain into ranked
// candidate entities for autofill. The results are advisory: selecting a
// candidate pre-fills a benchmark profile but never filters the benchmark
// query itself.
type EntitySearchService struct {
	store        repositories.RecordStore
	rowCeiling   int
	defaultLimit int
}

// NewEntitySearchService creates a new entity search service.
func NewEntitySearchService(store repositories.RecordStore, rowCeiling, defaultLimit int) *EntitySearchService {
	if rowCeiling <= 0 {
		rowCeiling = 50000
	}
	if defaultLimit <= 0 {
		defaultLimit = 15
	}
	return &EntitySearchService{
		store:        store,
		rowCeiling:   rowCeiling,
		defaultLimit: defaultLimit,
	}
}

// entityAccumulator collects everything observed for one case-insensitive
// entity key.
type entityAccumulator struct {
	count    int
	casings  *modeCounter
	specs    *modeCounter
	states   *modeCounter
	sizes    *modeCounter
	quarters map[string]struct{}
}

// Search matches the query against the field selected by searchType and
// disambiguates the hits into distinct entities. Queries shorter than two
// characters return an explanatory status, not an error.
func (s *EntitySearchService) Search(ctx context.Context, searchType, query, specialty string, limit int) (*entities.SearchResult, error) {
	query = strings.TrimSpace(query)
	if len(query) < minQueryLength {
		return &entities.SearchResult{
			Status:     entities.SearchStatusQueryTooShort,
			Candidates: []entities.EntityCandidate{},
		}, nil
	}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	var nameField entities.Field
	switch searchType {
	case entities.SearchTypePractice:
		nameField = entities.FieldProviderName
	case entities.SearchTypeGroup:
		nameField = entities.FieldGroupName
	case entities.SearchTypeLawFirm:
		nameField = entities.FieldProviderEmailDomain
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown search type: %q", searchType))
	}

	predicate := entities.Predicate{}.Contains(nameField, query)
	if specialty = strings.TrimSpace(specialty); specialty != "" {
		predicate = predicate.Eq(entities.FieldSpecialty, specialty)
	}

	projection := []entities.Field{
		nameField,
		entities.FieldSpecialty,
		entities.FieldState,
		entities.FieldPracticeSize,
		entities.FieldDataQuarter,
	}
	disputes, err := s.store.Query(ctx, predicate, projection, s.rowCeiling)
	if err != nil {
		return nil, err
	}

	// Case-insensitive dedupe: spellings that differ only by case are the
	// same logical entity. The displayed casing is the most frequent one.
	accumulators := make(map[string]*entityAccumulator)
	var order []string
	for _, d := range disputes {
		name, ok := d.FieldValue(nameField)
		if !ok || name == "" {
			continue
		}
		key := strings.ToLower(name)
		acc, exists := accumulators[key]
		if !exists {
			acc = &entityAccumulator{
				casings:  newModeCounter(),
				specs:    newModeCounter(),
				states:   newModeCounter(),
				sizes:    newModeCounter(),
				quarters: make(map[string]struct{}),
			}
			accumulators[key] = acc
			order = append(order, key)
		}
		acc.count++
		acc.casings.add(name)
		acc.specs.addPtr(d.Specialty)
		acc.states.addPtr(d.State)
		acc.sizes.addPtr(d.PracticeSize)
		if d.DataQuarter != "" {
			acc.quarters[d.DataQuarter] = struct{}{}
		}
	}

	candidates := make([]entities.EntityCandidate, 0, len(order))
	for _, key := range order {
		acc := accumulators[key]
		quarters := make([]string, 0, len(acc.quarters))
		for q := range acc.quarters {
			quarters = append(quarters, q)
		}
		sort.Strings(quarters)
		candidates = append(candidates, entities.EntityCandidate{
			Name:         acc.casings.mode(),
			DisputeCount: acc.count,
			Specialty:    acc.specs.mode(),
			State:        acc.states.mode(),
			PracticeSize: acc.sizes.mode(),
			Quarters:     quarters,
		})
	}

	// Match volume first; equal volumes ordered by edit distance to the
	// query so closer names surface, then by name for a total order.
	lowered := strings.ToLower(query)
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].DisputeCount != candidates[j].DisputeCount {
			return candidates[i].DisputeCount > candidates[j].DisputeCount
		}
		di := levenshtein.ComputeDistance(lowered, strings.ToLower(candidates[i].Name))
		dj := levenshtein.ComputeDistance(lowered, strings.ToLower(candidates[j].Name))
		if di != dj {
			return di < dj
		}
		return candidates[i].Name < candidates[j].Name
	})

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return &entities.SearchResult{
		Status:     entities.SearchStatusOK,
		Candidates: candidates,
	}, nil
}

// modeCounter tracks the most frequent value in a stream, breaking frequency
// ties in favor of the value seen first.
type modeCounter struct {
	counts map[string]int
	first  map[string]int
	next   int
}

func newModeCounter() *modeCounter {
	return &modeCounter{
		counts: make(map[string]int),
		first:  make(map[string]int),
	}
}

func (m *modeCounter) add(v string) {
	if v == "" {
		return
	}
	if _, ok := m.counts[v]; !ok {
		m.first[v] = m.next
		m.next++
	}
	m.counts[v]++
}

func (m *modeCounter) addPtr(v *string) {
	if v != nil {
		m.add(*v)
	}
}

func (m *modeCounter) mode() string {
	best := ""
	bestCount := 0
	for v, c := range m.counts {
		if c > bestCount || (c == bestCount && m.first[v] < m.first[best]) {
			best = v
			bestCount = c
		}
	}
	return best
}
