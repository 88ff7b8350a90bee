package services

import (
	"context"
	"math"
	"sort"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
)

// benchmarkProjection is what a scalar aggregation needs from every row.
var benchmarkProjection = []entities.Field{
	entities.FieldOutcome,
	entities.FieldProviderOfferPct,
	entities.FieldPrevailingOfferPct,
	entities.FieldResolutionDays,
	entities.FieldIDRECompensation,
}

// entityProjection extends benchmarkProjection with the fields needed for
// group and law-firm coverage counts.
var entityProjection = append(benchmarkProjection[:len(benchmarkProjection):len(benchmarkProjection)],
	entities.FieldProviderName,
	entities.FieldSpecialty,
	entities.FieldState,
)

// BenchmarkService computes the scalar cohort statistics. The computation is
// a single pass over the matched rows using running accumulators; only the
// resolution-days values are materialized, for the percentile.
type BenchmarkService struct {
	store      repositories.RecordStore
	rowCeiling int
}

// NewBenchmarkService creates a new benchmark service. rowCeiling bounds
// every cohort scan; <= 0 falls back to 50000.
func NewBenchmarkService(store repositories.RecordStore, rowCeiling int) *BenchmarkService {
	if rowCeiling <= 0 {
		rowCeiling = 50000
	}
	return &BenchmarkService{
		store:      store,
		rowCeiling: rowCeiling,
	}
}

// ComputeBenchmark evaluates a cohort predicate into a BenchmarkResult. An
// empty cohort is a zero-valued result, not an error. Identical predicates
// against an unchanged store yield identical results.
func (s *BenchmarkService) ComputeBenchmark(ctx context.Context, predicate entities.Predicate, userType string) (*entities.BenchmarkResult, error) {
	projection := benchmarkProjection
	countEntities := userType == entities.UserTypeProviderGroup || userType == entities.UserTypeLawFirm
	if countEntities {
		projection = entityProjection
	}

	disputes, err := s.store.Query(ctx, predicate, projection, s.rowCeiling)
	if err != nil {
		return nil, err
	}

	result := &entities.BenchmarkResult{}
	if len(disputes) >= s.rowCeiling {
		result.Truncated = true
		observability.LoggerFromContext(ctx).Warn().
			Int("row_ceiling", s.rowCeiling).
			Str("predicate", predicate.Key()).
			Msg("cohort scan truncated at row ceiling, statistics are approximate")
	}

	var (
		wins          int
		providerOffer meanAccumulator
		winningOffer  meanAccumulator
		compensation  meanAccumulator
		days          []float64
		facilities    map[string]struct{}
		specialties   map[string]struct{}
		states        map[string]struct{}
	)
	if countEntities {
		facilities = make(map[string]struct{})
		specialties = make(map[string]struct{})
		states = make(map[string]struct{})
	}

	for _, d := range disputes {
		if d.IsProviderWin() {
			wins++
		}
		providerOffer.add(d.ProviderOfferPct)
		winningOffer.add(d.PrevailingOfferPct)
		compensation.add(d.IDRECompensation)
		if d.ResolutionDays != nil {
			days = append(days, *d.ResolutionDays)
		}
		if countEntities {
			addDistinct(facilities, d.ProviderName)
			addDistinct(specialties, d.Specialty)
			addDistinct(states, d.State)
		}
	}

	result.TotalDisputes = len(disputes)
	if result.TotalDisputes > 0 {
		result.ProviderWinRate = round1(100 * float64(wins) / float64(result.TotalDisputes))
	}
	result.AvgProviderOfferPct = providerOffer.mean(round2)
	result.AvgWinningOfferPct = winningOffer.mean(round2)
	result.AvgIDRECompensation = compensation.mean(round2)
	result.MedianResolutionDays = medianOf(days)

	if countEntities {
		result.TotalFacilities = len(facilities)
		result.SpecialtiesRepresented = len(specialties)
		result.StatesRepresented = len(states)
	}

	return result, nil
}

// meanAccumulator is a running mean over non-null inputs.
type meanAccumulator struct {
	sum   float64
	count int
}

func (m *meanAccumulator) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.count++
}

func (m *meanAccumulator) mean(round func(float64) float64) *float64 {
	if m.count == 0 {
		return nil
	}
	v := round(m.sum / float64(m.count))
	return &v
}

// medianOf returns the linearly interpolated 50th percentile rounded to the
// nearest whole day, or nil for an empty input.
func medianOf(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sort.Float64s(values)
	h := float64(len(values)-1) / 2
	lo := int(math.Floor(h))
	median := values[lo]
	if lo+1 < len(values) {
		median += (values[lo+1] - values[lo]) * (h - float64(lo))
	}
	rounded := math.Round(median)
	return &rounded
}

func addDistinct(set map[string]struct{}, v *string) {
	if v == nil || *v == "" {
		return
	}
	set[*v] = struct{}{}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
