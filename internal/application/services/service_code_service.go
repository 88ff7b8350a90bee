package services

import (
	"context"
	"sort"
	"strings"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
)

var breakdownProjection = []entities.Field{
	entities.FieldServiceCode,
	entities.FieldServiceCodeType,
	entities.FieldOutcome,
	entities.FieldProviderOfferPct,
	entities.FieldPrevailingOfferPct,
}

// ServiceCodeService builds the per-code breakdown of a cohort. Grouping is
// by the compound key (code, type tag): the same code legitimately appears
// under different type tags across records, and collapsing on code alone
// would merge unrelated populations.
type ServiceCodeService struct {
	store      repositories.RecordStore
	rowCeiling int
}

// NewServiceCodeService creates a new service-code breakdown service.
func NewServiceCodeService(store repositories.RecordStore, rowCeiling int) *ServiceCodeService {
	if rowCeiling <= 0 {
		rowCeiling = 50000
	}
	return &ServiceCodeService{
		store:      store,
		rowCeiling: rowCeiling,
	}
}

type codeGroup struct {
	code          string
	codeType      string
	total         int
	wins          int
	providerOffer meanAccumulator
	winningOffer  meanAccumulator
}

// ComputeBreakdown groups the cohort by (code, type tag) and produces the
// ranked rows plus a summary. The summary always reflects the full cohort;
// limit caps only the returned row list (default 100 when <= 0). Records
// with no service code are counted as a data-quality signal, not dropped
// silently.
func (s *ServiceCodeService) ComputeBreakdown(ctx context.Context, predicate entities.Predicate, limit int) ([]entities.ServiceCodeRow, *entities.ServiceCodeSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	disputes, err := s.store.Query(ctx, predicate, breakdownProjection, s.rowCeiling)
	if err != nil {
		return nil, nil, err
	}

	groups := make(map[string]*codeGroup)
	missing := 0
	for _, d := range disputes {
		if d.ServiceCode == nil || strings.TrimSpace(*d.ServiceCode) == "" {
			missing++
			continue
		}
		code := strings.TrimSpace(*d.ServiceCode)
		codeType := normalizeCodeType(d.ServiceCodeType)

		key := code + "\x00" + codeType
		g, ok := groups[key]
		if !ok {
			g = &codeGroup{code: code, codeType: codeType}
			groups[key] = g
		}
		g.total++
		if d.IsProviderWin() {
			g.wins++
		}
		g.providerOffer.add(d.ProviderOfferPct)
		g.winningOffer.add(d.PrevailingOfferPct)
	}

	rows := make([]entities.ServiceCodeRow, 0, len(groups))
	rollups := make(map[string]*entities.TypeRollup)
	for _, g := range groups {
		row := entities.ServiceCodeRow{
			ServiceCode:         g.code,
			CodeType:            g.codeType,
			TotalDisputes:       g.total,
			Wins:                g.wins,
			Losses:              g.total - g.wins,
			AvgProviderOfferPct: g.providerOffer.mean(round2),
			AvgWinningOfferPct:  g.winningOffer.mean(round2),
		}
		if g.total > 0 {
			row.WinRate = round1(100 * float64(g.wins) / float64(g.total))
		}
		rows = append(rows, row)

		r, ok := rollups[g.codeType]
		if !ok {
			r = &entities.TypeRollup{CodeType: g.codeType}
			rollups[g.codeType] = r
		}
		r.DistinctCodes++
		r.TotalDisputes += g.total
		r.Wins += g.wins
	}

	// Case count descending; ties in (code, type) order so output is stable.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalDisputes != rows[j].TotalDisputes {
			return rows[i].TotalDisputes > rows[j].TotalDisputes
		}
		if rows[i].ServiceCode != rows[j].ServiceCode {
			return rows[i].ServiceCode < rows[j].ServiceCode
		}
		return rows[i].CodeType < rows[j].CodeType
	})

	summary := &entities.ServiceCodeSummary{
		TotalWithCode:    len(disputes) - missing,
		MissingCodeCount: missing,
		DistinctGroups:   len(rows),
		TypeRollup:       make([]entities.TypeRollup, 0, len(rollups)),
	}
	for _, r := range rollups {
		summary.TypeRollup = append(summary.TypeRollup, *r)
	}
	sort.Slice(summary.TypeRollup, func(i, j int) bool {
		if summary.TypeRollup[i].TotalDisputes != summary.TypeRollup[j].TotalDisputes {
			return summary.TypeRollup[i].TotalDisputes > summary.TypeRollup[j].TotalDisputes
		}
		return summary.TypeRollup[i].CodeType < summary.TypeRollup[j].CodeType
	})

	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, summary, nil
}

// normalizeCodeType maps a null or explicitly unreported type tag to the
// shared not-reported bucket; anything else passes through trimmed.
func normalizeCodeType(t *string) string {
	if t == nil {
		return entities.ServiceCodeTypeNotReported
	}
	trimmed := strings.TrimSpace(*t)
	if trimmed == "" || strings.EqualFold(trimmed, "not reported") {
		return entities.ServiceCodeTypeNotReported
	}
	return trimmed
}
