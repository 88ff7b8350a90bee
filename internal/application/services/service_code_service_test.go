package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/memory"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
)

func TestComputeBreakdown_CompoundKeyGrouping(t *testing.T) {
	// Same code under two type tags stays two rows.
	disputes := []*entities.Dispute{
		{DisputeNumber: "D1", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("CPT"), Outcome: strPtr(entities.OutcomeProviderWin)},
		{DisputeNumber: "D2", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("HCPCS"), Outcome: strPtr(entities.OutcomeHealthPlanWin)},
	}
	store := memory.NewRecordStore(disputes, nil)
	svc := NewServiceCodeService(store, 0)

	rows, summary, err := svc.ComputeBreakdown(context.Background(), entities.Predicate{}, 0)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].TotalDisputes)
	assert.Equal(t, 1, rows[1].TotalDisputes)

	byType := make(map[string]entities.TypeRollup)
	for _, r := range summary.TypeRollup {
		byType[r.CodeType] = r
	}
	assert.Equal(t, 1, byType["CPT"].TotalDisputes)
	assert.Equal(t, 1, byType["HCPCS"].TotalDisputes)
	assert.Equal(t, 1, byType["CPT"].Wins)
	assert.Equal(t, 0, byType["HCPCS"].Wins)
}

func TestComputeBreakdown_ReconciliationInvariant(t *testing.T) {
	var disputes []*entities.Dispute
	codes := []struct {
		code, codeType string
		n              int
	}{
		{"99285", "CPT", 5},
		{"99284", "CPT", 3},
		{"J1100", "HCPCS", 2},
		{"470", "DRG", 1},
	}
	i := 0
	for _, c := range codes {
		for k := 0; k < c.n; k++ {
			disputes = append(disputes, &entities.Dispute{
				DisputeNumber:   fmt.Sprintf("D-%03d", i),
				DataQuarter:     "2024-Q4",
				ServiceCode:     strPtr(c.code),
				ServiceCodeType: strPtr(c.codeType),
			})
			i++
		}
	}
	// Four records with no code at all.
	for k := 0; k < 4; k++ {
		disputes = append(disputes, &entities.Dispute{
			DisputeNumber: fmt.Sprintf("M-%03d", k),
			DataQuarter:   "2024-Q4",
		})
	}
	store := memory.NewRecordStore(disputes, nil)
	svc := NewServiceCodeService(store, 0)

	_, summary, err := svc.ComputeBreakdown(context.Background(), entities.Predicate{}, 0)
	require.NoError(t, err)

	rollupTotal := 0
	for _, r := range summary.TypeRollup {
		rollupTotal += r.TotalDisputes
	}
	assert.Equal(t, summary.TotalWithCode, rollupTotal)
	assert.Equal(t, len(disputes), rollupTotal+summary.MissingCodeCount)
	assert.Equal(t, 4, summary.MissingCodeCount)
}

func TestComputeBreakdown_SortAndCap(t *testing.T) {
	var disputes []*entities.Dispute
	add := func(code string, n int) {
		for k := 0; k < n; k++ {
			disputes = append(disputes, &entities.Dispute{
				DisputeNumber:   fmt.Sprintf("%s-%03d", code, k),
				DataQuarter:     "2024-Q4",
				ServiceCode:     strPtr(code),
				ServiceCodeType: strPtr("CPT"),
			})
		}
	}
	add("99285", 5)
	add("99284", 5)
	add("99283", 2)

	store := memory.NewRecordStore(disputes, nil)
	svc := NewServiceCodeService(store, 0)

	rows, summary, err := svc.ComputeBreakdown(context.Background(), entities.Predicate{}, 2)
	require.NoError(t, err)

	// Capped to two rows; equal counts ordered by code.
	require.Len(t, rows, 2)
	assert.Equal(t, "99284", rows[0].ServiceCode)
	assert.Equal(t, "99285", rows[1].ServiceCode)

	// Summary still covers the full cohort.
	assert.Equal(t, 12, summary.TotalWithCode)
	assert.Equal(t, 3, summary.DistinctGroups)
}

func TestComputeBreakdown_NotReportedBucket(t *testing.T) {
	disputes := []*entities.Dispute{
		{DisputeNumber: "D1", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285")},
		{DisputeNumber: "D2", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("Not Reported")},
		{DisputeNumber: "D3", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("CPT")},
	}
	store := memory.NewRecordStore(disputes, nil)
	svc := NewServiceCodeService(store, 0)

	rows, summary, err := svc.ComputeBreakdown(context.Background(), entities.Predicate{}, 0)
	require.NoError(t, err)

	// Null tag and the explicit "Not Reported" value share one bucket.
	require.Len(t, rows, 2)
	assert.Equal(t, entities.ServiceCodeTypeNotReported, rows[0].CodeType)
	assert.Equal(t, 2, rows[0].TotalDisputes)
	assert.Equal(t, "CPT", rows[1].CodeType)
	assert.Equal(t, 0, summary.MissingCodeCount)
}

func TestComputeBreakdown_WinRatePerGroup(t *testing.T) {
	disputes := []*entities.Dispute{
		{DisputeNumber: "D1", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("CPT"), Outcome: strPtr(entities.OutcomeProviderWin), ProviderOfferPct: floatPtr(150)},
		{DisputeNumber: "D2", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("CPT"), Outcome: strPtr(entities.OutcomeProviderWin), ProviderOfferPct: floatPtr(170)},
		{DisputeNumber: "D3", DataQuarter: "2024-Q4", ServiceCode: strPtr("99285"), ServiceCodeType: strPtr("CPT"), Outcome: strPtr(entities.OutcomeHealthPlanWin)},
	}
	store := memory.NewRecordStore(disputes, nil)
	svc := NewServiceCodeService(store, 0)

	rows, _, err := svc.ComputeBreakdown(context.Background(), entities.Predicate{}, 0)
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].TotalDisputes)
	assert.Equal(t, 2, rows[0].Wins)
	assert.Equal(t, 1, rows[0].Losses)
	assert.Equal(t, 66.7, rows[0].WinRate)
	require.NotNil(t, rows[0].AvgProviderOfferPct)
	assert.Equal(t, 160.0, *rows[0].AvgProviderOfferPct)
	assert.Nil(t, rows[0].AvgWinningOfferPct)
}
