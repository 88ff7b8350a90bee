package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
)

func result(total int, winRate float64, offer *float64) *entities.BenchmarkResult {
	return &entities.BenchmarkResult{
		TotalDisputes:       total,
		ProviderWinRate:     winRate,
		AvgProviderOfferPct: offer,
	}
}

func categoryOf(insights []entities.Insight, code string) (string, bool) {
	for _, i := range insights {
		if i.Code == code {
			return i.Category, true
		}
	}
	return "", false
}

func TestGenerateInsights_WinRateThresholds(t *testing.T) {
	svc := NewInsightService()
	peers := result(1000, 60.0, nil)

	tests := []struct {
		name     string
		mineRate float64
		want     string
	}{
		{"well above peers", 66.0, entities.InsightSuccess},
		{"at threshold boundary", 65.0, entities.InsightInfo},
		{"in line", 61.0, entities.InsightInfo},
		{"below peers", 54.0, entities.InsightWarning},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := svc.GenerateInsights(result(100, tt.mineRate, nil), peers, entities.UserTypeIndividualProvider)
			require.NotEmpty(t, insights)
			assert.Equal(t, tt.want, insights[0].Category)
		})
	}
}

func TestGenerateInsights_WinRateMonotonic(t *testing.T) {
	svc := NewInsightService()
	peers := result(1000, 60.0, nil)

	rank := map[string]int{
		entities.InsightWarning: 0,
		entities.InsightInfo:    1,
		entities.InsightSuccess: 2,
	}
	previous := -1
	for rate := 0.0; rate <= 100.0; rate += 2.5 {
		insights := svc.GenerateInsights(result(100, rate, nil), peers, entities.UserTypeIndividualProvider)
		require.NotEmpty(t, insights)
		current := rank[insights[0].Category]
		assert.GreaterOrEqual(t, current, previous, "category regressed at win rate %.1f", rate)
		previous = current
	}
}

func TestGenerateInsights_OfferStrategy(t *testing.T) {
	svc := NewInsightService()

	high := svc.GenerateInsights(
		result(100, 60, floatPtr(180)),
		result(1000, 60, floatPtr(150)),
		entities.UserTypeIndividualProvider)
	cat, ok := categoryOf(high, "offer_above_peers")
	require.True(t, ok)
	assert.Equal(t, entities.InsightWarning, cat)

	low := svc.GenerateInsights(
		result(100, 60, floatPtr(120)),
		result(1000, 60, floatPtr(150)),
		entities.UserTypeIndividualProvider)
	cat, ok = categoryOf(low, "offer_below_peers")
	require.True(t, ok)
	assert.Equal(t, entities.InsightInfo, cat)

	// Inside the band no offer insight fires at all.
	middle := svc.GenerateInsights(
		result(100, 60, floatPtr(160)),
		result(1000, 60, floatPtr(150)),
		entities.UserTypeIndividualProvider)
	_, ok = categoryOf(middle, "offer_above_peers")
	assert.False(t, ok)
	_, ok = categoryOf(middle, "offer_below_peers")
	assert.False(t, ok)

	// A nil mean on either side suppresses the dimension.
	nilMean := svc.GenerateInsights(
		result(100, 60, nil),
		result(1000, 60, floatPtr(150)),
		entities.UserTypeIndividualProvider)
	_, ok = categoryOf(nilMean, "offer_above_peers")
	assert.False(t, ok)
}

func TestGenerateInsights_EmissionOrder(t *testing.T) {
	svc := NewInsightService()

	insights := svc.GenerateInsights(
		result(10, 80, floatPtr(180)),
		result(1000, 60, floatPtr(150)),
		entities.UserTypeIndividualProvider)

	require.Len(t, insights, 3)
	assert.Equal(t, "win_rate_above_peers", insights[0].Code)
	assert.Equal(t, "offer_above_peers", insights[1].Code)
	assert.Equal(t, "limited_sample", insights[2].Code)
}

func TestGenerateInsights_NoPeerDataSkipsComparisons(t *testing.T) {
	svc := NewInsightService()

	insights := svc.GenerateInsights(
		result(10, 80, floatPtr(180)),
		result(0, 0, nil),
		entities.UserTypeIndividualProvider)

	require.Len(t, insights, 1)
	assert.Equal(t, "limited_sample", insights[0].Code)
}

func TestGenerateInsights_VolumeByUserType(t *testing.T) {
	svc := NewInsightService()
	peers := result(1000, 60, nil)

	// Individuals above the volume threshold get no volume insight.
	individual := svc.GenerateInsights(result(200, 60, nil), peers, entities.UserTypeIndividualProvider)
	_, ok := categoryOf(individual, "limited_sample")
	assert.False(t, ok)

	// Groups always get the descriptive coverage insight.
	groupResult := result(200, 60, nil)
	groupResult.TotalFacilities = 12
	groupResult.StatesRepresented = 4
	groupResult.SpecialtiesRepresented = 3
	group := svc.GenerateInsights(groupResult, peers, entities.UserTypeProviderGroup)
	_, ok = categoryOf(group, "group_coverage")
	assert.True(t, ok)

	// Firms with five or more specialties also get the breadth success.
	firmResult := result(200, 60, nil)
	firmResult.TotalFacilities = 30
	firmResult.StatesRepresented = 8
	firmResult.SpecialtiesRepresented = 5
	firm := svc.GenerateInsights(firmResult, peers, entities.UserTypeLawFirm)
	cat, ok := categoryOf(firm, "firm_broad_coverage")
	require.True(t, ok)
	assert.Equal(t, entities.InsightSuccess, cat)

	narrowFirm := result(200, 60, nil)
	narrowFirm.SpecialtiesRepresented = 3
	narrow := svc.GenerateInsights(narrowFirm, peers, entities.UserTypeLawFirm)
	_, ok = categoryOf(narrow, "firm_broad_coverage")
	assert.False(t, ok)
}
