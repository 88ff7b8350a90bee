package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/adapters/memory"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

func TestResolveCohorts_IndividualRequiresSpecialty(t *testing.T) {
	svc := NewCohortService()

	_, _, err := svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         entities.UserTypeIndividualProvider,
		IdentifyingValue: "General Emergency Physicians",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	// The same profile as a law firm succeeds without a specialty.
	_, _, err = svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         entities.UserTypeLawFirm,
		IdentifyingValue: "examplefirm.com",
	})
	assert.NoError(t, err)
}

func TestResolveCohorts_IdentifyingValueRequired(t *testing.T) {
	svc := NewCohortService()

	_, _, err := svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         entities.UserTypeProviderGroup,
		IdentifyingValue: "   ",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResolveCohorts_UnknownUserType(t *testing.T) {
	svc := NewCohortService()

	_, _, err := svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         "health_plan",
		IdentifyingValue: "x",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestResolveCohorts_ConditionOrderIsFixed(t *testing.T) {
	svc := NewCohortService()
	profile := entities.BenchmarkProfile{
		UserType:         entities.UserTypeIndividualProvider,
		IdentifyingValue: "General Emergency Physicians",
		Specialty:        "Emergency Medicine",
		State:            "TX",
		PracticeSize:     "20-50 employees",
		Quarter:          "2024-Q4",
	}

	mine, peers, err := svc.ResolveCohorts(profile)
	require.NoError(t, err)

	assert.Equal(t,
		`data_quarter eq 2024-Q4 AND provider_facility_name eq General Emergency Physicians AND practice_facility_specialty eq Emergency Medicine AND location_of_service eq TX AND practice_facility_size eq 20-50 employees`,
		mine.Key())
	assert.Equal(t,
		`data_quarter eq 2024-Q4 AND practice_facility_specialty eq Emergency Medicine`,
		peers.Key())

	// Identical profiles always produce identical predicates.
	mine2, peers2, err := svc.ResolveCohorts(profile)
	require.NoError(t, err)
	assert.Equal(t, mine, mine2)
	assert.Equal(t, peers, peers2)
}

func TestResolveCohorts_GroupUsesSubstringMatch(t *testing.T) {
	svc := NewCohortService()

	mine, _, err := svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         entities.UserTypeProviderGroup,
		IdentifyingValue: "Envision",
	})
	require.NoError(t, err)
	require.Len(t, mine.Conditions, 1)
	assert.Equal(t, entities.OpContains, mine.Conditions[0].Op)
	assert.Equal(t, entities.FieldGroupName, mine.Conditions[0].Field)
}

func TestResolveCohorts_PeerResultSetIsSuperset(t *testing.T) {
	disputes := []*entities.Dispute{
		{DisputeNumber: "D1", DataQuarter: "2024-Q4", ProviderName: strPtr("Alpha ER"), Specialty: strPtr("Emergency Medicine"), State: strPtr("TX")},
		{DisputeNumber: "D2", DataQuarter: "2024-Q4", ProviderName: strPtr("Alpha ER"), Specialty: strPtr("Emergency Medicine"), State: strPtr("OK")},
		{DisputeNumber: "D3", DataQuarter: "2024-Q4", ProviderName: strPtr("Beta ER"), Specialty: strPtr("Emergency Medicine"), State: strPtr("TX")},
		{DisputeNumber: "D4", DataQuarter: "2024-Q3", ProviderName: strPtr("Alpha ER"), Specialty: strPtr("Emergency Medicine"), State: strPtr("TX")},
	}
	store := memory.NewRecordStore(disputes, nil)
	svc := NewCohortService()

	mine, peers, err := svc.ResolveCohorts(entities.BenchmarkProfile{
		UserType:         entities.UserTypeIndividualProvider,
		IdentifyingValue: "Alpha ER",
		Specialty:        "Emergency Medicine",
		State:            "TX",
		Quarter:          "2024-Q4",
	})
	require.NoError(t, err)

	ctx := context.Background()
	mineRows, err := store.Query(ctx, mine, []entities.Field{entities.FieldDisputeNumber}, 0)
	require.NoError(t, err)
	peerRows, err := store.Query(ctx, peers, []entities.Field{entities.FieldDisputeNumber}, 0)
	require.NoError(t, err)

	peerSet := make(map[string]bool)
	for _, d := range peerRows {
		peerSet[d.DisputeNumber] = true
	}
	for _, d := range mineRows {
		assert.True(t, peerSet[d.DisputeNumber], "mine row %s missing from peer cohort", d.DisputeNumber)
	}
	assert.Len(t, mineRows, 1)
	assert.Len(t, peerRows, 3)
}
