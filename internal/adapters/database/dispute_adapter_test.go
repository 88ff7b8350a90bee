package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

func TestDisputeAdapter_QueryTranslatesPredicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := newDisputeAdapter(db, nil)

	rows := sqlmock.NewRows([]string{"dispute_number", "payment_determination_outcome"}).
		AddRow("DISP-0001", entities.OutcomeProviderWin).
		AddRow("DISP-0002", nil)

	mock.ExpectQuery(`SELECT "dispute_number", "payment_determination_outcome" FROM "idr_disputes" WHERE .*"practice_facility_specialty" = 'Emergency Medicine'.*"provider_facility_name" ILIKE '%general%'.* ORDER BY "dispute_number" ASC LIMIT 10`).
		WillReturnRows(rows)

	predicate := entities.Predicate{}.
		Eq(entities.FieldSpecialty, "Emergency Medicine").
		Contains(entities.FieldProviderName, "general")

	disputes, err := adapter.Query(context.Background(),
		predicate,
		[]entities.Field{entities.FieldDisputeNumber, entities.FieldOutcome},
		10,
	)
	require.NoError(t, err)
	require.Len(t, disputes, 2)

	assert.Equal(t, "DISP-0001", disputes[0].DisputeNumber)
	assert.True(t, disputes[0].IsProviderWin())
	assert.Nil(t, disputes[1].Outcome)
	// Unprojected fields stay zero-valued.
	assert.Empty(t, disputes[1].DataQuarter)
	assert.Nil(t, disputes[1].ProviderOfferPct)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeAdapter_QueryNullChecksAndMembership(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := newDisputeAdapter(db, nil)

	mock.ExpectQuery(`"service_code" IS NOT NULL.*"data_quarter" IN \('2024-Q3', '2024-Q4'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"service_code"}))

	predicate := entities.Predicate{}.
		NotNull(entities.FieldServiceCode).
		In(entities.FieldDataQuarter, "2024-Q3", "2024-Q4")

	_, err = adapter.Query(context.Background(), predicate, []entities.Field{entities.FieldServiceCode}, 0)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDisputeAdapter_QueryFailureIsUpstream(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := newDisputeAdapter(db, nil)

	mock.ExpectQuery(`FROM "idr_disputes"`).
		WillReturnError(errors.New("connection reset"))

	_, err = adapter.Query(context.Background(), entities.Predicate{}, nil, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeUpstream, apperrors.TypeOf(err))
}

func TestDisputeAdapter_LookupPracticeSizes(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := newDisputeAdapter(db, nil)

	rows := sqlmock.NewRows([]string{"size_label", "size_label", "sort_order"}).
		AddRow("Fewer than 20 employees", "Fewer than 20 employees", 1).
		AddRow("20-50 employees", "20-50 employees", 2)

	mock.ExpectQuery(`FROM "practice_sizes" ORDER BY "sort_order" ASC`).
		WillReturnRows(rows)

	result, err := adapter.Lookup(context.Background(), entities.LookupTablePracticeSizes, "")
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "Fewer than 20 employees", result[0].Label)
	assert.Equal(t, 1, result[0].SortOrder)
}

func TestDisputeAdapter_LookupUnknownTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := newDisputeAdapter(db, nil)

	_, err = adapter.Lookup(context.Background(), "dispute_audit_log", "")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
