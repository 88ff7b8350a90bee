package services

import (
	"context"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// failingStore simulates a record store outage.
type failingStore struct{}

func (failingStore) Query(context.Context, entities.Predicate, []entities.Field, int) ([]*entities.Dispute, error) {
	return nil, apperrors.NewUpstreamError("record store unavailable", nil)
}

func (failingStore) Lookup(context.Context, string, string) ([]entities.LookupRow, error) {
	return nil, apperrors.NewUpstreamError("record store unavailable", nil)
}
