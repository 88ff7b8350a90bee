package repositories

import (
	"context"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
)

// RecordStore is the read-only contract over the dispute dataset. Both the
// postgres adapter and the in-memory snapshot implement it; the engine never
// depends on which one is behind the interface, nor on row ordering.
type RecordStore interface {
	// Query returns disputes matching the predicate with only the projected
	// fields populated. limit bounds the scan; limit <= 0 means unbounded.
	Query(ctx context.Context, predicate entities.Predicate, projection []entities.Field, limit int) ([]*entities.Dispute, error)

	// Lookup reads a small static reference table, ordered by orderBy when
	// given.
	Lookup(ctx context.Context, table string, orderBy string) ([]entities.LookupRow, error)
}
