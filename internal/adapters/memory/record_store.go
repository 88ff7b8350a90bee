package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

// RecordStore serves the RecordStore contract from an in-process snapshot.
// It mirrors the postgres adapter's semantics, including projection (only
// projected fields are populated on returned records) and dispute-number
// ordering, so the two are interchangeable behind the interface.
type RecordStore struct {
	disputes []*entities.Dispute
	lookups  map[string][]entities.LookupRow
}

// NewRecordStore creates a record store over the given snapshot. The
// snapshot is sorted once at construction; lookups may be nil.
func NewRecordStore(disputes []*entities.Dispute, lookups map[string][]entities.LookupRow) repositories.RecordStore {
	sorted := make([]*entities.Dispute, len(disputes))
	copy(sorted, disputes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].DisputeNumber < sorted[j].DisputeNumber
	})
	return &RecordStore{
		disputes: sorted,
		lookups:  lookups,
	}
}

// Query filters the snapshot by the predicate and projects the requested
// fields. limit <= 0 means unbounded.
func (s *RecordStore) Query(_ context.Context, predicate entities.Predicate, projection []entities.Field, limit int) ([]*entities.Dispute, error) {
	var result []*entities.Dispute
	for _, d := range s.disputes {
		if !predicate.Matches(d) {
			continue
		}
		result = append(result, project(d, projection))
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// Lookup returns a static reference table from the snapshot.
func (s *RecordStore) Lookup(_ context.Context, table string, _ string) ([]entities.LookupRow, error) {
	rows, ok := s.lookups[table]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown lookup table: %s", table))
	}
	out := make([]entities.LookupRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func project(d *entities.Dispute, projection []entities.Field) *entities.Dispute {
	if len(projection) == 0 {
		clone := *d
		return &clone
	}
	out := &entities.Dispute{}
	for _, f := range projection {
		out.CopyField(d, f)
	}
	return out
}
