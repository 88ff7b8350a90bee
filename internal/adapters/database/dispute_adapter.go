package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/entities"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/domain/repositories"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/clients/postgres"
	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/observability"
	apperrors "github.com/clearesthealth/idr-benchmarking/backend/pkg/errors"
)

const disputesTable = "idr_disputes"

// defaultProjection is used when the caller projects no fields.
var defaultProjection = []entities.Field{
	entities.FieldDisputeNumber,
	entities.FieldDataQuarter,
	entities.FieldOutcome,
	entities.FieldProviderOfferPct,
	entities.FieldPrevailingOfferPct,
	entities.FieldResolutionDays,
	entities.FieldIDRECompensation,
}

// numericFields are the float-typed dispute columns; booleanFields the
// bool-typed ones. Everything else scans as text.
var numericFields = map[entities.Field]bool{
	entities.FieldProviderOfferPct:   true,
	entities.FieldHealthPlanOfferPct: true,
	entities.FieldPrevailingOfferPct: true,
	entities.FieldResolutionDays:     true,
	entities.FieldIDRECompensation:   true,
}

var booleanFields = map[entities.Field]bool{
	entities.FieldDefaultDecision: true,
}

// lookupTables maps lookup table names to their physical columns. Guards the
// table name reaching SQL as an identifier.
var lookupTables = map[string]struct{ code, label, sortOrder string }{
	entities.LookupTableStates:        {code: "state_code", label: "state_name", sortOrder: "state_code"},
	entities.LookupTablePracticeSizes: {code: "size_label", label: "size_label", sortOrder: "sort_order"},
}

// DisputeAdapter implements the RecordStore contract over the postgres
// dispute table.
type DisputeAdapter struct {
	sqlDB   *sql.DB
	db      *goqu.Database
	metrics *observability.Metrics
}

// NewDisputeAdapter creates a new dispute record store adapter. metrics may
// be nil when observability is disabled.
func NewDisputeAdapter(client *postgres.Client, metrics *observability.Metrics) repositories.RecordStore {
	return newDisputeAdapter(client.DB(), metrics)
}

func newDisputeAdapter(db *sql.DB, metrics *observability.Metrics) *DisputeAdapter {
	return &DisputeAdapter{
		sqlDB:   db,
		db:      goqu.New("postgres", db),
		metrics: metrics,
	}
}

// Query evaluates a predicate and returns disputes with the projected fields
// populated. Rows come back ordered by dispute number so repeated runs of the
// same predicate accumulate in the same order.
func (a *DisputeAdapter) Query(ctx context.Context, predicate entities.Predicate, projection []entities.Field, limit int) ([]*entities.Dispute, error) {
	if len(projection) == 0 {
		projection = defaultProjection
	}

	cols := make([]interface{}, len(projection))
	for i, f := range projection {
		cols[i] = string(f)
	}

	ds := a.db.Select(cols...).From(disputesTable)
	for _, cond := range predicate.Conditions {
		expr, err := conditionExpression(cond)
		if err != nil {
			return nil, err
		}
		ds = ds.Where(expr)
	}
	ds = ds.Order(goqu.I(string(entities.FieldDisputeNumber)).Asc())
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build dispute query", err)
	}

	start := time.Now()
	rows, err := a.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream("dispute query failed", err)
	}
	defer rows.Close()

	var disputes []*entities.Dispute
	for rows.Next() {
		holders := make([]fieldHolder, len(projection))
		targets := make([]interface{}, len(projection))
		for i, f := range projection {
			targets[i] = holders[i].target(f)
		}
		if err := rows.Scan(targets...); err != nil {
			return nil, upstream("failed to scan dispute row", err)
		}

		dispute := &entities.Dispute{}
		for i, f := range projection {
			holders[i].apply(dispute, f)
		}
		disputes = append(disputes, dispute)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("error iterating dispute rows", err)
	}

	if a.metrics != nil {
		observability.RecordDBMetric(ctx, a.metrics, "dispute_query", time.Since(start))
	}
	return disputes, nil
}

// Lookup reads a static reference table.
func (a *DisputeAdapter) Lookup(ctx context.Context, table string, orderBy string) ([]entities.LookupRow, error) {
	spec, ok := lookupTables[table]
	if !ok {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown lookup table: %s", table))
	}
	if orderBy == "" {
		orderBy = spec.sortOrder
	}

	ds := a.db.Select(spec.code, spec.label).From(table)
	if spec.sortOrder == "sort_order" {
		ds = a.db.Select(spec.code, spec.label, "sort_order").From(table)
	}
	ds = ds.Order(goqu.I(orderBy).Asc())

	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build lookup query", err)
	}

	rows, err := a.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, upstream(fmt.Sprintf("lookup of %s failed", table), err)
	}
	defer rows.Close()

	var result []entities.LookupRow
	for rows.Next() {
		var row entities.LookupRow
		if spec.sortOrder == "sort_order" {
			if err := rows.Scan(&row.Code, &row.Label, &row.SortOrder); err != nil {
				return nil, upstream("failed to scan lookup row", err)
			}
		} else {
			if err := rows.Scan(&row.Code, &row.Label); err != nil {
				return nil, upstream("failed to scan lookup row", err)
			}
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, upstream("error iterating lookup rows", err)
	}
	return result, nil
}

func conditionExpression(cond entities.Condition) (goqu.Expression, error) {
	col := goqu.I(string(cond.Field))
	switch cond.Op {
	case entities.OpEqual:
		return col.Eq(cond.Value), nil
	case entities.OpContains:
		return col.ILike(fmt.Sprintf("%%%s%%", cond.Value)), nil
	case entities.OpIn:
		return col.In(cond.Values), nil
	case entities.OpIsNull:
		return col.IsNull(), nil
	case entities.OpNotNull:
		return col.IsNotNull(), nil
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unsupported predicate operator: %s", cond.Op))
	}
}

// upstream wraps a store failure, surfacing the postgres error code when the
// driver provides one.
func upstream(message string, err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		message = fmt.Sprintf("%s (pq: %s)", message, pqErr.Code)
	}
	return apperrors.NewUpstreamError(message, err)
}

// fieldHolder scans one projected column of unknown nullability.
type fieldHolder struct {
	s sql.NullString
	f sql.NullFloat64
	b sql.NullBool
}

func (h *fieldHolder) target(f entities.Field) interface{} {
	switch {
	case numericFields[f]:
		return &h.f
	case booleanFields[f]:
		return &h.b
	default:
		return &h.s
	}
}

func (h *fieldHolder) apply(d *entities.Dispute, f entities.Field) {
	switch f {
	case entities.FieldDisputeNumber:
		d.DisputeNumber = h.s.String
	case entities.FieldDataQuarter:
		d.DataQuarter = h.s.String
	case entities.FieldLineItemNumber:
		d.LineItemNumber = optString(h.s)
	case entities.FieldOutcome:
		d.Outcome = optString(h.s)
	case entities.FieldDefaultDecision:
		if h.b.Valid {
			v := h.b.Bool
			d.DefaultDecision = &v
		}
	case entities.FieldDisputeType:
		d.DisputeType = optString(h.s)
	case entities.FieldLineItemType:
		d.LineItemType = optString(h.s)
	case entities.FieldProviderName:
		d.ProviderName = optString(h.s)
	case entities.FieldGroupName:
		d.GroupName = optString(h.s)
	case entities.FieldProviderEmailDomain:
		d.ProviderEmailDomain = optString(h.s)
	case entities.FieldPracticeSize:
		d.PracticeSize = optString(h.s)
	case entities.FieldSpecialty:
		d.Specialty = optString(h.s)
	case entities.FieldHealthPlanName:
		d.HealthPlanName = optString(h.s)
	case entities.FieldHealthPlanDomain:
		d.HealthPlanDomain = optString(h.s)
	case entities.FieldHealthPlanType:
		d.HealthPlanType = optString(h.s)
	case entities.FieldServiceCode:
		d.ServiceCode = optString(h.s)
	case entities.FieldServiceCodeType:
		d.ServiceCodeType = optString(h.s)
	case entities.FieldPlaceOfService:
		d.PlaceOfService = optString(h.s)
	case entities.FieldServiceDescription:
		d.ServiceDescription = optString(h.s)
	case entities.FieldState:
		d.State = optString(h.s)
	case entities.FieldProviderOfferPct:
		d.ProviderOfferPct = optFloat(h.f)
	case entities.FieldHealthPlanOfferPct:
		d.HealthPlanOfferPct = optFloat(h.f)
	case entities.FieldPrevailingOfferPct:
		d.PrevailingOfferPct = optFloat(h.f)
	case entities.FieldResolutionDays:
		d.ResolutionDays = optFloat(h.f)
	case entities.FieldIDRECompensation:
		d.IDRECompensation = optFloat(h.f)
	case entities.FieldOfferSelectedFrom:
		d.OfferSelectedFrom = optString(h.s)
	case entities.FieldInitiatingParty:
		d.InitiatingParty = optString(h.s)
	}
}

func optString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}

func optFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}
