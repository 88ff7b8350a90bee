package entities

import (
	"fmt"
	"strings"
)

// Operator enumerates the condition kinds a record store must support.
type Operator string

const (
	OpEqual    Operator = "eq"       // exact match
	OpContains Operator = "contains" // case-insensitive substring
	OpIn       Operator = "in"       // set membership
	OpIsNull   Operator = "is_null"
	OpNotNull  Operator = "not_null"
)

// Condition is one filter clause over a dispute field.
type Condition struct {
	Field  Field
	Op     Operator
	Value  string
	Values []string
}

// Predicate is a conjunction of conditions. The zero value matches every row.
// Condition order is part of the predicate's identity: cohort resolution
// appends clauses in a fixed order so identical profiles yield identical
// predicates.
type Predicate struct {
	Conditions []Condition
}

// Eq appends an exact-match condition.
func (p Predicate) Eq(field Field, value string) Predicate {
	p.Conditions = append(p.Conditions, Condition{Field: field, Op: OpEqual, Value: value})
	return p
}

// Contains appends a case-insensitive substring condition.
func (p Predicate) Contains(field Field, value string) Predicate {
	p.Conditions = append(p.Conditions, Condition{Field: field, Op: OpContains, Value: value})
	return p
}

// In appends a set-membership condition.
func (p Predicate) In(field Field, values ...string) Predicate {
	p.Conditions = append(p.Conditions, Condition{Field: field, Op: OpIn, Values: values})
	return p
}

// IsNull appends a null-check condition.
func (p Predicate) IsNull(field Field) Predicate {
	p.Conditions = append(p.Conditions, Condition{Field: field, Op: OpIsNull})
	return p
}

// NotNull appends a not-null condition.
func (p Predicate) NotNull(field Field) Predicate {
	p.Conditions = append(p.Conditions, Condition{Field: field, Op: OpNotNull})
	return p
}

// Matches evaluates the predicate against a single record with the same
// semantics the SQL translation produces: equality and membership compare the
// stored value exactly, substring matching is case-insensitive, and null
// checks follow field presence.
func (p Predicate) Matches(d *Dispute) bool {
	for _, c := range p.Conditions {
		value, present := d.FieldValue(c.Field)
		switch c.Op {
		case OpEqual:
			if !present || value != c.Value {
				return false
			}
		case OpContains:
			if !present || !strings.Contains(strings.ToLower(value), strings.ToLower(c.Value)) {
				return false
			}
		case OpIn:
			if !present {
				return false
			}
			found := false
			for _, v := range c.Values {
				if value == v {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		case OpIsNull:
			if present {
				return false
			}
		case OpNotNull:
			if !present {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// Key returns a stable string form of the predicate, usable as a cache key
// and in log lines.
func (p Predicate) Key() string {
	if len(p.Conditions) == 0 {
		return "all"
	}
	parts := make([]string, 0, len(p.Conditions))
	for _, c := range p.Conditions {
		switch c.Op {
		case OpIn:
			parts = append(parts, fmt.Sprintf("%s %s [%s]", c.Field, c.Op, strings.Join(c.Values, ",")))
		case OpIsNull, OpNotNull:
			parts = append(parts, fmt.Sprintf("%s %s", c.Field, c.Op))
		default:
			parts = append(parts, fmt.Sprintf("%s %s %s", c.Field, c.Op, c.Value))
		}
	}
	return strings.Join(parts, " AND ")
}
