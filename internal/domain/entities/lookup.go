package entities

// Lookup table names served by the record store.
const (
	LookupTableStates        = "states"
	LookupTablePracticeSizes = "practice_sizes"
)

// LookupRow is one row of a small static reference table.
type LookupRow struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	SortOrder int    `json:"sort_order"`
}
