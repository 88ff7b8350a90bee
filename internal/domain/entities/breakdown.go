package entities

// ServiceCodeTypeNotReported is the bucket for codes whose type tag is null
// or explicitly marked not reported in the source data.
const ServiceCodeTypeNotReported = "not-reported"

// ServiceCodeRow is one (code, type tag) group of a cohort's breakdown. The
// same code can appear under several type tags; that is source data reality,
// so the grouping key is the pair.
type ServiceCodeRow struct {
	ServiceCode         string   `json:"service_code"`
	CodeType            string   `json:"code_type"`
	TotalDisputes       int      `json:"total_disputes"`
	Wins                int      `json:"wins"`
	Losses              int      `json:"losses"`
	WinRate             float64  `json:"win_rate"`
	AvgProviderOfferPct *float64 `json:"avg_provider_offer_pct"`
	AvgWinningOfferPct  *float64 `json:"avg_winning_offer_pct"`
}

// TypeRollup aggregates a breakdown per type tag.
type TypeRollup struct {
	CodeType      string `json:"code_type"`
	DistinctCodes int    `json:"distinct_codes"`
	TotalDisputes int    `json:"total_disputes"`
	Wins          int    `json:"wins"`
}

// ServiceCodeSummary carries the full-cohort totals alongside a possibly
// capped row list, plus the missing-code count as a data-quality signal.
type ServiceCodeSummary struct {
	TotalWithCode    int          `json:"total_with_code"`
	MissingCodeCount int          `json:"missing_code_count"`
	DistinctGroups   int          `json:"distinct_groups"`
	TypeRollup       []TypeRollup `json:"type_rollup"`
}
