package entities

// BenchmarkResult holds the aggregate statistics for one cohort predicate.
// Statistics over nullable inputs are pointers and stay nil when the cohort
// carried no non-null values for them; counts and the win rate are always
// present (zero-valued for an empty cohort).
type BenchmarkResult struct {
	TotalDisputes        int      `json:"total_disputes"`
	ProviderWinRate      float64  `json:"provider_win_rate"`
	AvgProviderOfferPct  *float64 `json:"avg_provider_offer_pct"`
	AvgWinningOfferPct   *float64 `json:"avg_winning_offer_pct"`
	MedianResolutionDays *float64 `json:"median_resolution_days"`
	AvgIDRECompensation  *float64 `json:"avg_idre_compensation"`

	// Group and law-firm cohorts only; zero for individual providers.
	TotalFacilities        int `json:"total_facilities,omitempty"`
	SpecialtiesRepresented int `json:"specialties_represented,omitempty"`
	StatesRepresented      int `json:"states_represented,omitempty"`

	// Truncated is set when the row ceiling cut the scan short. The numbers
	// above then describe the scanned prefix, a known approximation.
	Truncated bool `json:"truncated,omitempty"`
}

// BenchmarkReport is the full response of one benchmark run.
type BenchmarkReport struct {
	Profile          BenchmarkProfile    `json:"profile"`
	Mine             *BenchmarkResult    `json:"mine"`
	Peers            *BenchmarkResult    `json:"peers"`
	Breakdown        []ServiceCodeRow    `json:"service_code_breakdown"`
	BreakdownSummary *ServiceCodeSummary `json:"service_code_summary"`
	Insights         []Insight           `json:"insights"`
}
