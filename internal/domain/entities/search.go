package entities

// Entity search types. Each selects the free-text field the query matches
// against.
const (
	SearchTypePractice = "practice"
	SearchTypeGroup    = "group"
	SearchTypeLawFirm  = "law_firm"
)

// Search result statuses.
const (
	SearchStatusOK            = "ok"
	SearchStatusQueryTooShort = "query_too_short"
)

// EntityCandidate is one disambiguated entity matched by a search. Specialty,
// State and PracticeSize are mode-resolved across the entity's records.
type EntityCandidate struct {
	Name         string   `json:"name"`
	DisputeCount int      `json:"dispute_count"`
	Specialty    string   `json:"specialty"`
	State        string   `json:"state"`
	PracticeSize string   `json:"practice_size"`
	Quarters     []string `json:"quarters"`
}

// SearchResult is the ranked candidate list for one query.
type SearchResult struct {
	Status     string            `json:"status"`
	Candidates []EntityCandidate `json:"candidates"`
}
