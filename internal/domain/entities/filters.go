package entities

// ServiceCodeOption is one service-code dropdown entry with its observed
// dispute volume.
type ServiceCodeOption struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// FilterOptions is the dropdown metadata bundle served to the UI. Lists are
// sorted; practice sizes follow the lookup table's sort order when the table
// is available.
type FilterOptions struct {
	Specialties   []string            `json:"specialties"`
	States        []string            `json:"states"`
	PracticeSizes []string            `json:"practice_sizes"`
	Quarters      []string            `json:"quarters"`
	ServiceCodes  []ServiceCodeOption `json:"service_codes"`
}
