package entities

// Insight categories.
const (
	InsightSuccess = "success"
	InsightWarning = "warning"
	InsightInfo    = "info"
)

// Insight is one categorized finding comparing a cohort against its peers.
// Code is a stable machine key; Title and Message carry the display copy.
type Insight struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Title    string `json:"title"`
	Message  string `json:"message"`
}
