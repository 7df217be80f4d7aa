package quality

// Severity grades how serious a data quality issue is
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Issue represents one data quality finding. Issues are accumulated in
// discovery order and never merged or deduplicated.
type Issue struct {
	Severity Severity `json:"severity"`
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	RowCount int      `json:"row_count"`
	Samples  []string `json:"samples,omitempty"`
}
