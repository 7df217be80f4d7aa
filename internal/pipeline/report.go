package pipeline

import (
	"time"

	"crystalball/internal/classifier"
	"crystalball/internal/quality"
	"crystalball/internal/routing"
)

// Terminal statuses of one ingestion run
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// ClassificationSummary is the classification slice of an ingestion
// report, without the full feature set
type ClassificationSummary struct {
	DataType   classifier.DataType   `json:"data_type"`
	DataSource classifier.DataSource `json:"data_source"`
	Confidence float64               `json:"confidence"`
	Reasoning  []string              `json:"reasoning"`
	Bucket     string                `json:"bucket"`
	Table      string                `json:"table"`
}

// IngestionReport is the combined outcome of one ingestion run
type IngestionReport struct {
	Status           string                 `json:"status"`
	Timestamp        time.Time              `json:"timestamp"`
	DataSource       string                 `json:"data_source"`
	Message          string                 `json:"message,omitempty"`
	RecordsProcessed int                    `json:"records_processed"`
	Classification   *ClassificationSummary `json:"ai_classification,omitempty"`
	DataQuality      *quality.Report        `json:"data_quality,omitempty"`
	Routing          *routing.RoutingResult `json:"routing,omitempty"`
}

// BatchReport aggregates the outcomes of one multi-source run
type BatchReport struct {
	Timestamp             time.Time                   `json:"timestamp"`
	TotalSources          int                         `json:"total_sources"`
	SuccessfulSources     int                         `json:"successful_sources"`
	TotalRecordsProcessed int                         `json:"total_records_processed"`
	Results               map[string]*IngestionReport `json:"results"`
}

// summarize strips the feature set off a classification result
func summarize(result classifier.Result) *ClassificationSummary {
	return &ClassificationSummary{
		DataType:   result.DataType,
		DataSource: result.DataSource,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
		Bucket:     result.Bucket,
		Table:      result.Table,
	}
}
