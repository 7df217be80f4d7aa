package quality

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"crystalball/internal/dataset"
)

// completenessColumns are the critical fields tracked by the quality
// report
var completenessColumns = []string{"trade_date", "open", "high", "low", "close", "volume"}

// ColumnCompleteness holds the null count and completeness percentage
// for one tracked column
type ColumnCompleteness struct {
	NullCount           int     `json:"null_count"`
	CompletenessPercent float64 `json:"completeness_percent"`
}

// Report summarizes one validation run. It is derived after cleaning
// and read-only.
type Report struct {
	DataSource       string                        `json:"data_source"`
	Timestamp        time.Time                     `json:"timestamp"`
	OriginalRows     int                           `json:"original_rows"`
	CleanedRows      int                           `json:"cleaned_rows"`
	RowsRemoved      int                           `json:"rows_removed"`
	Completeness     map[string]ColumnCompleteness `json:"completeness_metrics"`
	IssuesFound      int                           `json:"issues_found"`
	IssuesBySeverity map[Severity]int              `json:"issues_by_level"`
}

// buildReport derives the quality report from the cleaned batch and
// the accumulated issues
func buildReport(sourceLabel string, originalRows int, cleaned *dataset.Batch, issues []Issue, now time.Time) *Report {
	report := &Report{
		DataSource:   sourceLabel,
		Timestamp:    now,
		OriginalRows: originalRows,
		CleanedRows:  cleaned.Len(),
		RowsRemoved:  originalRows - cleaned.Len(),
		Completeness: make(map[string]ColumnCompleteness),
		IssuesFound:  len(issues),
		IssuesBySeverity: map[Severity]int{
			SeverityCritical: 0,
			SeverityWarning:  0,
			SeverityInfo:     0,
		},
	}

	for _, col := range completenessColumns {
		if !cleaned.HasColumn(col) {
			continue
		}
		nonNull := cleaned.NonNullCount(col)
		nullCount := cleaned.Len() - nonNull
		percent := 0.0
		if cleaned.Len() > 0 {
			percent = round2(float64(nonNull) / float64(cleaned.Len()) * 100)
		}
		report.Completeness[col] = ColumnCompleteness{
			NullCount:           nullCount,
			CompletenessPercent: percent,
		}
	}

	for _, issue := range issues {
		report.IssuesBySeverity[issue.Severity]++
	}

	return report
}

// round2 rounds to two decimal places
func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// labelSanitizer strips characters unfit for file names
var labelSanitizer = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// WriteReport persists a quality report as an indented JSON document
// under dir and returns the written path. The file name carries the
// source label and timestamp so concurrent runs never collide.
func WriteReport(dir string, report *Report) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create reports directory: %w", err)
	}

	label := labelSanitizer.ReplaceAllString(report.DataSource, "_")
	name := fmt.Sprintf("quality_%s_%s.json", label, report.Timestamp.Format("20060102_150405.000000000"))
	path := filepath.Join(dir, name)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal quality report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write quality report: %w", err)
	}

	return path, nil
}
