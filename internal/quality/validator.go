package quality

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"crystalball/internal/dataset"
)

// requiredColumns must all be present for a batch to pass the
// structure check
var requiredColumns = []string{"symbol", "trade_date", "open", "high", "low", "close", "volume"}

// numericColumns are coerced to numbers when present
var numericColumns = []string{"open", "high", "low", "close", "volume", "open_interest"}

// priceColumns carry the negative-value and outlier repair rules
var priceColumns = []string{"open", "high", "low", "close"}

const (
	dateField = "trade_date"
	// maxVolume flags suspiciously large volume values; they are
	// reported but retained for manual audit
	maxVolume = 1e12
)

// Validator runs the staged validation and cleaning pipeline over a
// batch. It is stateless across calls and safe for concurrent use.
type Validator struct {
	logger *slog.Logger
}

// New creates a validator
func New(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		logger: logger.With(slog.String("component", "quality_validator")),
	}
}

// ValidateAndClean runs the five cleaning passes over a working copy
// of the batch and returns the cleaned copy, the ordered issue list
// and the derived quality report. The caller's batch is never mutated.
// The passes never raise: bad values are repaired or reported per the
// documented policy.
func (v *Validator) ValidateAndClean(batch *dataset.Batch, sourceLabel string) (*dataset.Batch, []Issue, *Report) {
	v.logger.Info("starting data quality validation",
		slog.String("data_source", sourceLabel),
		slog.Int("rows", batch.Len()))

	var issues []Issue
	cleaned := batch.Clone()

	issues = v.checkStructure(cleaned, issues)
	issues = v.normalizeDates(cleaned, batch, issues)
	issues = v.cleanNumeric(cleaned, issues)
	issues = v.validateDomainRules(cleaned, issues)
	issues = v.removeDuplicatesAndOutliers(cleaned, issues)

	report := buildReport(sourceLabel, batch.Len(), cleaned, issues, time.Now().UTC())

	v.logger.Info("data quality validation finished",
		slog.String("data_source", sourceLabel),
		slog.Int("original_rows", report.OriginalRows),
		slog.Int("cleaned_rows", report.CleanedRows),
		slog.Int("issues_found", report.IssuesFound))

	return cleaned, issues, report
}

// checkStructure validates the basic batch shape. It never mutates the
// batch: findings are reported and cleaning proceeds on whatever is
// present.
func (v *Validator) checkStructure(batch *dataset.Batch, issues []Issue) []Issue {
	if batch.IsEmpty() {
		return append(issues, Issue{
			Severity: SeverityCritical,
			Field:    "batch",
			Message:  "batch is empty",
		})
	}

	var missing []string
	for _, col := range requiredColumns {
		if !batch.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityCritical,
			Field:    "columns",
			Message:  fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")),
			RowCount: batch.Len(),
		})
	}

	var allNull []string
	for _, col := range batch.Columns() {
		if batch.AllNull(col) {
			allNull = append(allNull, col)
		}
	}
	if len(allNull) > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Field:    "null_columns",
			Message:  fmt.Sprintf("columns with all null values: %s", strings.Join(allNull, ", ")),
			RowCount: batch.Len(),
		})
	}

	return issues
}
