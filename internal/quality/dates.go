package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"crystalball/internal/dataset"
)

// dateFormats are tried in order before falling back to the permissive
// parser. DD/MM/YYYY follows MM/DD/YYYY, so ambiguous values resolve
// as US-style dates.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02 15:04:05",
}

// normalizeDates parses the trade_date column into calendar dates.
// Unparseable values become null and are counted into one aggregate
// warning carrying sample values from the original batch.
func (v *Validator) normalizeDates(cleaned, original *dataset.Batch, issues []Issue) []Issue {
	if !cleaned.HasColumn(dateField) {
		return issues
	}

	failed := 0
	for _, rec := range cleaned.Records() {
		val := rec[dateField]
		if val.IsNull() {
			continue
		}
		if _, ok := val.AsTime(); ok {
			continue
		}

		parsed, ok := parseDate(val.AsString())
		if ok {
			rec[dateField] = dataset.TimeValue(parsed)
		} else {
			rec[dateField] = dataset.NullValue()
			failed++
		}
	}

	if failed > 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Field:    dateField,
			Message:  fmt.Sprintf("failed to parse %d dates", failed),
			RowCount: failed,
			Samples:  dateSamples(original),
		})
	}

	return issues
}

// parseDate attempts the fixed format list, then the permissive
// parser. A parser panic on a malformed value counts as a failed
// parse; it must never abort the remaining rows.
func parseDate(s string) (parsed time.Time, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	str := strings.TrimSpace(s)

	// Strip the timezone offset from ISO timestamps so the date part
	// parses with the plain formats
	if strings.Contains(str, "T") && (strings.Contains(str, "+") || hasTrailingOffset(str)) {
		str = strings.SplitN(str, "T", 2)[0]
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, str); err == nil {
			return toDate(t), true
		}
	}

	if t, err := dateparse.ParseAny(str); err == nil {
		return toDate(t), true
	}

	return time.Time{}, false
}

// hasTrailingOffset reports whether the string ends in a -HH:MM style
// timezone offset
func hasTrailingOffset(s string) bool {
	if len(s) < 6 {
		return false
	}
	return strings.Contains(s[len(s)-6:], "-")
}

// toDate truncates a timestamp to its calendar date in UTC
func toDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// dateSamples returns up to 3 non-null trade_date values from the
// original batch for the aggregate parse-failure issue
func dateSamples(batch *dataset.Batch) []string {
	var samples []string
	for _, rec := range batch.Records() {
		val := rec[dateField]
		if val.IsNull() {
			continue
		}
		samples = append(samples, val.AsString())
		if len(samples) >= 3 {
			break
		}
	}
	return samples
}
