package quality

import (
	"fmt"
	"sort"

	"crystalball/internal/dataset"
)

// iqrMultiplier widens the outlier bounds. 3x the interquartile range
// is conservative: only extreme values are nulled out.
const iqrMultiplier = 3.0

// removeDuplicatesAndOutliers drops exact full-row duplicates and
// nulls out statistical outliers in the price columns. Outliers never
// remove rows, only the offending value.
func (v *Validator) removeDuplicatesAndOutliers(batch *dataset.Batch, issues []Issue) []Issue {
	seen := make(map[string]bool, batch.Len())
	kept := make([]dataset.Record, 0, batch.Len())
	for _, rec := range batch.Records() {
		fp := batch.Fingerprint(rec)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		kept = append(kept, rec)
	}

	removed := batch.Len() - len(kept)
	if removed > 0 {
		batch.ReplaceRecords(kept)
		issues = append(issues, Issue{
			Severity: SeverityInfo,
			Field:    "duplicates",
			Message:  fmt.Sprintf("removed %d duplicate rows", removed),
			RowCount: removed,
		})
	}

	for _, col := range priceColumns {
		if !batch.HasColumn(col) {
			continue
		}

		var values []float64
		for _, rec := range batch.Records() {
			if f, ok := rec[col].AsFloat(); ok {
				values = append(values, f)
			}
		}
		if len(values) == 0 {
			continue
		}

		q1 := quantile(values, 0.25)
		q3 := quantile(values, 0.75)
		iqr := q3 - q1
		lower := q1 - iqrMultiplier*iqr
		upper := q3 + iqrMultiplier*iqr

		outliers := 0
		for _, rec := range batch.Records() {
			if f, ok := rec[col].AsFloat(); ok && (f < lower || f > upper) {
				rec[col] = dataset.NullValue()
				outliers++
			}
		}
		if outliers > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    col,
				Message:  fmt.Sprintf("found %d potential outliers using IQR method", outliers),
				RowCount: outliers,
			})
		}
	}

	return issues
}

// quantile computes the q-quantile of values using linear
// interpolation between closest ranks
func quantile(values []float64, q float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lo := int(pos)
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
