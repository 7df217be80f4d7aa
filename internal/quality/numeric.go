package quality

import (
	"fmt"
	"math"

	"crystalball/internal/dataset"
)

// cleanNumeric coerces the known numeric columns, nulls out negative
// prices and flags oversized volume values. Coercion failures become
// null silently; the asymmetry between prices (repaired) and volume
// (flagged but retained) is intentional.
func (v *Validator) cleanNumeric(batch *dataset.Batch, issues []Issue) []Issue {
	for _, col := range numericColumns {
		if !batch.HasColumn(col) {
			continue
		}

		for _, rec := range batch.Records() {
			val := rec[col]
			if val.IsNull() {
				continue
			}
			if f, ok := val.AsFloat(); ok {
				rec[col] = dataset.FloatValue(f)
			} else {
				rec[col] = dataset.NullValue()
			}
		}

		if isPriceColumn(col) {
			negatives := 0
			for _, rec := range batch.Records() {
				if f, ok := rec[col].AsFloat(); ok && f < 0 {
					rec[col] = dataset.NullValue()
					negatives++
				}
			}
			if negatives > 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Field:    col,
					Message:  fmt.Sprintf("found %d negative values", negatives),
					RowCount: negatives,
				})
			}
		}

		if col == "volume" {
			oversized := 0
			for _, rec := range batch.Records() {
				if f, ok := rec[col].AsFloat(); ok && f > maxVolume {
					oversized++
				}
			}
			if oversized > 0 {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Field:    col,
					Message:  fmt.Sprintf("found %d extremely large volume values", oversized),
					RowCount: oversized,
				})
			}
		}
	}

	return issues
}

// validateDomainRules checks the OHLC price invariants and zero
// volume. Violating rows are reported but never modified or dropped
// here; the anomaly propagates downstream as-is.
func (v *Validator) validateDomainRules(batch *dataset.Batch, issues []Issue) []Issue {
	hasAllPrices := true
	for _, col := range priceColumns {
		if !batch.HasColumn(col) {
			hasAllPrices = false
			break
		}
	}

	if hasAllPrices {
		invalidHigh := 0
		invalidLow := 0
		for _, rec := range batch.Records() {
			o, okO := rec["open"].AsFloat()
			h, okH := rec["high"].AsFloat()
			l, okL := rec["low"].AsFloat()
			c, okC := rec["close"].AsFloat()

			if okO && okH && okC && h < math.Max(o, c) {
				invalidHigh++
			}
			if okO && okL && okC && l > math.Min(o, c) {
				invalidLow++
			}
		}

		if invalidHigh > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "high",
				Message:  fmt.Sprintf("found %d rows where high < max(open, close)", invalidHigh),
				RowCount: invalidHigh,
			})
		}
		if invalidLow > 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Field:    "low",
				Message:  fmt.Sprintf("found %d rows where low > min(open, close)", invalidLow),
				RowCount: invalidLow,
			})
		}
	}

	if batch.HasColumn("volume") {
		zero := 0
		for _, rec := range batch.Records() {
			if f, ok := rec["volume"].AsFloat(); ok && f == 0 {
				zero++
			}
		}
		if zero > 0 {
			issues = append(issues, Issue{
				Severity: SeverityInfo,
				Field:    "volume",
				Message:  fmt.Sprintf("found %d rows with zero volume", zero),
				RowCount: zero,
			})
		}
	}

	return issues
}

// isPriceColumn reports whether the column carries price repair rules
func isPriceColumn(col string) bool {
	for _, price := range priceColumns {
		if col == price {
			return true
		}
	}
	return false
}
