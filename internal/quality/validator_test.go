package quality

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalball/internal/dataset"
)

var marketColumns = []string{"symbol", "trade_date", "open", "high", "low", "close", "volume"}

// marketRow builds one well-formed OHLC row
func marketRow(date string, open, high, low, close, volume float64) dataset.Record {
	return dataset.Record{
		"symbol":     dataset.StringValue("AAPL"),
		"trade_date": dataset.StringValue(date),
		"open":       dataset.FloatValue(open),
		"high":       dataset.FloatValue(high),
		"low":        dataset.FloatValue(low),
		"close":      dataset.FloatValue(close),
		"volume":     dataset.FloatValue(volume),
	}
}

func marketBatch(rows ...dataset.Record) *dataset.Batch {
	batch := dataset.New(marketColumns)
	for _, row := range rows {
		batch.Append(row)
	}
	return batch
}

func findIssue(issues []Issue, field string) (Issue, bool) {
	for _, issue := range issues {
		if issue.Field == field {
			return issue, true
		}
	}
	return Issue{}, false
}

func TestValidateAndClean_EmptyBatch(t *testing.T) {
	v := New(nil)

	cleaned, issues, report := v.ValidateAndClean(dataset.New(marketColumns), "test_source")

	require.Len(t, issues, 1)
	assert.Equal(t, SeverityCritical, issues[0].Severity)
	assert.Equal(t, "batch is empty", issues[0].Message)
	assert.Equal(t, 0, cleaned.Len())
	assert.Equal(t, 0, report.OriginalRows)
	assert.Equal(t, 1, report.IssuesBySeverity[SeverityCritical])
}

func TestValidateAndClean_MissingRequiredColumns(t *testing.T) {
	v := New(nil)
	batch := dataset.New([]string{"symbol", "open"})
	batch.Append(dataset.Record{
		"symbol": dataset.StringValue("AAPL"),
		"open":   dataset.FloatValue(50),
	})

	_, issues, _ := v.ValidateAndClean(batch, "test_source")

	issue, ok := findIssue(issues, "columns")
	require.True(t, ok)
	assert.Equal(t, SeverityCritical, issue.Severity)
	assert.Equal(t, "missing required columns: trade_date, high, low, close, volume", issue.Message)
}

func TestValidateAndClean_AllNullColumn(t *testing.T) {
	v := New(nil)
	row := marketRow("2024-01-02", 50, 52, 49, 51, 1000)
	row["open"] = dataset.NullValue()
	batch := marketBatch(row)

	_, issues, _ := v.ValidateAndClean(batch, "test_source")

	issue, ok := findIssue(issues, "null_columns")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.Equal(t, "columns with all null values: open", issue.Message)
}

func TestValidateAndClean_DoesNotMutateInput(t *testing.T) {
	v := New(nil)
	batch := marketBatch(marketRow("2024-01-02", -50, 52, 49, 51, 1000))

	cleaned, _, _ := v.ValidateAndClean(batch, "test_source")

	f, ok := batch.Record(0)["open"].AsFloat()
	require.True(t, ok)
	assert.Equal(t, -50.0, f, "input batch must keep the original value")
	assert.True(t, cleaned.Record(0)["open"].IsNull())
}

func TestValidateAndClean_NegativePricesNulled(t *testing.T) {
	v := New(nil)
	batch := marketBatch(
		marketRow("2024-01-02", -50, 52, 49, 51, 1000),
		marketRow("2024-01-03", 50, 52, -49, 51, 1000),
	)

	cleaned, issues, _ := v.ValidateAndClean(batch, "test_source")

	assert.True(t, cleaned.Record(0)["open"].IsNull())
	assert.True(t, cleaned.Record(1)["low"].IsNull())

	issue, ok := findIssue(issues, "open")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.Equal(t, "found 1 negative values", issue.Message)
}

func TestValidateAndClean_VolumePolicy(t *testing.T) {
	t.Run("negative volume retained", func(t *testing.T) {
		v := New(nil)
		batch := marketBatch(marketRow("2024-01-02", 50, 52, 49, 51, -1000))

		cleaned, _, _ := v.ValidateAndClean(batch, "test_source")

		f, ok := cleaned.Record(0)["volume"].AsFloat()
		require.True(t, ok)
		assert.Equal(t, -1000.0, f, "volume carries no negative repair rule")
	})

	t.Run("zero volume is informational", func(t *testing.T) {
		v := New(nil)
		batch := marketBatch(
			marketRow("2024-01-02", 50, 52, 49, 51, 0),
			marketRow("2024-01-03", 50, 52, 49, 51, 1000),
		)

		cleaned, issues, _ := v.ValidateAndClean(batch, "test_source")

		issue, ok := findIssue(issues, "volume")
		require.True(t, ok)
		assert.Equal(t, SeverityInfo, issue.Severity)
		assert.Equal(t, "found 1 rows with zero volume", issue.Message)

		f, _ := cleaned.Record(0)["volume"].AsFloat()
		assert.Equal(t, 0.0, f, "zero volume rows stay in the batch")
	})

	t.Run("oversized volume flagged but retained", func(t *testing.T) {
		v := New(nil)
		batch := marketBatch(marketRow("2024-01-02", 50, 52, 49, 51, 2e12))

		cleaned, issues, _ := v.ValidateAndClean(batch, "test_source")

		issue, ok := findIssue(issues, "volume")
		require.True(t, ok)
		assert.Equal(t, SeverityWarning, issue.Severity)
		assert.Equal(t, "found 1 extremely large volume values", issue.Message)

		f, okF := cleaned.Record(0)["volume"].AsFloat()
		require.True(t, okF)
		assert.Equal(t, 2e12, f)
	})
}

func TestValidateAndClean_NumericCoercion(t *testing.T) {
	v := New(nil)
	row := marketRow("2024-01-02", 50, 52, 49, 51, 1000)
	row["close"] = dataset.StringValue("1,234.50")
	row["open"] = dataset.StringValue("not a number")
	batch := marketBatch(row)

	cleaned, _, _ := v.ValidateAndClean(batch, "test_source")

	f, ok := cleaned.Record(0)["close"].AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1234.5, f)
	assert.True(t, cleaned.Record(0)["open"].IsNull(), "uncoercible value becomes null")
}

func TestValidateAndClean_OHLCDomainRules(t *testing.T) {
	v := New(nil)
	batch := marketBatch(
		marketRow("2024-01-02", 50, 52, 49, 51, 1000),
		// high below both open and close, low above both
		marketRow("2024-01-03", 51, 45, 55, 50, 1000),
	)

	cleaned, issues, _ := v.ValidateAndClean(batch, "test_source")

	high, ok := findIssue(issues, "high")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, high.Severity)
	assert.Equal(t, "found 1 rows where high < max(open, close)", high.Message)

	low, ok := findIssue(issues, "low")
	require.True(t, ok)
	assert.Equal(t, "found 1 rows where low > min(open, close)", low.Message)

	// violating rows are reported, never repaired or dropped
	require.Equal(t, 2, cleaned.Len())
	f, _ := cleaned.Record(1)["high"].AsFloat()
	assert.Equal(t, 45.0, f)
}

func TestValidateAndClean_RemovesDuplicates(t *testing.T) {
	v := New(nil)
	batch := marketBatch(
		marketRow("2024-01-02", 50, 52, 49, 51, 1000),
		marketRow("2024-01-02", 50, 52, 49, 51, 1000),
		marketRow("2024-01-03", 51, 53, 50, 52, 1100),
	)

	cleaned, issues, report := v.ValidateAndClean(batch, "test_source")

	assert.Equal(t, 2, cleaned.Len())
	assert.Equal(t, 1, report.RowsRemoved)

	issue, ok := findIssue(issues, "duplicates")
	require.True(t, ok)
	assert.Equal(t, SeverityInfo, issue.Severity)
	assert.Equal(t, "removed 1 duplicate rows", issue.Message)
}

func TestValidateAndClean_IQROutliers(t *testing.T) {
	v := New(nil)
	rows := make([]dataset.Record, 0, 9)
	for i := 0; i < 8; i++ {
		price := 100 + float64(i)
		rows = append(rows, marketRow(
			fmt.Sprintf("2024-01-%02d", i+2), price, price+2, price-1, price+1, 1000))
	}
	spike := marketRow("2024-01-10", 1e6, 108, 107, 108, 1000)
	rows = append(rows, spike)
	batch := marketBatch(rows...)

	cleaned, issues, _ := v.ValidateAndClean(batch, "test_source")

	assert.True(t, cleaned.Record(8)["open"].IsNull(), "outlier value is nulled, not dropped")
	require.Equal(t, 9, cleaned.Len())

	issue, ok := findIssue(issues, "open")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, issue.Severity)
	assert.Equal(t, "found 1 potential outliers using IQR method", issue.Message)
}

func TestValidateAndClean_CleanBatchIsStable(t *testing.T) {
	v := New(nil)
	batch := marketBatch(
		marketRow("2024-01-02", 50, 52, 49, 51, 1000),
		marketRow("2024-01-03", 51, 53, 50, 52, 1100),
	)

	first, _, _ := v.ValidateAndClean(batch, "test_source")
	second, issues, report := v.ValidateAndClean(first, "test_source")

	assert.Empty(t, issues, "a cleaned batch passes with no findings")
	assert.Equal(t, 0, report.RowsRemoved)
	require.Equal(t, first.Len(), second.Len())
	for i := 0; i < first.Len(); i++ {
		assert.Equal(t, first.Record(i), second.Record(i))
	}
}

func TestQuantile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	assert.Equal(t, 1.75, quantile(values, 0.25))
	assert.Equal(t, 2.5, quantile(values, 0.5))
	assert.Equal(t, 3.25, quantile(values, 0.75))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.25))
}
