package classifier

import (
	"strings"

	"crystalball/internal/dataset"
)

const (
	// sampleLimit caps the stored sample values per text column
	sampleLimit = 3
	// scanLimit caps how many values are inspected for kind and URL checks
	scanLimit = 10
)

// Keyword lists checked against case-normalized column names when
// computing pattern flags. Flag keywords match as substrings so that
// qualified names like trade_date or wind_speed still trigger.
var (
	priceColumns     = []string{"open", "high", "low", "close", "price", "value"}
	dateColumns      = []string{"date", "time", "timestamp", "created_at", "published_date"}
	textColumns      = []string{"title", "content", "text", "description", "body"}
	sentimentColumns = []string{"sentiment", "polarity", "score", "emotion"}
	weatherColumns   = []string{"temperature", "humidity", "precipitation", "wind", "weather"}
	macroColumns     = []string{"gdp", "inflation", "rate", "unemployment", "economic"}
)

// PatternFlags are boolean signals derived from a batch's columns and
// sampled values
type PatternFlags struct {
	HasNumericPrices       bool `json:"has_numeric_prices"`
	HasDates               bool `json:"has_dates"`
	HasTextContent         bool `json:"has_text_content"`
	HasURLs                bool `json:"has_urls"`
	HasSentimentIndicators bool `json:"has_sentiment_indicators"`
	HasWeatherIndicators   bool `json:"has_weather_indicators"`
	HasMacroIndicators     bool `json:"has_macro_indicators"`
}

// FeatureSet is a read-only snapshot of a batch used for scoring.
// It is computed fresh per classification call and never mutated.
type FeatureSet struct {
	ColumnNames  []string            `json:"column_names"`
	ColumnCount  int                 `json:"column_count"`
	RowCount     int                 `json:"row_count"`
	ColumnKinds  map[string]string   `json:"column_kinds"`
	SampleValues map[string][]string `json:"sample_values"`
	Patterns     PatternFlags        `json:"patterns"`

	// lowerColumns holds the case-normalized names used for matching
	lowerColumns map[string]bool
	// lowerNames keeps the normalized names in order for substring checks
	lowerNames []string
}

// ExtractFeatures derives the classification features from a batch
func ExtractFeatures(batch *dataset.Batch) FeatureSet {
	columns := batch.Columns()

	fs := FeatureSet{
		ColumnNames:  columns,
		ColumnCount:  len(columns),
		RowCount:     batch.Len(),
		ColumnKinds:  make(map[string]string, len(columns)),
		SampleValues: make(map[string][]string),
		lowerColumns: make(map[string]bool, len(columns)),
	}

	for _, col := range columns {
		lower := strings.ToLower(col)
		fs.lowerColumns[lower] = true
		fs.lowerNames = append(fs.lowerNames, lower)

		kind := inferColumnKind(batch, col)
		fs.ColumnKinds[col] = kind.String()

		if kind == dataset.KindString {
			fs.SampleValues[col] = sampleColumn(batch, col, sampleLimit)
		}
	}

	fs.Patterns = analyzePatterns(batch, &fs)

	return fs
}

// HasColumn reports whether the batch has a column matching the given
// case-normalized name
func (fs *FeatureSet) HasColumn(name string) bool {
	return fs.lowerColumns[name]
}

// hasAnyColumn reports whether any of the given case-normalized names
// is present as an exact column name
func (fs *FeatureSet) hasAnyColumn(names ...string) bool {
	for _, name := range names {
		if fs.lowerColumns[name] {
			return true
		}
	}
	return false
}

// anyColumnContains reports whether any column name contains one of
// the keywords as a substring
func (fs *FeatureSet) anyColumnContains(keywords []string) bool {
	for _, name := range fs.lowerNames {
		for _, kw := range keywords {
			if strings.Contains(name, kw) {
				return true
			}
		}
	}
	return false
}

// analyzePatterns computes the boolean pattern flags
func analyzePatterns(batch *dataset.Batch, fs *FeatureSet) PatternFlags {
	flags := PatternFlags{
		HasNumericPrices:       fs.anyColumnContains(priceColumns),
		HasDates:               fs.anyColumnContains(dateColumns),
		HasTextContent:         fs.anyColumnContains(textColumns),
		HasSentimentIndicators: fs.anyColumnContains(sentimentColumns),
		HasWeatherIndicators:   fs.anyColumnContains(weatherColumns),
		HasMacroIndicators:     fs.anyColumnContains(macroColumns),
	}

	// URLs are detected from sampled values of text columns, not names
	for _, col := range batch.Columns() {
		if fs.ColumnKinds[col] != dataset.KindString.String() {
			continue
		}
		for _, sample := range sampleColumn(batch, col, scanLimit) {
			if strings.Contains(sample, "http") {
				flags.HasURLs = true
				break
			}
		}
		if flags.HasURLs {
			break
		}
	}

	return flags
}

// inferColumnKind inspects up to scanLimit non-null values and reports
// the column's scalar kind. A column whose sampled values all coerce to
// numbers is numeric even when loaded as strings.
func inferColumnKind(batch *dataset.Batch, col string) dataset.Kind {
	seen := 0
	numeric := true
	first := dataset.KindNull

	for _, rec := range batch.Records() {
		v := rec[col]
		if v.IsNull() {
			continue
		}
		if first == dataset.KindNull {
			first = v.Kind()
		}
		if _, ok := v.AsFloat(); !ok {
			numeric = false
		}
		seen++
		if seen >= scanLimit {
			break
		}
	}

	if seen == 0 {
		return dataset.KindNull
	}
	if first != dataset.KindString {
		return first
	}
	if numeric {
		return dataset.KindFloat
	}
	return dataset.KindString
}

// sampleColumn collects up to limit non-null values from a column as
// strings
func sampleColumn(batch *dataset.Batch, col string, limit int) []string {
	var samples []string
	for _, rec := range batch.Records() {
		v := rec[col]
		if v.IsNull() {
			continue
		}
		samples = append(samples, v.AsString())
		if len(samples) >= limit {
			break
		}
	}
	return samples
}
