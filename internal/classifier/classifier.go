package classifier

import (
	"log/slog"
	"strings"

	"crystalball/internal/dataset"
)

const (
	// lowScoreThreshold is the score below which no type is considered
	// a clear match
	lowScoreThreshold = 0.3
	// fallbackConfidence is assigned to csv_upload when nothing matches
	fallbackConfidence = 0.5
)

// fallbackReason is appended when the fallback rule fires
const fallbackReason = "No clear classification - treating as CSV upload"

// rule is one weighted scoring rule. Rules are evaluated
// unconditionally for every type, so several types may score above
// zero for the same batch.
type rule struct {
	dataType DataType
	weight   float64
	reason   string
	applies  func(fs *FeatureSet) bool
}

// rules is the complete, inspectable scoring table. Weights are not
// normalized; a type's confidence is the plain sum of its triggered
// rule weights and may exceed 1.0.
var rules = []rule{
	{
		dataType: TypeMarketplace,
		weight:   0.8,
		reason:   "Contains price data and dates - likely financial market data",
		applies:  func(fs *FeatureSet) bool { return fs.Patterns.HasNumericPrices && fs.Patterns.HasDates },
	},
	{
		dataType: TypeMarketplace,
		weight:   0.6,
		reason:   "Contains symbol/ticker columns - likely market data",
		applies:  func(fs *FeatureSet) bool { return fs.hasAnyColumn("symbol", "ticker", "instrument") },
	},
	{
		dataType: TypeScraping,
		weight:   0.7,
		reason:   "Contains text content and URLs - likely scraped data",
		applies:  func(fs *FeatureSet) bool { return fs.Patterns.HasTextContent && fs.Patterns.HasURLs },
	},
	{
		dataType: TypeScraping,
		weight:   0.5,
		reason:   "Contains content columns - likely scraped data",
		applies:  func(fs *FeatureSet) bool { return fs.hasAnyColumn("title", "content", "url", "source") },
	},
	{
		dataType: TypeWeather,
		weight:   0.9,
		reason:   "Contains weather-related columns - likely weather data",
		applies:  func(fs *FeatureSet) bool { return fs.Patterns.HasWeatherIndicators },
	},
	{
		dataType: TypeNews,
		weight:   0.8,
		reason:   "Contains text content with news-like structure - likely news data",
		applies: func(fs *FeatureSet) bool {
			return fs.Patterns.HasTextContent && fs.hasAnyColumn("title", "headline", "article")
		},
	},
	{
		dataType: TypeSentiment,
		weight:   0.9,
		reason:   "Contains sentiment indicators - likely sentiment data",
		applies:  func(fs *FeatureSet) bool { return fs.Patterns.HasSentimentIndicators },
	},
	{
		dataType: TypeMacro,
		weight:   0.8,
		reason:   "Contains macroeconomic indicators - likely macro data",
		applies:  func(fs *FeatureSet) bool { return fs.Patterns.HasMacroIndicators },
	},
}

// sourceKeywords resolves the source hint, checked in order; the first
// entry with a matching keyword wins.
var sourceKeywords = []struct {
	keywords []string
	source   DataSource
}{
	{[]string{"yahoo", "yfinance"}, SourceYahooFinance},
	{[]string{"quandl", "nasdaq"}, SourceNasdaqDataLink},
	{[]string{"web", "scraping"}, SourceWebScraping},
	{[]string{"noaa", "weather"}, SourceNOAA},
	{[]string{"fred", "federal"}, SourceFRED},
	{[]string{"twitter"}, SourceTwitter},
	{[]string{"reddit"}, SourceReddit},
	{[]string{"csv", "upload"}, SourceCSVUpload},
}

// Classifier scores batches against the data type profiles. It is
// stateless across calls and safe for concurrent use.
type Classifier struct {
	projectID string
	logger    *slog.Logger
}

// New creates a classifier routing into buckets of the given project
func New(projectID string, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{
		projectID: projectID,
		logger:    logger.With(slog.String("component", "classifier")),
	}
}

// Classify inspects a batch and optional out-of-band hints and returns
// the best-guess type, source, confidence and routing destination. It
// never fails: an empty or unrecognizable batch falls back to
// csv_upload with low confidence.
func (c *Classifier) Classify(batch *dataset.Batch, hints map[string]string) Result {
	features := ExtractFeatures(batch)

	scores := make(map[DataType]float64, len(scoreOrder))
	for _, dt := range scoreOrder {
		scores[dt] = 0
	}

	var reasoning []string
	for _, r := range rules {
		if r.applies(&features) {
			scores[r.dataType] += r.weight
			reasoning = append(reasoning, r.reason)
		}
	}

	matched := false
	for _, score := range scores {
		if score > lowScoreThreshold {
			matched = true
			break
		}
	}
	if !matched {
		scores[TypeCSVUpload] = fallbackConfidence
		reasoning = append(reasoning, fallbackReason)
	}

	// First declared type wins ties
	best := scoreOrder[0]
	for _, dt := range scoreOrder[1:] {
		if scores[dt] > scores[best] {
			best = dt
		}
	}

	source := resolveSource(hints)
	bucket, table := Destination(c.projectID, best)

	c.logger.Info("classified batch",
		slog.String("data_type", string(best)),
		slog.String("data_source", string(source)),
		slog.Float64("confidence", scores[best]),
		slog.Int("row_count", features.RowCount),
		slog.Int("column_count", features.ColumnCount))

	return Result{
		DataType:   best,
		DataSource: source,
		Confidence: scores[best],
		Reasoning:  reasoning,
		Bucket:     bucket,
		Table:      table,
		Features:   features,
	}
}

// resolveSource infers the provider purely from the source hint text.
// Hints take precedence over anything in the batch; no hint means the
// source stays unknown.
func resolveSource(hints map[string]string) DataSource {
	hint := strings.ToLower(hints["source"])
	if hint == "" {
		return SourceUnknown
	}

	for _, entry := range sourceKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(hint, kw) {
				return entry.source
			}
		}
	}

	return SourceUnknown
}
