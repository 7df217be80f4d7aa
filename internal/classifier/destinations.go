package classifier

// destination is a static bucket/table pair for a data type. Buckets
// are named <project id>-<suffix>.
type destination struct {
	bucketSuffix string
	table        string
}

// destinations maps each data type to its routing destination. Weather,
// news and sentiment data share the scraping bucket; macro data shares
// the marketplace bucket. Types absent from the table route to the
// unknown bucket/table pair.
var destinations = map[DataType]destination{
	TypeMarketplace: {bucketSuffix: "marketplace-data", table: "raw.nasdaq_futures"},
	TypeScraping:    {bucketSuffix: "scraping-data", table: "raw.news_articles"},
	TypeCSVUpload:   {bucketSuffix: "csv-uploads", table: "raw.csv_uploads"},
	TypeWeather:     {bucketSuffix: "scraping-data", table: "raw.weather_data"},
	TypeNews:        {bucketSuffix: "scraping-data", table: "raw.news_articles"},
	TypeSentiment:   {bucketSuffix: "scraping-data", table: "raw.sentiment_data"},
	TypeMacro:       {bucketSuffix: "marketplace-data", table: "raw.macro_data"},
}

// Destination resolves the bucket and table for a data type under the
// given project
func Destination(projectID string, dt DataType) (bucket, table string) {
	d, ok := destinations[dt]
	if !ok {
		return projectID + "-unknown-data", "raw.unknown_data"
	}
	return projectID + "-" + d.bucketSuffix, d.table
}
