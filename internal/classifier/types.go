package classifier

// DataType classifies what kind of data a batch holds
type DataType string

const (
	TypeMarketplace DataType = "marketplace"
	TypeScraping    DataType = "scraping"
	TypeCSVUpload   DataType = "csv_upload"
	TypeWeather     DataType = "weather"
	TypeNews        DataType = "news"
	TypeSentiment   DataType = "sentiment"
	TypeMacro       DataType = "macro"
	TypeUnknown     DataType = "unknown"
)

// scoreOrder fixes the deterministic tie-break: when two types score
// equally, the first listed here wins.
var scoreOrder = []DataType{
	TypeMarketplace,
	TypeScraping,
	TypeCSVUpload,
	TypeWeather,
	TypeNews,
	TypeSentiment,
	TypeMacro,
}

// DataSource identifies the provider a batch came from
type DataSource string

const (
	SourceYahooFinance   DataSource = "yahoo_finance"
	SourceNasdaqDataLink DataSource = "nasdaq_data_link"
	SourceWebScraping    DataSource = "web_scraping"
	SourceNOAA           DataSource = "noaa"
	SourceFRED           DataSource = "fred"
	SourceTwitter        DataSource = "twitter"
	SourceReddit         DataSource = "reddit"
	SourceCSVUpload      DataSource = "csv_upload"
	SourceUnknown        DataSource = "unknown"
)

// Result is the immutable outcome of one classification call
type Result struct {
	DataType   DataType   `json:"data_type"`
	DataSource DataSource `json:"data_source"`
	Confidence float64    `json:"confidence"`
	Reasoning  []string   `json:"reasoning"`
	Bucket     string     `json:"bucket"`
	Table      string     `json:"table"`
	Features   FeatureSet `json:"features"`
}
