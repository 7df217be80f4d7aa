package pipeline

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalball/internal/classifier"
	"crystalball/internal/dataset"
	"crystalball/internal/infrastructure"
	"crystalball/internal/quality"
	"crystalball/internal/routing"
)

const marketCSV = `symbol,trade_date,open,high,low,close,volume
AAPL,2024-01-02,50,52,49,51,1000
AAPL,2024-01-03,51,53,50,52,1100
`

func newTestPipeline(t *testing.T, deps *Deps) *Pipeline {
	t.Helper()
	if deps == nil {
		deps = &Deps{}
	}
	if deps.Classifier == nil {
		deps.Classifier = classifier.New("crystal-ball-test", nil)
	}
	if deps.Validator == nil {
		deps.Validator = quality.New(nil)
	}
	if deps.Router == nil {
		deps.Router = routing.New(
			routing.NewLocalObjectStore(t.TempDir()),
			routing.NewLocalWarehouse(t.TempDir()),
			nil)
	}
	p := New(*deps)
	RegisterFileSources(p)
	return p
}

func TestIngest_UnknownSource(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, err := p.Ingest(context.Background(), "bloomberg_terminal", nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSource))
	assert.Nil(t, report)
}

func TestIngest_CSVUploadEndToEnd(t *testing.T) {
	p := newTestPipeline(t, nil)

	report, err := p.Ingest(context.Background(), SourceCSVUpload, Options{"content": marketCSV})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, SourceCSVUpload, report.DataSource)
	assert.Equal(t, 2, report.RecordsProcessed)

	require.NotNil(t, report.Classification)
	assert.Equal(t, classifier.TypeMarketplace, report.Classification.DataType)
	assert.Equal(t, classifier.SourceCSVUpload, report.Classification.DataSource)
	assert.InDelta(t, 1.4, report.Classification.Confidence, 1e-9)

	require.NotNil(t, report.DataQuality)
	assert.Equal(t, "csv_upload_marketplace", report.DataQuality.DataSource)
	assert.Equal(t, 2, report.DataQuality.CleanedRows)

	require.NotNil(t, report.Routing)
	assert.True(t, report.Routing.Success())
}

func TestIngest_EmptyBatch(t *testing.T) {
	p := newTestPipeline(t, nil)
	p.RegisterFetcher("empty_feed", FetcherFunc(func(context.Context, Options) (*dataset.Batch, error) {
		return dataset.New(nil), nil
	}))

	report, err := p.Ingest(context.Background(), "empty_feed", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, "no data fetched from source", report.Message)
	assert.Nil(t, report.Classification)
	assert.Nil(t, report.Routing)
}

func TestIngest_FetchFailure(t *testing.T) {
	p := newTestPipeline(t, nil)
	p.RegisterFetcher("flaky_feed", FetcherFunc(func(context.Context, Options) (*dataset.Batch, error) {
		return nil, errors.New("connection refused")
	}))

	report, err := p.Ingest(context.Background(), "flaky_feed", nil)
	require.NoError(t, err)

	assert.Equal(t, StatusError, report.Status)
	assert.Equal(t, "failed to fetch data: connection refused", report.Message)
}

func TestIngest_PersistsQualityReport(t *testing.T) {
	reportsDir := t.TempDir()
	p := newTestPipeline(t, &Deps{ReportsDir: reportsDir})

	_, err := p.Ingest(context.Background(), SourceCSVUpload, Options{"content": marketCSV})
	require.NoError(t, err)

	files, err := os.ReadDir(reportsDir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Contains(t, files[0].Name(), "quality_csv_upload_marketplace_")
}

func TestIngest_Metrics(t *testing.T) {
	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	p := newTestPipeline(t, &Deps{Metrics: metrics})

	_, err := p.Ingest(context.Background(), SourceCSVUpload, Options{"content": marketCSV})
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.BatchesIngested.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RowsRouted))
}

func TestIngestBatch(t *testing.T) {
	p := newTestPipeline(t, nil)
	p.RegisterFetcher("empty_feed", FetcherFunc(func(context.Context, Options) (*dataset.Batch, error) {
		return dataset.New(nil), nil
	}))

	report := p.IngestBatch(context.Background(), map[string]Options{
		SourceCSVUpload: {"content": marketCSV},
		"empty_feed":    nil,
		"not_a_source":  nil,
	})

	assert.Equal(t, 3, report.TotalSources)
	assert.Equal(t, 1, report.SuccessfulSources)
	assert.Equal(t, 2, report.TotalRecordsProcessed)
	require.Len(t, report.Results, 3)

	assert.Equal(t, StatusSuccess, report.Results[SourceCSVUpload].Status)
	assert.Equal(t, StatusError, report.Results["empty_feed"].Status)
	assert.Equal(t, StatusError, report.Results["not_a_source"].Status)
	assert.Contains(t, report.Results["not_a_source"].Message, "unknown data source")
}

func TestCSVUploadFetcher_FromFile(t *testing.T) {
	path := t.TempDir() + "/upload.csv"
	require.NoError(t, os.WriteFile(path, []byte(marketCSV), 0644))

	batch, err := CSVUploadFetcher{}.Fetch(context.Background(), Options{"path": path})
	require.NoError(t, err)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, []string{"symbol", "trade_date", "open", "high", "low", "close", "volume"}, batch.Columns())
}

func TestCSVUploadFetcher_MissingPath(t *testing.T) {
	_, err := CSVUploadFetcher{}.Fetch(context.Background(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path")
}
