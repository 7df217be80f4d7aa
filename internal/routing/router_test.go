package routing

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalball/internal/classifier"
	"crystalball/internal/dataset"
)

func testBatch() *dataset.Batch {
	batch := dataset.New([]string{"symbol", "close"})
	batch.Append(dataset.Record{
		"symbol": dataset.StringValue("AAPL"),
		"close":  dataset.FloatValue(189.5),
	})
	batch.Append(dataset.Record{
		"symbol": dataset.StringValue("MSFT"),
		"close":  dataset.FloatValue(410.25),
	})
	return batch
}

func testResult() classifier.Result {
	return classifier.Result{
		DataType:   classifier.TypeMarketplace,
		DataSource: classifier.SourceYahooFinance,
		Confidence: 1.4,
		Bucket:     "crystal-ball-test-marketplace-data",
		Table:      "raw.nasdaq_futures",
	}
}

type failingObjectStore struct{}

func (failingObjectStore) Store(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket unavailable")
}

type failingWarehouse struct{}

func (failingWarehouse) Insert(context.Context, string, *dataset.Batch) (int, error) {
	return 0, errors.New("table locked")
}

func newTestRouter(t *testing.T) (*Router, string, string) {
	t.Helper()
	objectDir := t.TempDir()
	warehouseDir := t.TempDir()
	router := New(NewLocalObjectStore(objectDir), NewLocalWarehouse(warehouseDir), nil)
	router.now = func() time.Time {
		return time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC)
	}
	return router, objectDir, warehouseDir
}

func TestRoute_BothDestinations(t *testing.T) {
	router, objectDir, warehouseDir := newTestRouter(t)
	batch := testBatch()

	routing := router.Route(context.Background(), batch, testResult())

	require.True(t, routing.Success())
	assert.Equal(t, 2, routing.ObjectRouting.Rows)
	assert.Equal(t, 2, routing.WarehouseRouting.Rows)
	assert.Equal(t, "raw.nasdaq_futures", routing.WarehouseRouting.Location)

	wantObject := filepath.Join(objectDir, "crystal-ball-test-marketplace-data",
		"raw", "marketplace", "20240601_123045_yahoo_finance.csv")
	assert.Equal(t, wantObject, routing.ObjectRouting.Location)

	data, err := os.ReadFile(wantObject)
	require.NoError(t, err)
	assert.Equal(t, "symbol,close\nAAPL,189.5\nMSFT,410.25\n", string(data))

	tableFile := filepath.Join(warehouseDir, "raw.nasdaq_futures.ndjson")
	f, err := os.Open(tableFile)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan())

	var row map[string]interface{}
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
	assert.Equal(t, "AAPL", row["symbol"])
	assert.Equal(t, "marketplace", row["data_type"])
	assert.Equal(t, "yahoo_finance", row["data_source"])
	assert.Equal(t, 1.4, row["classification_confidence"])
	assert.Equal(t, "2024-06-01T12:30:45Z", row["routing_timestamp"])
}

func TestRoute_ObjectStoreFailureDoesNotBlockWarehouse(t *testing.T) {
	warehouseDir := t.TempDir()
	router := New(failingObjectStore{}, NewLocalWarehouse(warehouseDir), nil)

	routing := router.Route(context.Background(), testBatch(), testResult())

	assert.False(t, routing.Success())
	assert.False(t, routing.ObjectRouting.Success)
	assert.Equal(t, "bucket unavailable", routing.ObjectRouting.Error)
	assert.True(t, routing.WarehouseRouting.Success)
	assert.Equal(t, 2, routing.WarehouseRouting.Rows)
}

func TestRoute_WarehouseFailureDoesNotBlockObjectStore(t *testing.T) {
	objectDir := t.TempDir()
	router := New(NewLocalObjectStore(objectDir), failingWarehouse{}, nil)

	routing := router.Route(context.Background(), testBatch(), testResult())

	assert.False(t, routing.Success())
	assert.True(t, routing.ObjectRouting.Success)
	assert.False(t, routing.WarehouseRouting.Success)
	assert.Equal(t, "table locked", routing.WarehouseRouting.Error)
}

func TestRoute_DoesNotMutateBatch(t *testing.T) {
	router, _, _ := newTestRouter(t)
	batch := testBatch()

	router.Route(context.Background(), batch, testResult())

	assert.Equal(t, []string{"symbol", "close"}, batch.Columns(),
		"metadata columns go on a clone, not the caller's batch")
	_, ok := batch.Record(0)["data_type"]
	assert.False(t, ok)
}

func TestLocalWarehouse_AppendsAcrossInserts(t *testing.T) {
	dir := t.TempDir()
	wh := NewLocalWarehouse(dir)

	_, err := wh.Insert(context.Background(), "raw.csv_uploads", testBatch())
	require.NoError(t, err)
	rows, err := wh.Insert(context.Background(), "raw.csv_uploads", testBatch())
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	data, err := os.ReadFile(filepath.Join(dir, "raw.csv_uploads.ndjson"))
	require.NoError(t, err)

	lines := 0
	for _, b := range data {
		if b == '\n' {
			lines++
		}
	}
	assert.Equal(t, 4, lines)
}
