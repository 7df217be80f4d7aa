package feedback

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crystalball/internal/classifier"
)

func TestFileSink_Record(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, nil)

	result := classifier.Result{
		DataType:   classifier.TypeMarketplace,
		DataSource: classifier.SourceYahooFinance,
		Confidence: 1.4,
		Reasoning:  []string{"Contains price data and dates"},
	}

	entry, err := sink.Record(context.Background(), result, map[string]interface{}{
		"correct_type": "macro",
		"note":         "treasury yields, not equities",
	})
	require.NoError(t, err)
	require.NotEmpty(t, entry.ID)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(filepath.Join(dir, files[0].Name()))
	require.NoError(t, err)

	var decoded Entry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, entry.ID, decoded.ID)
	assert.Equal(t, classifier.TypeMarketplace, decoded.DataType)
	assert.Equal(t, 1.4, decoded.Confidence)
	assert.Equal(t, "macro", decoded.Feedback["correct_type"])
}

func TestFileSink_ConcurrentRecordsGetDistinctFiles(t *testing.T) {
	dir := t.TempDir()
	sink := NewFileSink(dir, nil)
	result := classifier.Result{DataType: classifier.TypeCSVUpload}

	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() {
			_, err := sink.Record(context.Background(), result, nil)
			done <- err
		}()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 10)
}
