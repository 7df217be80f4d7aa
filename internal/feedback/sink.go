// Package feedback records classification corrections for later audit.
// Records are append-only and never feed back into classification;
// the heuristics stay deterministic regardless of what is recorded.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"crystalball/internal/classifier"
)

// Entry is one recorded piece of classification feedback
type Entry struct {
	ID         string                 `json:"id"`
	Timestamp  time.Time              `json:"timestamp"`
	DataType   classifier.DataType    `json:"data_type"`
	DataSource classifier.DataSource  `json:"data_source"`
	Confidence float64                `json:"confidence"`
	Reasoning  []string               `json:"reasoning"`
	Feedback   map[string]interface{} `json:"feedback"`
}

// Sink accepts classification feedback
type Sink interface {
	Record(ctx context.Context, result classifier.Result, feedback map[string]interface{}) (*Entry, error)
}

// FileSink writes one JSON document per feedback record. Each record
// gets a unique file name, so concurrent writers never collide and no
// locking is needed.
type FileSink struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewFileSink creates a file sink writing into dir
func NewFileSink(dir string, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSink{
		dir:    dir,
		logger: logger.With(slog.String("component", "feedback_sink")),
		now:    time.Now,
	}
}

// Record persists one feedback entry and returns it
func (s *FileSink) Record(ctx context.Context, result classifier.Result, feedback map[string]interface{}) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:         uuid.NewString(),
		Timestamp:  s.now().UTC(),
		DataType:   result.DataType,
		DataSource: result.DataSource,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
		Feedback:   feedback,
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create feedback directory: %w", err)
	}

	name := fmt.Sprintf("feedback_%s_%s.json", entry.Timestamp.Format("20060102_150405"), entry.ID)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal feedback entry: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write feedback entry: %w", err)
	}

	s.logger.Info("feedback recorded",
		slog.String("id", entry.ID),
		slog.String("data_type", string(entry.DataType)))

	return entry, nil
}
