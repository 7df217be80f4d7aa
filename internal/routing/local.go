package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"crystalball/internal/dataset"
)

// LocalObjectStore stores objects as files under a root directory,
// one subdirectory per bucket. It stands in for a cloud object store
// in tests and single-node deployments.
type LocalObjectStore struct {
	root string
}

// NewLocalObjectStore creates an object store rooted at dir
func NewLocalObjectStore(dir string) *LocalObjectStore {
	return &LocalObjectStore{root: dir}
}

// Store writes the object and returns its absolute path
func (s *LocalObjectStore) Store(ctx context.Context, bucket, objectPath string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.root, bucket, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create object directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write object: %w", err)
	}
	return path, nil
}

// LocalWarehouse appends rows as line-delimited JSON, one file per
// table, under a root directory. Appends are serialized with a mutex
// so concurrent ingestion runs never interleave partial rows.
type LocalWarehouse struct {
	root string
	mu   sync.Mutex
}

// NewLocalWarehouse creates a warehouse rooted at dir
func NewLocalWarehouse(dir string) *LocalWarehouse {
	return &LocalWarehouse{root: dir}
}

// Insert appends every record of the batch to the table file and
// returns the number of rows written
func (w *LocalWarehouse) Insert(ctx context.Context, table string, batch *dataset.Batch) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.root, 0755); err != nil {
		return 0, fmt.Errorf("failed to create warehouse directory: %w", err)
	}

	path := filepath.Join(w.root, table+".ndjson")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open table file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	columns := batch.Columns()
	for _, rec := range batch.Records() {
		row := make(map[string]interface{}, len(columns))
		for _, col := range columns {
			row[col] = rec[col].Interface()
		}
		if err := enc.Encode(row); err != nil {
			return 0, fmt.Errorf("failed to append row to %s: %w", table, err)
		}
	}

	return batch.Len(), nil
}
