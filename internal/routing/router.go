package routing

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"crystalball/internal/classifier"
	"crystalball/internal/dataset"
)

// ObjectStore persists raw batch documents under a bucket. Local and
// cloud implementations satisfy it.
type ObjectStore interface {
	Store(ctx context.Context, bucket, objectPath string, data []byte) (string, error)
}

// Warehouse inserts batch rows into a named table
type Warehouse interface {
	Insert(ctx context.Context, table string, batch *dataset.Batch) (int, error)
}

// DestinationResult records the outcome of one routing destination
type DestinationResult struct {
	Success  bool   `json:"success"`
	Location string `json:"location,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Error    string `json:"error,omitempty"`
}

// RoutingResult carries the per-destination outcomes of one routing
// call. The destinations succeed or fail independently.
type RoutingResult struct {
	ObjectRouting    DestinationResult `json:"object_routing"`
	WarehouseRouting DestinationResult `json:"warehouse_routing"`
	Timestamp        time.Time         `json:"timestamp"`
}

// Success reports whether both destinations accepted the batch
func (r RoutingResult) Success() bool {
	return r.ObjectRouting.Success && r.WarehouseRouting.Success
}

// Router delivers classified batches to the object store and the
// warehouse chosen by the classification result
type Router struct {
	objects   ObjectStore
	warehouse Warehouse
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a router
func New(objects ObjectStore, warehouse Warehouse, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		objects:   objects,
		warehouse: warehouse,
		logger:    logger.With(slog.String("component", "router")),
		now:       time.Now,
	}
}

// Route writes the batch to both destinations named by the
// classification result. There are no retries and no rollback: a
// failed destination is recorded in the result and the other
// destination proceeds regardless.
func (r *Router) Route(ctx context.Context, batch *dataset.Batch, result classifier.Result) RoutingResult {
	now := r.now().UTC()
	routing := RoutingResult{Timestamp: now}

	objectPath := fmt.Sprintf("raw/%s/%s_%s.csv",
		result.DataType, now.Format("20060102_150405"), result.DataSource)

	var buf bytes.Buffer
	if err := dataset.WriteCSV(&buf, batch); err != nil {
		routing.ObjectRouting.Error = err.Error()
	} else if location, err := r.objects.Store(ctx, result.Bucket, objectPath, buf.Bytes()); err != nil {
		routing.ObjectRouting.Error = err.Error()
		r.logger.Error("object store routing failed",
			slog.String("bucket", result.Bucket),
			slog.String("object", objectPath),
			slog.String("error", err.Error()))
	} else {
		routing.ObjectRouting.Success = true
		routing.ObjectRouting.Location = location
		routing.ObjectRouting.Rows = batch.Len()
		r.logger.Info("batch stored",
			slog.String("location", location),
			slog.Int("rows", batch.Len()))
	}

	enriched := withRoutingMetadata(batch, result, now)
	if rows, err := r.warehouse.Insert(ctx, result.Table, enriched); err != nil {
		routing.WarehouseRouting.Error = err.Error()
		r.logger.Error("warehouse routing failed",
			slog.String("table", result.Table),
			slog.String("error", err.Error()))
	} else {
		routing.WarehouseRouting.Success = true
		routing.WarehouseRouting.Location = result.Table
		routing.WarehouseRouting.Rows = rows
		r.logger.Info("batch inserted",
			slog.String("table", result.Table),
			slog.Int("rows", rows))
	}

	return routing
}

// withRoutingMetadata clones the batch and appends the classification
// metadata columns carried into the warehouse
func withRoutingMetadata(batch *dataset.Batch, result classifier.Result, now time.Time) *dataset.Batch {
	enriched := batch.Clone()
	enriched.AddColumn("data_type")
	enriched.AddColumn("data_source")
	enriched.AddColumn("classification_confidence")
	enriched.AddColumn("routing_timestamp")

	stamp := now.Format(time.RFC3339)
	for _, rec := range enriched.Records() {
		rec["data_type"] = dataset.StringValue(string(result.DataType))
		rec["data_source"] = dataset.StringValue(string(result.DataSource))
		rec["classification_confidence"] = dataset.FloatValue(result.Confidence)
		rec["routing_timestamp"] = dataset.StringValue(stamp)
	}
	return enriched
}
