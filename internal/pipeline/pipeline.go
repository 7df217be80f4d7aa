package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"crystalball/internal/classifier"
	"crystalball/internal/dataset"
	"crystalball/internal/infrastructure"
	"crystalball/internal/quality"
	"crystalball/internal/routing"
)

// ErrUnknownSource is returned when no fetcher is registered for the
// requested source. It is the pipeline's only refusal; everything else
// degrades into an error report.
var ErrUnknownSource = errors.New("unknown data source")

// Options are the free-form, source-specific parameters of one fetch
type Options map[string]interface{}

// Fetcher produces a batch for one registered data source
type Fetcher interface {
	Fetch(ctx context.Context, opts Options) (*dataset.Batch, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, opts Options) (*dataset.Batch, error)

// Fetch implements Fetcher
func (f FetcherFunc) Fetch(ctx context.Context, opts Options) (*dataset.Batch, error) {
	return f(ctx, opts)
}

// Deps are the collaborators of a pipeline. Classifier, Validator and
// Router are required; Metrics and ReportsDir are optional.
type Deps struct {
	Classifier *classifier.Classifier
	Validator  *quality.Validator
	Router     *routing.Router
	Metrics    *infrastructure.Metrics
	ReportsDir string
	Logger     *slog.Logger
}

// Pipeline orchestrates one ingestion run: fetch, classify, clean,
// route, report. It holds no per-run state and is safe for concurrent
// use once all fetchers are registered.
type Pipeline struct {
	classifier *classifier.Classifier
	validator  *quality.Validator
	router     *routing.Router
	metrics    *infrastructure.Metrics
	reportsDir string
	logger     *slog.Logger

	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// New creates a pipeline from its collaborators
func New(deps Deps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		classifier: deps.Classifier,
		validator:  deps.Validator,
		router:     deps.Router,
		metrics:    deps.Metrics,
		reportsDir: deps.ReportsDir,
		logger:     logger.With(slog.String("component", "pipeline")),
		fetchers:   make(map[string]Fetcher),
	}
}

// RegisterFetcher registers the fetcher serving a source name.
// Registering the same name again replaces the previous fetcher.
func (p *Pipeline) RegisterFetcher(source string, f Fetcher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fetchers[source] = f
}

// Sources returns the registered source names
func (p *Pipeline) Sources() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	sources := make([]string, 0, len(p.fetchers))
	for name := range p.fetchers {
		sources = append(sources, name)
	}
	return sources
}

// Ingest runs the full pipeline for one source. An unregistered source
// is rejected with ErrUnknownSource; any downstream failure instead
// lands in the returned report with status "error" or "partial".
func (p *Pipeline) Ingest(ctx context.Context, source string, opts Options) (*IngestionReport, error) {
	p.mu.RLock()
	fetcher, ok := p.fetchers[source]
	p.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSource, source)
	}

	logger := p.logger.With(slog.String("source", source))
	if traceID := infrastructure.GetTraceID(ctx); traceID != "" {
		logger = logger.With(slog.String("trace_id", traceID))
	}
	logger.Info("starting ingestion")

	report := &IngestionReport{
		Timestamp:  time.Now().UTC(),
		DataSource: source,
	}

	batch, err := fetcher.Fetch(ctx, opts)
	if err != nil {
		logger.Error("fetch failed", slog.String("error", err.Error()))
		report.Status = StatusError
		report.Message = fmt.Sprintf("failed to fetch data: %s", err)
		p.countBatch(report.Status)
		return report, nil
	}

	if batch.IsEmpty() {
		logger.Warn("fetched batch is empty")
		report.Status = StatusError
		report.Message = "no data fetched from source"
		p.countBatch(report.Status)
		return report, nil
	}

	result := p.classifier.Classify(batch, map[string]string{"source": source})
	report.Classification = summarize(result)

	label := fmt.Sprintf("%s_%s", source, result.DataType)
	cleaned, issues, qualityReport := p.validator.ValidateAndClean(batch, label)
	report.DataQuality = qualityReport
	p.countIssues(issues)
	p.persistQualityReport(logger, qualityReport)

	routingResult := p.router.Route(ctx, cleaned, result)
	report.Routing = &routingResult
	report.RecordsProcessed = cleaned.Len()

	switch {
	case routingResult.Success():
		report.Status = StatusSuccess
	case routingResult.ObjectRouting.Success || routingResult.WarehouseRouting.Success:
		report.Status = StatusPartial
	default:
		report.Status = StatusError
		report.Message = "routing failed for all destinations"
	}
	p.countRouting(routingResult, cleaned.Len())
	p.countBatch(report.Status)

	logger.Info("ingestion finished",
		slog.String("status", report.Status),
		slog.String("data_type", string(result.DataType)),
		slog.Int("records_processed", report.RecordsProcessed))

	return report, nil
}

// IngestBatch runs one ingestion per source concurrently. The sources
// are independent: there is no ordering, no shared state and no
// cross-source failure propagation. An unknown source becomes an error
// entry in the aggregate report rather than failing the run.
func (p *Pipeline) IngestBatch(ctx context.Context, requests map[string]Options) *BatchReport {
	batch := &BatchReport{
		Timestamp:    time.Now().UTC(),
		TotalSources: len(requests),
		Results:      make(map[string]*IngestionReport, len(requests)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for source, opts := range requests {
		g.Go(func() error {
			report, err := p.Ingest(gctx, source, opts)
			if err != nil {
				report = &IngestionReport{
					Status:     StatusError,
					Timestamp:  time.Now().UTC(),
					DataSource: source,
					Message:    err.Error(),
				}
			}
			mu.Lock()
			batch.Results[source] = report
			mu.Unlock()
			return nil
		})
	}
	// Per-source failures land in Results; the group never errors
	_ = g.Wait()

	for _, report := range batch.Results {
		if report.Status == StatusSuccess {
			batch.SuccessfulSources++
		}
		batch.TotalRecordsProcessed += report.RecordsProcessed
	}

	return batch
}

// persistQualityReport writes the quality report if a reports
// directory is configured. Persistence failures are logged, never
// fatal.
func (p *Pipeline) persistQualityReport(logger *slog.Logger, report *quality.Report) {
	if p.reportsDir == "" {
		return
	}
	path, err := quality.WriteReport(p.reportsDir, report)
	if err != nil {
		logger.Error("failed to persist quality report", slog.String("error", err.Error()))
		return
	}
	logger.Debug("quality report written", slog.String("path", path))
}

func (p *Pipeline) countBatch(status string) {
	if p.metrics == nil {
		return
	}
	p.metrics.BatchesIngested.WithLabelValues(status).Inc()
}

func (p *Pipeline) countIssues(issues []quality.Issue) {
	if p.metrics == nil {
		return
	}
	for _, issue := range issues {
		p.metrics.QualityIssues.WithLabelValues(string(issue.Severity)).Inc()
	}
}

func (p *Pipeline) countRouting(result routing.RoutingResult, rows int) {
	if p.metrics == nil {
		return
	}
	if result.ObjectRouting.Success || result.WarehouseRouting.Success {
		p.metrics.RowsRouted.Add(float64(rows))
	}
	if !result.ObjectRouting.Success {
		p.metrics.RoutingFailures.WithLabelValues("object_store").Inc()
	}
	if !result.WarehouseRouting.Success {
		p.metrics.RoutingFailures.WithLabelValues("warehouse").Inc()
	}
}
