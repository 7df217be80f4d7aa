// Command ingestfile runs the pipeline once over a local CSV or XLSX
// file and prints the combined ingestion report as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"crystalball/internal/classifier"
	"crystalball/internal/pipeline"
	"crystalball/internal/quality"
	"crystalball/internal/routing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingestfile: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		filePath = flag.String("file", "", "CSV or XLSX file to ingest (required)")
		source   = flag.String("source", "", "source name; inferred from the file extension when empty")
		dataDir  = flag.String("data-dir", "data", "root directory for objects, warehouse tables and reports")
		project  = flag.String("project", "crystal-ball-intelligence-v12", "project ID prefixing destination buckets")
		verbose  = flag.Bool("v", false, "log pipeline progress to stderr")
	)
	flag.Parse()

	if *filePath == "" {
		flag.Usage()
		return fmt.Errorf("-file is required")
	}

	name := *source
	if name == "" {
		switch strings.ToLower(filepath.Ext(*filePath)) {
		case ".xlsx", ".xlsm":
			name = pipeline.SourceExcelUpload
		default:
			name = pipeline.SourceCSVUpload
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	if !*verbose {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	}

	p := pipeline.New(pipeline.Deps{
		Classifier: classifier.New(*project, logger),
		Validator:  quality.New(logger),
		Router: routing.New(
			routing.NewLocalObjectStore(filepath.Join(*dataDir, "objects")),
			routing.NewLocalWarehouse(filepath.Join(*dataDir, "warehouse")),
			logger),
		ReportsDir: filepath.Join(*dataDir, "reports"),
		Logger:     logger,
	})
	pipeline.RegisterFileSources(p)

	report, err := p.Ingest(context.Background(), name, pipeline.Options{"path": *filePath})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to print report: %w", err)
	}

	if report.Status == pipeline.StatusError {
		return fmt.Errorf("ingestion failed: %s", report.Message)
	}
	return nil
}
