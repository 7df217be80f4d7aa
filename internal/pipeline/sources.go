package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"crystalball/internal/dataset"
)

// Registered names of the built-in file upload sources. Network
// providers register their own fetchers at startup.
const (
	SourceCSVUpload   = "csv_upload"
	SourceExcelUpload = "excel_upload"
)

// CSVUploadFetcher reads an uploaded CSV document, either inline via
// the "content" option or from a local file named by "path"
type CSVUploadFetcher struct{}

// Fetch implements Fetcher
func (CSVUploadFetcher) Fetch(ctx context.Context, opts Options) (*dataset.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if content, ok := opts["content"].(string); ok && content != "" {
		return dataset.ReadCSV(strings.NewReader(content))
	}

	path, err := pathOption(opts)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	return dataset.ReadCSV(f)
}

// ExcelUploadFetcher reads the first sheet of an uploaded workbook
// from a local file named by the "path" option
type ExcelUploadFetcher struct{}

// Fetch implements Fetcher
func (ExcelUploadFetcher) Fetch(ctx context.Context, opts Options) (*dataset.Batch, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := pathOption(opts)
	if err != nil {
		return nil, err
	}
	return dataset.ReadExcelFile(path)
}

// RegisterFileSources registers the built-in upload fetchers on a
// pipeline
func RegisterFileSources(p *Pipeline) {
	p.RegisterFetcher(SourceCSVUpload, CSVUploadFetcher{})
	p.RegisterFetcher(SourceExcelUpload, ExcelUploadFetcher{})
}

func pathOption(opts Options) (string, error) {
	path, ok := opts["path"].(string)
	if !ok || path == "" {
		return "", fmt.Errorf("missing required option %q", "path")
	}
	return path, nil
}
