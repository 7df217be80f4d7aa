// Package pipeline orchestrates the ingestion flow: fetch a batch
// from a registered source, classify it, run the quality passes,
// route the cleaned rows to storage and assemble the combined report.
//
// The only hard refusal is an unregistered source name. Every other
// failure mode degrades into the report: fetch errors and empty
// batches produce an error report, partial routing produces a partial
// one. Multi-source runs execute concurrently with no shared state
// between sources.
package pipeline
