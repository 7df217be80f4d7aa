// Package http exposes the ingestion pipeline over HTTP: ingestion
// triggers, classification feedback, health and prometheus metrics.
package http
