// Package routing delivers classified, cleaned batches to their
// storage destinations: a raw object archive and a warehouse table,
// both chosen by the classification result. The two destinations are
// written independently; there are no retries and a failure on one
// side never blocks the other.
package routing
