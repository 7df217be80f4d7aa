// Package classifier decides what kind of data an untyped batch holds
// and where it should be routed.
//
// Classification is a fixed heuristic scorer, not a trained model. A
// FeatureSet is extracted from the batch (column names, inferred
// kinds, sample values, boolean pattern flags), then every rule in an
// explicit weight table is evaluated against it. Each triggered rule
// adds its weight to the candidate type's score and appends a
// human-readable reasoning entry. The highest-scoring type wins, with
// ties broken by declaration order, and a csv_upload fallback covers
// batches nothing matched.
//
// Confidence is the raw sum of triggered rule weights. It is not
// normalized to [0,1] and must not be clamped: fractional weights can
// sum above 1.0, and clamping would change rank order.
//
// The provider (DataSource) is resolved independently from caller
// hints, never from the batch contents.
package classifier
