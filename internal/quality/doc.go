// Package quality implements the staged validation and cleaning
// pipeline for market data batches.
//
// A batch passes through five ordered passes: structure checks, date
// normalization, numeric coercion and repair, OHLC domain rules, and
// duplicate/outlier removal. Each pass records its findings as issues
// with a severity level; critical issues flag structural problems,
// warnings flag repaired or suspicious values, and informational
// issues record routine cleanup. The pipeline never rejects a batch:
// unsalvageable values are nulled, duplicate rows are dropped, and
// everything else flows through with its issues attached.
package quality
