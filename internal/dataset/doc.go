// Package dataset provides the in-memory tabular data model shared by
// the classifier, the validator and the router.
//
// A Batch is an ordered collection of records whose column set is not
// known in advance. Values are dynamically typed scalars; readers load
// everything as strings and the cleaning passes coerce types later.
//
// Readers are provided for CSV documents and xlsx workbooks:
//
//	batch, err := dataset.ReadCSV(file)
//	batch, err := dataset.ReadExcelFile("upload.xlsx")
//
// Coercion never fails loudly: a value that cannot be read as a number
// simply reports false from AsFloat, mirroring the rest of the
// pipeline's repair-don't-raise policy.
package dataset
