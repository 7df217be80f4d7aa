package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV reads a CSV document into a batch. The first row is the
// header. Every cell is read as a string value; typing is left to the
// cleaning passes. Empty cells become null.
func ReadCSV(r io.Reader) (*Batch, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return New(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = strings.TrimSpace(col)
	}

	batch := New(columns)

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", batch.Len()+2, err)
		}

		rec := make(Record, len(columns))
		for i, col := range columns {
			if i >= len(row) {
				break
			}
			cell := strings.TrimSpace(row[i])
			if cell == "" {
				continue
			}
			rec[col] = StringValue(cell)
		}
		batch.Append(rec)
	}

	return batch, nil
}

// WriteCSV writes the batch as a CSV document with a header row. Null
// values render as empty cells.
func WriteCSV(w io.Writer, batch *Batch) error {
	writer := csv.NewWriter(w)

	columns := batch.Columns()
	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(columns))
	for _, rec := range batch.Records() {
		for i, col := range columns {
			row[i] = rec[col].AsString()
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
