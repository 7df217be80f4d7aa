package dataset

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadExcelFile reads the first sheet of an xlsx workbook into a batch
func ReadExcelFile(path string) (*Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// ReadExcel reads the first sheet of an xlsx workbook from a reader
func ReadExcel(r io.Reader) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return readWorkbook(f)
}

// readWorkbook converts the first sheet into a batch. The first row is
// the header; cells are read as strings, empty cells become null.
func readWorkbook(f *excelize.File) (*Batch, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return New(nil), nil
	}

	columns := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		columns[i] = strings.TrimSpace(col)
	}

	batch := New(columns)

	for _, row := range rows[1:] {
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
