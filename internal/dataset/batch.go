package dataset

import (
	"strings"
)

// Record is a single row, mapping field names to values.
// Absent fields read as null.
type Record map[string]Value

// Batch is an ordered collection of records with a known column order.
// The column set is not fixed in advance; callers introspect it.
type Batch struct {
	columns []string
	records []Record
}

// New creates an empty batch with the given column order
func New(columns []string) *Batch {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Batch{columns: cols}
}

// Columns returns the column names in order
func (b *Batch) Columns() []string {
	cols := make([]string, len(b.columns))
	copy(cols, b.columns)
	return cols
}

// Len returns the number of records
func (b *Batch) Len() int {
	return len(b.records)
}

// IsEmpty reports whether the batch has no records
func (b *Batch) IsEmpty() bool {
	return len(b.records) == 0
}

// Append adds a record to the batch
func (b *Batch) Append(rec Record) {
	b.records = append(b.records, rec)
}

// Record returns the record at index i
func (b *Batch) Record(i int) Record {
	return b.records[i]
}

// Records returns the underlying record slice. Callers may mutate
// individual records but must not reorder the slice.
func (b *Batch) Records() []Record {
	return b.records
}

// ReplaceRecords swaps the record slice, keeping the column order
func (b *Batch) ReplaceRecords(recs []Record) {
	b.records = recs
}

// HasColumn reports whether the batch has a column with the exact name
func (b *Batch) HasColumn(name string) bool {
	for _, col := range b.columns {
		if col == name {
			return true
		}
	}
	return false
}

// HasColumnFold reports whether the batch has a column matching the
// name case-insensitively
func (b *Batch) HasColumnFold(name string) bool {
	for _, col := range b.columns {
		if strings.EqualFold(col, name) {
			return true
		}
	}
	return false
}

// AddColumn appends a column to the order if not already present
func (b *Batch) AddColumn(name string) {
	if !b.HasColumn(name) {
		b.columns = append(b.columns, name)
	}
}

// NonNullCount returns the number of non-null values in a column
func (b *Batch) NonNullCount(col string) int {
	count := 0
	for _, rec := range b.records {
		if !rec[col].IsNull() {
			count++
		}
	}
	return count
}

// AllNull reports whether every value in the column is null.
// An empty batch reports false.
func (b *Batch) AllNull(col string) bool {
	if len(b.records) == 0 {
		return false
	}
	return b.NonNullCount(col) == 0
}

// Clone returns a deep copy of the batch. Cleaning passes operate on a
// clone so the caller's batch is never mutated.
func (b *Batch) Clone() *Batch {
	clone := New(b.columns)
	clone.records = make([]Record, 0, len(b.records))
	for _, rec := range b.records {
		copied := make(Record, len(rec))
		for k, v := range rec {
			copied[k] = v
		}
		clone.records = append(clone.records, copied)
	}
	return clone
}

// Fingerprint returns a canonical representation of a record over the
// batch's columns, used for exact duplicate detection.
func (b *Batch) Fingerprint(rec Record) string {
	var sb strings.Builder
	for i, col := range b.columns {
		if i > 0 {
			sb.WriteByte('\x1f')
		}
		sb.WriteString(rec[col].key())
	}
	return sb.String()
}
