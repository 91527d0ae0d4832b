package json2pdf

import (
	"log/slog"

	"github.com/Adoubf/json2pdf/internal/records"
)

// Record is one entry of a record source: an ordered mapping from field
// name to raw JSON value.
type Record = records.Record

// Field is one named value inside a Record.
type Field = records.Field

// NewRecord builds a Record from fields in order.
func NewRecord(fields ...Field) Record {
	return records.NewRecord(fields...)
}

// LoadRecords reads a JSON array file, or a JSONL file when path ends in
// ".jsonl". Invalid JSONL lines are skipped with a warning on logger; a JSON
// array that does not parse fails with ErrMalformedInput. A nil logger
// discards warnings.
func LoadRecords(path string, logger *slog.Logger) ([]Record, error) {
	return records.Load(path, logger)
}

// DiscoverFields returns the field names of the first record in path, in
// source order, reading no further than that record.
func DiscoverFields(path string) ([]string, error) {
	return records.DiscoverFields(path)
}
