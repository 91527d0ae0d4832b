package pipeline

import "github.com/Adoubf/json2pdf/internal/records"

// Batch is a contiguous run of records mapped to one output document.
type Batch struct {
	Index   int // 1-based
	Records []records.Record
}

// BatchCount returns ceil(total / size). Size must be positive.
func BatchCount(total, size int) int {
	if total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Partition splits recs into consecutive batches of size records; the last
// batch may be smaller. Batches share the backing array of recs and are
// capped so appending to one cannot overwrite the next.
// Size must be positive; callers validate it.
func Partition(recs []records.Record, size int) []Batch {
	if size <= 0 {
		panic("pipeline: Partition size must be positive")
	}

	batches := make([]Batch, 0, BatchCount(len(recs), size))
	for start := 0; start < len(recs); start += size {
		end := min(start+size, len(recs))
		batches = append(batches, Batch{
			Index:   len(batches) + 1,
			Records: recs[start:end:end],
		})
	}
	return batches
}
