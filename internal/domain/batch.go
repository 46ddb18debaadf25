package domain

import "fmt"

// MaxBatchSize is the hard per-request row cap imposed by the storage
// collaborator. No single range request may span more rows than this; the
// paged fetcher exists because of it.
const MaxBatchSize = 1000

// BatchRange is an inclusive row range [Start, End] for one fetch request.
type BatchRange struct {
	Start int
	End   int
}

// Len returns the number of rows the range covers.
func (r BatchRange) Len() int {
	return r.End - r.Start + 1
}

func (r BatchRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// BatchRanges splits total rows into sequential ranges of at most size rows.
// A total of 0 yields no ranges. The last range is truncated to total-1.
func BatchRanges(total, size int) []BatchRange {
	if total <= 0 || size <= 0 {
		return nil
	}
	var ranges []BatchRange
	for start := 0; start < total; start += size {
		end := start + size - 1
		if end > total-1 {
			end = total - 1
		}
		ranges = append(ranges, BatchRange{Start: start, End: end})
	}
	return ranges
}
