package compute

import "fmt"

// Partition splits r into at most workers contiguous, disjoint chunks whose
// union is exactly r. When r has fewer elements than workers, one chunk per
// element is returned. Any r with Lower <= Upper is accepted, including a
// single element.
func Partition(r Range, workers int) ([]Chunk, error) {
	if workers < 1 {
		return nil, fmt.Errorf("partition %s: worker count must be >= 1, got %d", r, workers)
	}
	if r.Upper < r.Lower {
		return nil, &InvalidRangeError{Lower: r.Lower, Upper: r.Upper, Reason: "empty range"}
	}

	total := r.Len()
	n := int64(workers)
	if total < n {
		n = total
	}
	base := total / n
	rem := total % n

	chunks := make([]Chunk, 0, n)
	start := r.Lower
	for i := int64(0); i < n; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks = append(chunks, Chunk{
			Index: int(i),
			Start: start,
			End:   start + size - 1,
		})
		start += size
	}
	return chunks, nil
}
