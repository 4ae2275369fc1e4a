package compute

import (
	"errors"
	"math"
)

// Reduce returns Σ 1/k² for k from c.Start to c.End, accumulated in
// ascending k. The square is taken in float64 so large k cannot overflow.
// The loop stops on k == c.End so an End of math.MaxInt64 terminates.
func Reduce(c Chunk) float64 {
	var sum float64
	if c.End < c.Start {
		return sum
	}
	for k := c.Start; ; k++ {
		fk := float64(k)
		sum += 1.0 / (fk * fk)
		if k == c.End {
			break
		}
	}
	return sum
}

// ReduceChecked is Reduce with the domain checks a worker applies before
// reporting a partial sum.
func ReduceChecked(c Chunk) (float64, error) {
	if c.Start < 1 {
		return 0, &WorkerExecutionError{Chunk: c, Err: errors.New("chunk contains k < 1")}
	}
	if c.End < c.Start {
		return 0, &WorkerExecutionError{Chunk: c, Err: errors.New("empty chunk")}
	}
	sum := Reduce(c)
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0, &WorkerExecutionError{Chunk: c, Err: errors.New("non-finite partial sum")}
	}
	return sum, nil
}
