package compute

import "fmt"

// Range is an inclusive integer interval [Lower, Upper].
type Range struct {
	Lower int64 `json:"lower_bound"`
	Upper int64 `json:"upper_bound"`
}

// NewRange validates the calculation preconditions lower >= 1 and
// upper > lower. k = 0 would make the reduction infinite.
func NewRange(lower, upper int64) (Range, error) {
	r := Range{Lower: lower, Upper: upper}
	if err := r.Validate(); err != nil {
		return Range{}, err
	}
	return r, nil
}

// Validate checks the calculation preconditions.
func (r Range) Validate() error {
	if r.Lower < 1 {
		return &InvalidRangeError{Lower: r.Lower, Upper: r.Upper, Reason: "lower bound must be >= 1"}
	}
	if r.Upper <= r.Lower {
		return &InvalidRangeError{Lower: r.Lower, Upper: r.Upper, Reason: "upper bound must be greater than lower bound"}
	}
	return nil
}

// ValidateWorkload checks that r can be reduced: lower >= 1 and a non-empty
// interval. Strategies accept single-element ranges; the stricter
// upper > lower rule of Validate applies to calculation requests.
func (r Range) ValidateWorkload() error {
	if r.Lower < 1 {
		return &InvalidRangeError{Lower: r.Lower, Upper: r.Upper, Reason: "lower bound must be >= 1"}
	}
	if r.Upper < r.Lower {
		return &InvalidRangeError{Lower: r.Lower, Upper: r.Upper, Reason: "empty range"}
	}
	return nil
}

// Len returns the number of integers in the range.
func (r Range) Len() int64 {
	return r.Upper - r.Lower + 1
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d]", r.Lower, r.Upper)
}

// Chunk is the contiguous sub-range assigned to one worker.
type Chunk struct {
	Index int   `json:"index"`
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Len returns the number of integers in the chunk.
func (c Chunk) Len() int64 {
	return c.End - c.Start + 1
}
