package calculation

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

// DefaultMaxSpan is the largest allowed upper-lower.
const DefaultMaxSpan int64 = 10_000_000

var ErrRangeTooLarge = errors.New("range too large")

// Request is the body of a calculation request.
type Request struct {
	LowerBound     int64  `json:"lower_bound"`
	UpperBound     int64  `json:"upper_bound"`
	ProcessingMode string `json:"processing_mode"`
}

// ValidationError is a request the caller must correct. Message is safe to
// return to clients.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

// Validate checks req against maxSpan and returns the range and mode to run.
func (req Request) Validate(maxSpan int64) (compute.Range, strategy.Mode, error) {
	if req.LowerBound < 1 {
		return compute.Range{}, "", &ValidationError{
			Message: "Lower bound must be >= 1",
			Err:     &compute.InvalidRangeError{Lower: req.LowerBound, Upper: req.UpperBound, Reason: "lower bound must be >= 1"},
		}
	}

	mode, err := strategy.ParseMode(req.ProcessingMode)
	if err != nil {
		return compute.Range{}, "", &ValidationError{Message: "Invalid processing mode", Err: err}
	}

	if req.UpperBound <= req.LowerBound {
		return compute.Range{}, "", &ValidationError{
			Message: "Upper bound must be greater than lower bound",
			Err:     &compute.InvalidRangeError{Lower: req.LowerBound, Upper: req.UpperBound, Reason: "upper bound must be greater than lower bound"},
		}
	}

	if maxSpan > 0 && req.UpperBound-req.LowerBound > maxSpan {
		return compute.Range{}, "", &ValidationError{
			Message: "Range too large. Maximum range is " + formatSpan(maxSpan),
			Err:     ErrRangeTooLarge,
		}
	}

	r, err := compute.NewRange(req.LowerBound, req.UpperBound)
	if err != nil {
		return compute.Range{}, "", &ValidationError{Message: err.Error(), Err: err}
	}
	return r, mode, nil
}

func formatSpan(n int64) string {
	const million = 1_000_000
	if n%million == 0 {
		return fmt.Sprintf("%d million", n/million)
	}
	return fmt.Sprintf("%d", n)
}
