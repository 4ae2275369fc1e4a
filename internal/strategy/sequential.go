package strategy

import "github.com/GriffinCanCode/perfcalc/internal/compute"

// Sequential runs the whole range as one chunk on the calling goroutine.
type Sequential struct{}

// NewSequential creates a sequential strategy.
func NewSequential() *Sequential {
	return &Sequential{}
}

func (s *Sequential) Mode() Mode { return ModeSequential }

// Execute reduces r in a single pass.
func (s *Sequential) Execute(r compute.Range) (Result, error) {
	if err := r.ValidateWorkload(); err != nil {
		return Result{}, err
	}
	sum, err := compute.ReduceChecked(compute.Chunk{Index: 0, Start: r.Lower, End: r.Upper})
	if err != nil {
		return Result{}, err
	}
	return Result{Value: sum, CoresUsed: 1, Chunks: 1}, nil
}
