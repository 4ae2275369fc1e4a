package strategy

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

// Threaded distributes chunks over a bounded pool of goroutines that share
// process memory. Each goroutine writes only its own slot of the partials
// slice; the calling goroutine reads them after the pool has drained.
type Threaded struct {
	pool   PoolConfig
	reduce func(compute.Chunk) (float64, error)
}

// NewThreaded creates a goroutine pool strategy.
func NewThreaded(pool PoolConfig) *Threaded {
	return &Threaded{
		pool:   pool,
		reduce: compute.ReduceChecked,
	}
}

func (t *Threaded) Mode() Mode { return ModeThreading }

// Execute partitions r, reduces every chunk on the pool and sums the partials
// in chunk order.
func (t *Threaded) Execute(r compute.Range) (Result, error) {
	if err := r.ValidateWorkload(); err != nil {
		return Result{}, err
	}

	workers := t.pool.workers()
	chunks, err := compute.Partition(r, workers)
	if err != nil {
		return Result{}, err
	}

	partials := make([]float64, len(chunks))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, c := range chunks {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = &compute.WorkerExecutionError{Chunk: c, Err: fmt.Errorf("panic: %v", rec)}
				}
			}()

			v, err := t.reduce(c)
			if err != nil {
				return err
			}
			partials[c.Index] = v
			return nil
		})
	}

	// Join barrier: every submitted chunk has finished past this point.
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{
		Value:     sumInOrder(partials),
		CoresUsed: workers,
		Chunks:    len(chunks),
	}, nil
}
