package strategy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

func TestThreadedSingleElementRange(t *testing.T) {
	res, err := NewThreaded(PoolConfig{Workers: MaxWorkers}).Execute(compute.Range{Lower: 1, Upper: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Chunks, "exactly one non-empty chunk")
	assert.Equal(t, 1.0, res.Value)
	assert.Equal(t, MaxWorkers, res.CoresUsed)
}

func TestThreadedShortRange(t *testing.T) {
	res, err := NewThreaded(PoolConfig{Workers: MaxWorkers}).Execute(compute.Range{Lower: 1, Upper: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Chunks, "one chunk per element when the range is shorter than the pool")
	assert.InDelta(t, 1.0+0.25+1.0/9.0, res.Value, 1e-15)
}

func TestThreadedDeterministic(t *testing.T) {
	r := compute.Range{Lower: 1, Upper: 500_001}
	s := NewThreaded(PoolConfig{Workers: 7})

	first, err := s.Execute(r)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.Execute(r)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first.Value), math.Float64bits(again.Value))
	}
}

func TestThreadedWorkerError(t *testing.T) {
	boom := errors.New("boom")
	s := NewThreaded(PoolConfig{Workers: 4})
	s.reduce = func(c compute.Chunk) (float64, error) {
		if c.Index == 2 {
			return 0, &compute.WorkerExecutionError{Chunk: c, Err: boom}
		}
		return compute.Reduce(c), nil
	}

	_, err := s.Execute(compute.Range{Lower: 1, Upper: 100})
	require.Error(t, err)
	assert.ErrorIs(t, err, compute.ErrWorkerExecution)
	assert.ErrorIs(t, err, boom)
}

func TestThreadedRecoversPanics(t *testing.T) {
	s := NewThreaded(PoolConfig{Workers: 3})
	s.reduce = func(c compute.Chunk) (float64, error) {
		if c.Index == 1 {
			panic("chunk exploded")
		}
		return compute.Reduce(c), nil
	}

	_, err := s.Execute(compute.Range{Lower: 1, Upper: 30})
	require.Error(t, err)
	assert.ErrorIs(t, err, compute.ErrWorkerExecution)
	assert.Contains(t, err.Error(), "chunk exploded")
}
