package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

type fakeSampler struct {
	values []float64
	calls  int
}

func (f *fakeSampler) Sample() (float64, error) {
	v := f.values[f.calls]
	f.calls++
	return v, nil
}

type fakeTracer struct {
	started bool
	stopped bool
	peak    uint64
}

func (f *fakeTracer) Start()       { f.started = true }
func (f *fakeTracer) Stop() uint64 { f.stopped = true; return f.peak }

func newFakeCollector(s *fakeSampler, tr *fakeTracer) *Collector {
	wall := time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)
	cpu := time.Duration(0)
	return &Collector{
		now: func() time.Time {
			wall = wall.Add(1500 * time.Millisecond)
			return wall
		},
		cpuTime: func() (time.Duration, error) {
			cpu += 250 * time.Millisecond
			return cpu, nil
		},
		newSampler: func() sampler { return s },
		newTracer:  func() tracer { return tr },
	}
}

func TestMeasureDerivedFields(t *testing.T) {
	s := &fakeSampler{values: []float64{12.5, 80}}
	tr := &fakeTracer{peak: 3 * bytesPerMiB}
	c := newFakeCollector(s, tr)

	r := compute.Range{Lower: 1, Upper: 10}
	m, err := c.Measure(strategy.ModeThreading, r, func() (strategy.Result, error) {
		return strategy.Result{Value: 1.5, CoresUsed: 4}, nil
	})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, m.ExecutionTime, 1e-9)
	assert.InDelta(t, 0.25, m.CPUTime, 1e-9)
	assert.InDelta(t, 3.0, m.MemoryUsage, 1e-9)
	assert.Equal(t, 80.0, m.CPUUtilization, "max of the two samples")
	assert.Equal(t, 1.5, m.ResultValue)
	assert.Equal(t, 4, m.CoresUsed)
	assert.Equal(t, int64(1), m.LowerBound)
	assert.Equal(t, int64(10), m.UpperBound)
	assert.Equal(t, strategy.ModeThreading, m.ProcessingMode)
	assert.Equal(t, "2025-03-04T05:06:10.000000", m.Timestamp)

	assert.True(t, tr.started)
	assert.True(t, tr.stopped)
	assert.Equal(t, 2, s.calls)
}

func TestMeasureBaselineWins(t *testing.T) {
	s := &fakeSampler{values: []float64{95, 10}}
	c := newFakeCollector(s, &fakeTracer{})

	m, err := c.Measure(strategy.ModeSequential, compute.Range{Lower: 1, Upper: 2}, func() (strategy.Result, error) {
		return strategy.Result{Value: 1.25, CoresUsed: 1}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 95.0, m.CPUUtilization)
}

func TestMeasureFailureProducesNoRecord(t *testing.T) {
	s := &fakeSampler{values: []float64{0, 0}}
	tr := &fakeTracer{}
	c := newFakeCollector(s, tr)

	boom := errors.New("boom")
	m, err := c.Measure(strategy.ModeMultiprocessing, compute.Range{Lower: 1, Upper: 2}, func() (strategy.Result, error) {
		return strategy.Result{}, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, PerformanceMetrics{}, m)
	assert.True(t, tr.stopped, "instrumentation is stopped even on failure")
}

func TestMeasureCPUTimeError(t *testing.T) {
	c := newFakeCollector(&fakeSampler{values: []float64{0, 0}}, &fakeTracer{})
	c.cpuTime = func() (time.Duration, error) { return 0, errors.New("no rusage") }

	_, err := c.Measure(strategy.ModeSequential, compute.Range{Lower: 1, Upper: 2}, func() (strategy.Result, error) {
		return strategy.Result{Value: 1.25, CoresUsed: 1}, nil
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cpu time")
}

func TestRunRealStrategies(t *testing.T) {
	c := NewCollector()
	r := compute.Range{Lower: 1, Upper: 10}

	m, err := c.Run(strategy.NewSequential(), r)
	require.NoError(t, err)
	assert.InDelta(t, 1.5497677311665408, m.ResultValue, 1e-15)
	assert.Equal(t, 1, m.CoresUsed)
	assert.Equal(t, strategy.ModeSequential, m.ProcessingMode)
	assertComplete(t, m)

	big := compute.Range{Lower: 1, Upper: 2_000_000}
	m, err = c.Run(strategy.NewThreaded(strategy.PoolConfig{Workers: 4}), big)
	require.NoError(t, err)
	assert.Equal(t, 4, m.CoresUsed)
	assertComplete(t, m)

	_, err = time.Parse(TimestampLayout, m.Timestamp)
	assert.NoError(t, err)
}

func TestRunRejectsInvalidRange(t *testing.T) {
	_, err := NewCollector().Run(strategy.NewSequential(), compute.Range{Lower: 0, Upper: 10})
	assert.ErrorIs(t, err, compute.ErrInvalidRange)
}

func assertComplete(t *testing.T, m PerformanceMetrics) {
	t.Helper()
	assert.GreaterOrEqual(t, m.ExecutionTime, 0.0)
	assert.GreaterOrEqual(t, m.CPUTime, 0.0)
	assert.GreaterOrEqual(t, m.MemoryUsage, 0.0)
	assert.GreaterOrEqual(t, m.CPUUtilization, 0.0)
	assert.GreaterOrEqual(t, m.CoresUsed, 1)
	assert.NotEmpty(t, m.Timestamp)
}
