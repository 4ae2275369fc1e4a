package storage

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/perfcalc/internal/metrics"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(mode strategy.Mode, exec float64) metrics.PerformanceMetrics {
	return metrics.PerformanceMetrics{
		Timestamp:      "2025-03-04T05:06:07.000000",
		LowerBound:     1,
		UpperBound:     1000,
		ProcessingMode: mode,
		ExecutionTime:  exec,
		CPUTime:        exec / 2,
		MemoryUsage:    0.25,
		CPUUtilization: 50,
		ResultValue:    1.6439345666815615,
		CoresUsed:      4,
	}
}

func TestSaveAndList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.Save(ctx, "calc_1", sample(strategy.ModeSequential, 1))
	require.NoError(t, err)
	second, err := s.Save(ctx, "calc_2", sample(strategy.ModeThreading, 2))
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	records, total, err := s.List(ctx, Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, records, 2)

	// Newest first
	assert.Equal(t, second.ID, records[0].ID)
	assert.Equal(t, "calc_2", records[0].CalculationID)
	assert.Equal(t, sample(strategy.ModeThreading, 2), records[0].PerformanceMetrics)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestListFilterAndPaging(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Save(ctx, "", sample(strategy.ModeMultiprocessing, float64(i)))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "", sample(strategy.ModeSequential, 9))
	require.NoError(t, err)

	records, total, err := s.List(ctx, Query{Mode: strategy.ModeMultiprocessing, Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, records, 2)
	assert.Equal(t, 3.0, records[0].ExecutionTime)
	assert.Equal(t, 2.0, records[1].ExecutionTime)

	records, total, err = s.List(ctx, Query{Mode: strategy.ModeThreading})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, records)
}

func TestQueryNormalize(t *testing.T) {
	assert.Equal(t, Query{Limit: DefaultLimit}, Query{Limit: -1, Offset: -4}.Normalize())
	assert.Equal(t, MaxLimit, Query{Limit: MaxLimit + 1}.Normalize().Limit)
	assert.Equal(t, 7, Query{Limit: 7}.Normalize().Limit)
}

func TestSummary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, exec := range []float64{1, 2, 3} {
		_, err := s.Save(ctx, "", sample(strategy.ModeThreading, exec))
		require.NoError(t, err)
	}
	_, err := s.Save(ctx, "", sample(strategy.ModeSequential, 4))
	require.NoError(t, err)

	summaries, err := s.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Ordered like strategy.Modes()
	seq, thr := summaries[0], summaries[1]
	assert.Equal(t, strategy.ModeSequential, seq.Mode)
	assert.Equal(t, 1, seq.Count)
	assert.Equal(t, 4.0, seq.MeanExecutionTime)
	assert.Zero(t, seq.StdExecutionTime)

	assert.Equal(t, strategy.ModeThreading, thr.Mode)
	assert.Equal(t, 3, thr.Count)
	assert.InDelta(t, 2.0, thr.MeanExecutionTime, 1e-12)
	assert.InDelta(t, 1.0, thr.StdExecutionTime, 1e-12)
	assert.InDelta(t, 1.0, thr.MeanCPUTime, 1e-12)
	assert.InDelta(t, 50.0, thr.MeanCPUUtil, 1e-12)
}

func TestReopenKeepsResults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "results.db")
	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.Save(context.Background(), "", sample(strategy.ModeSequential, 1))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, total, err := s.List(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestClosedStore(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Save(context.Background(), "", sample(strategy.ModeSequential, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, _, err = s.List(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Summary(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Close(), ErrClosed)
}

func TestCloseWhileInUse(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)

	ctx := context.Background()
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				// Calls racing Close either succeed or fail cleanly.
				_, _ = s.Save(ctx, "", sample(strategy.ModeThreading, 1))
				_, _, _ = s.List(ctx, Query{})
			}
		}()
	}

	require.NoError(t, s.Close())
	wg.Wait()

	_, err = s.Save(ctx, "", sample(strategy.ModeThreading, 1))
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Close(), ErrClosed)
}
