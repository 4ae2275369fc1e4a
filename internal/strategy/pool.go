package strategy

import "runtime"

// MaxWorkers caps the parallelism of every strategy.
const MaxWorkers = 8

// PoolConfig sizes the worker pool of one calculation.
type PoolConfig struct {
	Workers int
}

// DefaultPoolConfig returns min(runtime.NumCPU(), MaxWorkers) workers.
func DefaultPoolConfig() PoolConfig {
	return PoolConfigWithCap(MaxWorkers)
}

// PoolConfigWithCap returns min(runtime.NumCPU(), limit) workers, at least one.
func PoolConfigWithCap(limit int) PoolConfig {
	n := runtime.NumCPU()
	if limit > 0 && n > limit {
		n = limit
	}
	if n < 1 {
		n = 1
	}
	return PoolConfig{Workers: n}
}

func (p PoolConfig) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}
