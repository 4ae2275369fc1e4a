package strategy

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
)

// Mode names an execution model.
type Mode string

const (
	ModeSequential      Mode = "sequential"
	ModeThreading       Mode = "threading"
	ModeMultiprocessing Mode = "multiprocessing"
)

// Modes lists every supported mode in a stable order.
func Modes() []Mode {
	return []Mode{ModeSequential, ModeThreading, ModeMultiprocessing}
}

// ParseMode converts a processing_mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeSequential, ModeThreading, ModeMultiprocessing:
		return m, nil
	default:
		return "", fmt.Errorf("%w: %q", compute.ErrUnknownMode, s)
	}
}

func (m Mode) String() string { return string(m) }

// Result is the outcome of one strategy execution.
type Result struct {
	Value     float64
	CoresUsed int
	Chunks    int
}

// Strategy executes the reduction over a range.
type Strategy interface {
	Mode() Mode
	Execute(r compute.Range) (Result, error)
}

// New returns the strategy for mode using the given pool configuration.
func New(mode Mode, pool PoolConfig, logger *zap.Logger) (Strategy, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch mode {
	case ModeSequential:
		return NewSequential(), nil
	case ModeThreading:
		return NewThreaded(pool), nil
	case ModeMultiprocessing:
		return NewProcess(pool, logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", compute.ErrUnknownMode, string(mode))
	}
}

// sumInOrder adds partials in ascending chunk index.
func sumInOrder(partials []float64) float64 {
	var sum float64
	for _, v := range partials {
		sum += v
	}
	return sum
}
