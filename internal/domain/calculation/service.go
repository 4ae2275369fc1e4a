package calculation

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/perfcalc/internal/metrics"
	"github.com/GriffinCanCode/perfcalc/internal/shared/id"
	"github.com/GriffinCanCode/perfcalc/internal/storage"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

const breakerName = "multiprocessing"

// Store persists completed calculations.
type Store interface {
	Save(ctx context.Context, calculationID string, m metrics.PerformanceMetrics) (storage.Record, error)
}

// Recorder receives calculation telemetry.
type Recorder interface {
	RecordCalculation(mode string, execution, cpu, memoryMiB float64, cores int)
	RecordCalculationError(mode, errorType string)
	SetBreakerState(name string, state int)
}

// Options bounds and tunes calculations.
type Options struct {
	MaxWorkers      int
	MaxSpan         int64
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultOptions returns the service defaults.
func DefaultOptions() Options {
	return Options{
		MaxWorkers:      strategy.MaxWorkers,
		MaxSpan:         DefaultMaxSpan,
		BreakerFailures: 3,
		BreakerTimeout:  30 * time.Second,
	}
}

// Outcome is a completed calculation.
type Outcome struct {
	ID       id.CalculationID
	RecordID int64
	Metrics  metrics.PerformanceMetrics
}

// Service runs calculations.
type Service struct {
	opts      Options
	logger    *zap.Logger
	collector *metrics.Collector
	breaker   *resilience.Breaker
	store     Store
	recorder  Recorder

	newStrategy func(strategy.Mode, strategy.PoolConfig, *zap.Logger) (strategy.Strategy, error)
}

// NewService creates a calculation service.
func NewService(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = strategy.MaxWorkers
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = 3
	}

	s := &Service{
		opts:        opts,
		logger:      logger,
		collector:   metrics.NewCollector(),
		newStrategy: strategy.New,
	}
	s.breaker = resilience.New(breakerName, resilience.Settings{
		Timeout: opts.BreakerTimeout,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		IsFailure: func(err error) bool {
			return errors.Is(err, compute.ErrWorkerSpawn)
		},
		OnStateChange: s.breakerStateChanged,
	})
	return s
}

// WithStore persists every successful calculation to st.
func (s *Service) WithStore(st Store) *Service {
	s.store = st
	return s
}

// WithMetrics reports calculations to r.
func (s *Service) WithMetrics(r Recorder) *Service {
	s.recorder = r
	if r != nil {
		r.SetBreakerState(breakerName, int(s.breaker.State()))
	}
	return s
}

// Breaker exposes the breaker guarding process spawning.
func (s *Service) Breaker() *resilience.Breaker {
	return s.breaker
}

// Pool returns the worker pool used for parallel modes.
func (s *Service) Pool() strategy.PoolConfig {
	return strategy.PoolConfigWithCap(s.opts.MaxWorkers)
}

// Calculate validates req, runs it and stores the record. Validation
// failures are returned as *ValidationError; nothing runs in that case.
func (s *Service) Calculate(ctx context.Context, req Request) (Outcome, error) {
	r, mode, err := req.Validate(s.opts.MaxSpan)
	if err != nil {
		return Outcome{}, err
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	calcID := id.NewCalculationID()
	logger := s.logger.With(
		zap.String("calculation_id", calcID.String()),
		zap.String("mode", mode.String()),
		zap.Int64("lower", r.Lower),
		zap.Int64("upper", r.Upper),
	)
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		logger = logger.With(zap.String("trace_id", traceID.String()))
	}

	strat, err := s.newStrategy(mode, s.Pool(), logger)
	if err != nil {
		return Outcome{}, err
	}

	logger.Info("calculation started")
	start := time.Now()

	m, err := s.run(strat, r)
	if err != nil {
		logger.Error("calculation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		s.recordError(mode, err)
		return Outcome{}, err
	}

	logger.Info("calculation completed",
		zap.Duration("duration", time.Since(start)),
		zap.Float64("result", m.ResultValue),
		zap.Float64("cpu_time", m.CPUTime),
		zap.Float64("memory_mib", m.MemoryUsage),
		zap.Int("cores_used", m.CoresUsed),
	)
	if s.recorder != nil {
		s.recorder.RecordCalculation(mode.String(), m.ExecutionTime, m.CPUTime, m.MemoryUsage, m.CoresUsed)
	}

	out := Outcome{ID: calcID, Metrics: m}
	if s.store != nil {
		// The record outlives the request.
		rec, err := s.store.Save(context.WithoutCancel(ctx), calcID.String(), m)
		if err != nil {
			logger.Error("failed to store result", zap.Error(err))
			s.recordError(mode, err)
			return Outcome{}, err
		}
		out.RecordID = rec.ID
	}
	return out, nil
}

func (s *Service) run(strat strategy.Strategy, r compute.Range) (metrics.PerformanceMetrics, error) {
	if strat.Mode() != strategy.ModeMultiprocessing {
		return s.collector.Run(strat, r)
	}

	var m metrics.PerformanceMetrics
	err := s.breaker.Execute(func() error {
		var runErr error
		m, runErr = s.collector.Run(strat, r)
		return runErr
	})
	return m, err
}

func (s *Service) recordError(mode strategy.Mode, err error) {
	if s.recorder != nil {
		s.recorder.RecordCalculationError(mode.String(), ErrorType(err))
	}
}

func (s *Service) breakerStateChanged(name string, from, to resilience.State) {
	s.logger.Warn("circuit breaker state changed",
		zap.String("breaker", name),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
	if s.recorder != nil {
		s.recorder.SetBreakerState(name, int(to))
	}
}

// ErrorType classifies err for metric labels.
func ErrorType(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return "invalid_request"
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return "circuit_open"
	case errors.Is(err, compute.ErrWorkerSpawn):
		return "spawn_error"
	case errors.Is(err, compute.ErrWorkerExecution):
		return "execution_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}
