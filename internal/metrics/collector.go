package metrics

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/perfcalc/internal/compute"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

const bytesPerMiB = 1 << 20

// sampler is a point-in-time CPU utilization probe.
type sampler interface {
	Sample() (float64, error)
}

// tracer follows memory use between Start and Stop.
type tracer interface {
	Start()
	Stop() uint64
}

// Collector wraps strategy executions with timing, CPU, memory and
// utilization instrumentation.
type Collector struct {
	now        func() time.Time
	cpuTime    func() (time.Duration, error)
	newSampler func() sampler
	newTracer  func() tracer
}

// NewCollector creates a collector backed by the host process.
func NewCollector() *Collector {
	return &Collector{
		now:        time.Now,
		cpuTime:    processCPUTime,
		newSampler: func() sampler { return NewCPUSampler() },
		newTracer:  func() tracer { return NewMemoryTracer(DefaultTraceInterval) },
	}
}

// Run measures s executing r.
func (c *Collector) Run(s strategy.Strategy, r compute.Range) (PerformanceMetrics, error) {
	return c.Measure(s.Mode(), r, func() (strategy.Result, error) {
		return s.Execute(r)
	})
}

// Measure instruments run. When run fails no record is produced and the
// error is returned unchanged.
func (c *Collector) Measure(mode strategy.Mode, r compute.Range, run func() (strategy.Result, error)) (PerformanceMetrics, error) {
	cpuSampler := c.newSampler()
	memTracer := c.newTracer()

	memTracer.Start()
	startWall := c.now()
	startCPU, cpuErr := c.cpuTime()
	baseline, sampleErr := cpuSampler.Sample()

	res, runErr := run()

	endWall := c.now()
	endCPU, endCPUErr := c.cpuTime()
	peak := memTracer.Stop()
	end, endSampleErr := cpuSampler.Sample()

	if runErr != nil {
		return PerformanceMetrics{}, runErr
	}
	if err := firstError(cpuErr, endCPUErr); err != nil {
		return PerformanceMetrics{}, fmt.Errorf("measure cpu time: %w", err)
	}
	if err := firstError(sampleErr, endSampleErr); err != nil {
		return PerformanceMetrics{}, fmt.Errorf("sample cpu utilization: %w", err)
	}

	cpuTime := (endCPU - startCPU).Seconds()
	if cpuTime < 0 {
		cpuTime = 0
	}
	execTime := endWall.Sub(startWall).Seconds()
	if execTime < 0 {
		execTime = 0
	}

	return PerformanceMetrics{
		Timestamp:      endWall.Format(TimestampLayout),
		LowerBound:     r.Lower,
		UpperBound:     r.Upper,
		ProcessingMode: mode,
		ExecutionTime:  execTime,
		CPUTime:        cpuTime,
		MemoryUsage:    float64(peak) / bytesPerMiB,
		CPUUtilization: max(baseline, end),
		ResultValue:    res.Value,
		CoresUsed:      res.CoresUsed,
	}, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
