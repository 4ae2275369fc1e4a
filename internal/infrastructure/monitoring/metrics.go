package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics of the service. Each instance owns
// its registry so several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Calculation metrics
	CalculationsTotal   *prometheus.CounterVec
	CalculationDuration *prometheus.HistogramVec
	CalculationCPU      *prometheus.HistogramVec
	CalculationMemory   *prometheus.GaugeVec
	CalculationsActive  prometheus.Gauge
	CoresUsed           *prometheus.GaugeVec

	// Breaker metrics
	BreakerState *prometheus.GaugeVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot Snapshot
	mu       sync.RWMutex
}

// Snapshot holds running totals for the health endpoint.
type Snapshot struct {
	TotalRequests     int64            `json:"total_requests"`
	TotalErrors       int64            `json:"total_errors"`
	Calculations      map[string]int64 `json:"calculations"`
	FailedCalculation int64            `json:"failed_calculations"`
	UptimeSeconds     float64          `json:"uptime_seconds"`
}

// NewMetrics creates a metrics set registered on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),
		snapshot:  Snapshot{Calculations: make(map[string]int64)},

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfcalc_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "perfcalc_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CalculationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "perfcalc_calculations_total",
				Help: "Total number of calculations by processing mode and outcome",
			},
			[]string{"mode", "status"},
		),
		CalculationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "perfcalc_calculation_duration_seconds",
				Help:    "Wall-clock execution time of successful calculations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
			},
			[]string{"mode"},
		),
		CalculationCPU: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "perfcalc_calculation_cpu_seconds",
				Help:    "CPU time consumed by successful calculations",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
			},
			[]string{"mode"},
		),
		CalculationMemory: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "perfcalc_calculation_memory_mib",
				Help: "Peak traced memory of the last calculation per mode",
			},
			[]string{"mode"},
		),
		CalculationsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "perfcalc_calculations_active",
				Help: "Number of calculations currently running",
			},
		),
		CoresUsed: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "perfcalc_cores_used",
				Help: "Degree of parallelism of the last calculation per mode",
			},
			[]string{"mode"},
		),

		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "perfcalc_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "perfcalc_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())

	m.mu.Lock()
	m.snapshot.TotalRequests++
	if status[0] == '4' || status[0] == '5' {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordCalculation records a successful calculation.
func (m *Metrics) RecordCalculation(mode string, execution, cpu, memoryMiB float64, cores int) {
	m.CalculationsTotal.WithLabelValues(mode, "success").Inc()
	m.CalculationDuration.WithLabelValues(mode).Observe(execution)
	m.CalculationCPU.WithLabelValues(mode).Observe(cpu)
	m.CalculationMemory.WithLabelValues(mode).Set(memoryMiB)
	m.CoresUsed.WithLabelValues(mode).Set(float64(cores))

	m.mu.Lock()
	m.snapshot.Calculations[mode]++
	m.mu.Unlock()
}

// RecordCalculationError records a failed calculation.
func (m *Metrics) RecordCalculationError(mode, errorType string) {
	m.CalculationsTotal.WithLabelValues(mode, errorType).Inc()

	m.mu.Lock()
	m.snapshot.FailedCalculation++
	m.mu.Unlock()
}

// SetBreakerState publishes the state of a circuit breaker.
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// Snapshot returns a copy of the running totals.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := m.snapshot
	s.Calculations = make(map[string]int64, len(m.snapshot.Calculations))
	for k, v := range m.snapshot.Calculations {
		s.Calculations[k] = v
	}
	s.UptimeSeconds = time.Since(m.startTime).Seconds()
	return s
}
