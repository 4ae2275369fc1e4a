package metrics

import "github.com/GriffinCanCode/perfcalc/internal/strategy"

// TimestampLayout is ISO-8601 local time with microseconds.
const TimestampLayout = "2006-01-02T15:04:05.000000"

// PerformanceMetrics describes one completed calculation.
type PerformanceMetrics struct {
	Timestamp      string        `json:"timestamp"`
	LowerBound     int64         `json:"lower_bound"`
	UpperBound     int64         `json:"upper_bound"`
	ProcessingMode strategy.Mode `json:"processing_mode"`
	ExecutionTime  float64       `json:"execution_time"`
	CPUTime        float64       `json:"cpu_time"`
	MemoryUsage    float64       `json:"memory_usage"`
	CPUUtilization float64       `json:"cpu_utilization"`
	ResultValue    float64       `json:"result_value"`
	CoresUsed      int           `json:"cores_used"`
}
