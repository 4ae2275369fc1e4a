// Package metrics instruments one strategy execution and produces the
// PerformanceMetrics record returned to callers.
//
// Measurements:
//   - execution_time: wall clock around the strategy call
//   - cpu_time: getrusage(2) user+system time of this process and of every
//     reaped child, so process workers are accounted for
//   - memory_usage: peak live heap above the starting baseline, in MiB
//   - cpu_utilization: max of two point samples of process CPU percent
//
// A record is produced only when the strategy succeeds.
package metrics
