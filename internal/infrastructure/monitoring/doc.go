/*
Package monitoring exposes Prometheus metrics for the service.

# Overview

Every Metrics value owns a private registry carrying the Go runtime and
process collectors plus the service metrics:

- HTTP request counts and latency by route template
- Calculation counts by mode and outcome
- Execution time and CPU time histograms by mode
- Peak memory and cores used of the last calculation per mode
- Circuit breaker state

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordCalculation("threading", 0.12, 0.9, 0.01, 8)
*/
package monitoring
