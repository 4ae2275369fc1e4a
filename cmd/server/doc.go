// Package main is the entry point for the perfcalc HTTP server.
//
// The server measures the reduction Σ 1/k² over user-supplied ranges under
// three execution models (sequential, goroutine pool, child processes) and
// keeps a history of the results.
//
// The server provides:
//   - REST API for calculations, result history and system info
//   - Prometheus metrics on /metrics
//   - Rate limiting, CORS and request tracing
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Production mode
//	./server --port 8080 --db ./performance_results.db
//
//	# Development mode (colored logs, debug level)
//	./server --dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
