// Package http provides the gin handlers of the calculation API.
//
// Routes:
//   - POST /api/calculate: run one measured calculation
//   - GET  /api/results: stored results, newest first
//   - GET  /api/results/summary: per-mode statistics
//   - GET  /api/system-info: host CPU, memory and platform
//   - GET  /health: liveness plus running totals
//
// Error bodies carry a "detail" message suitable for clients.
package http
