// Package middleware provides gin middleware shared by the HTTP API:
// CORS and per-client rate limiting.
package middleware
