// Package config provides 12-factor configuration management for the
// perfcalc service.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//   - Calculation: worker cap and maximum range span
//   - Storage: SQLite result history
//   - Breaker: circuit breaker around process spawning
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CALC_MAX_WORKERS, CALC_MAX_SPAN
//   - DB_PATH, DB_ENABLED
//   - BREAKER_FAILURES, BREAKER_TIMEOUT
package config
