package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
	Calculation CalculationConfig
	Storage     StorageConfig
	Breaker     BreakerConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CalculationConfig bounds the work a single request may ask for.
type CalculationConfig struct {
	MaxWorkers int   `envconfig:"CALC_MAX_WORKERS" default:"8"`
	MaxSpan    int64 `envconfig:"CALC_MAX_SPAN" default:"10000000"`
}

// StorageConfig holds result history configuration.
type StorageConfig struct {
	Path    string `envconfig:"DB_PATH" default:"./performance_results.db"`
	Enabled bool   `envconfig:"DB_ENABLED" default:"true"`
}

// BreakerConfig tunes the circuit breaker around process spawning.
type BreakerConfig struct {
	Failures uint32        `envconfig:"BREAKER_FAILURES" default:"3"`
	Timeout  time.Duration `envconfig:"BREAKER_TIMEOUT" default:"30s"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the service cannot run with.
func (c *Config) Validate() error {
	if c.Calculation.MaxWorkers < 1 {
		return fmt.Errorf("invalid config: CALC_MAX_WORKERS must be >= 1, got %d", c.Calculation.MaxWorkers)
	}
	if c.Calculation.MaxSpan < 1 {
		return fmt.Errorf("invalid config: CALC_MAX_SPAN must be >= 1, got %d", c.Calculation.MaxSpan)
	}
	if c.Breaker.Failures < 1 {
		return fmt.Errorf("invalid config: BREAKER_FAILURES must be >= 1, got %d", c.Breaker.Failures)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		Calculation: CalculationConfig{
			MaxWorkers: 8,
			MaxSpan:    10_000_000,
		},
		Storage: StorageConfig{
			Path:    "./performance_results.db",
			Enabled: true,
		},
		Breaker: BreakerConfig{
			Failures: 3,
			Timeout:  30 * time.Second,
		},
	}
}
