package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/config"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/logging"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/server"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
)

func main() {
	// Child processes of the multiprocessing strategy re-enter here.
	strategy.ServeWorkerIfRequested()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	flags := pflag.NewFlagSet("server", pflag.ExitOnError)
	port := flags.String("port", cfg.Server.Port, "Server port")
	host := flags.String("host", cfg.Server.Host, "Listen address")
	dbPath := flags.String("db", cfg.Storage.Path, "SQLite result database path")
	noDB := flags.Bool("no-db", !cfg.Storage.Enabled, "Disable result storage")
	workers := flags.Int("max-workers", cfg.Calculation.MaxWorkers, "Maximum parallel workers per calculation")
	dev := flags.Bool("dev", cfg.Logging.Development, "Development mode (colored logs, debug level)")
	level := flags.String("log-level", cfg.Logging.Level, "Log level: debug, info, warn, error")
	_ = flags.Parse(os.Args[1:])

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Storage.Path = *dbPath
	cfg.Storage.Enabled = !*noDB
	cfg.Calculation.MaxWorkers = *workers
	cfg.Logging.Development = *dev
	cfg.Logging.Level = *level
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := srv.Run(ctx)
	if ctx.Err() != nil {
		logger.Info("Shutting down gracefully...")
	}
	if err := srv.Close(); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}
	if runErr != nil {
		logger.Fatal("Server error", zap.Error(runErr))
	}
}
