package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/api/http"
	"github.com/GriffinCanCode/perfcalc/internal/api/middleware"
	"github.com/GriffinCanCode/perfcalc/internal/domain/calculation"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/config"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/logging"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/perfcalc/internal/storage"
	"github.com/GriffinCanCode/perfcalc/internal/sysinfo"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	http    *nethttp.Server
	service *calculation.Service
	store   *storage.Store
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)
	}

	logger.Info("Initializing perfcalc server",
		zap.String("port", cfg.Server.Port),
		zap.Int("max_workers", cfg.Calculation.MaxWorkers),
		zap.Bool("storage", cfg.Storage.Enabled),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	tracer := tracing.New("perfcalc", logger.Component("tracing"))

	var store *storage.Store
	if cfg.Storage.Enabled {
		s, err := storage.Open(cfg.Storage.Path)
		if err != nil {
			tracer.Close()
			return nil, fmt.Errorf("failed to open result storage: %w", err)
		}
		store = s
		logger.Info("Result storage opened", zap.String("path", cfg.Storage.Path))
	}

	service := calculation.NewService(calculation.Options{
		MaxWorkers:      cfg.Calculation.MaxWorkers,
		MaxSpan:         cfg.Calculation.MaxSpan,
		BreakerFailures: cfg.Breaker.Failures,
		BreakerTimeout:  cfg.Breaker.Timeout,
	}, logger.Component("calculation")).WithMetrics(metrics)
	if store != nil {
		service.WithStore(store)
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	router.Use(middleware.BodyLimit(middleware.MaxBodyBytes))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	var results http.ResultStore
	if store != nil {
		results = store
	}
	handlers := http.NewHandlers(service, results, sysinfo.NewSource(), metrics, logger.Component("http"))
	handlers.Register(router)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	logger.Info("Server initialized successfully")

	return &Server{
		router: router,
		http: &nethttp.Server{
			Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		service: service,
		store:   store,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() nethttp.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until ctx is done, then shuts it
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}

// Close releases storage and tracing resources
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.tracer.Close()

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.logger.Error("Failed to close result storage", zap.Error(err))
			return fmt.Errorf("failed to close result storage: %w", err)
		}
		s.logger.Info("Closed result storage")
	}

	// Sync logger before exit
	_ = s.logger.Sync()

	return nil
}
