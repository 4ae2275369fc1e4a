package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/perfcalc/internal/domain/calculation"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/perfcalc/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/perfcalc/internal/storage"
	"github.com/GriffinCanCode/perfcalc/internal/strategy"
	"github.com/GriffinCanCode/perfcalc/internal/sysinfo"
)

const (
	serviceName    = "perfcalc"
	serviceVersion = "1.0.0"
)

// Calculator runs calculations.
type Calculator interface {
	Calculate(ctx context.Context, req calculation.Request) (calculation.Outcome, error)
	Breaker() *resilience.Breaker
}

// ResultStore reads stored results.
type ResultStore interface {
	List(ctx context.Context, q storage.Query) ([]storage.Record, int, error)
	Summary(ctx context.Context) ([]storage.ModeSummary, error)
}

// SystemInfo describes the host.
type SystemInfo interface {
	Collect() sysinfo.Info
}

// Handlers contains all HTTP handlers
type Handlers struct {
	calc    Calculator
	results ResultStore
	system  SystemInfo
	metrics *monitoring.Metrics
	logger  *zap.Logger
}

// NewHandlers creates a new handler set. results may be nil when result
// storage is disabled.
func NewHandlers(calc Calculator, results ResultStore, system SystemInfo, metrics *monitoring.Metrics, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		calc:    calc,
		results: results,
		system:  system,
		metrics: metrics,
		logger:  logger,
	}
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.POST("/calculate", h.Calculate)
	api.GET("/results", h.ListResults)
	api.GET("/results/summary", h.ResultsSummary)
	api.GET("/system-info", h.SystemInfo)
}

// Root reports the service identity
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":  "healthy",
		"storage": gin.H{"enabled": h.results != nil},
		"breaker": gin.H{"state": h.calc.Breaker().State().String()},
	}
	if h.metrics != nil {
		body["metrics"] = h.metrics.Snapshot()
	}
	c.JSON(http.StatusOK, body)
}

// Calculate runs one calculation and returns its metrics
func (h *Handlers) Calculate(c *gin.Context) {
	var req calculation.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			abortWithDetail(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		abortWithDetail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	outcome, err := h.calc.Calculate(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		status, detail := classify(err)
		if status >= http.StatusInternalServerError {
			h.logger.Warn("calculation request failed",
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		abortWithDetail(c, status, detail)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics":        outcome.Metrics,
		"success":        true,
		"message":        "Calculation completed successfully",
		"calculation_id": outcome.ID,
	})
}

// ListResults pages through stored results
func (h *Handlers) ListResults(c *gin.Context) {
	if h.results == nil {
		abortWithDetail(c, http.StatusServiceUnavailable, "Result storage is disabled")
		return
	}

	limit, err := intQuery(c, "limit", storage.DefaultLimit)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	q := storage.Query{Limit: limit, Offset: offset}
	if raw := c.Query("processing_mode"); raw != "" {
		mode, err := strategy.ParseMode(raw)
		if err != nil {
			abortWithDetail(c, http.StatusBadRequest, "Invalid processing mode")
			return
		}
		q.Mode = mode
	}
	q = q.Normalize()

	records, total, err := h.results.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		abortWithDetail(c, http.StatusInternalServerError, "Failed to load results: "+err.Error())
		return
	}

	var filter any
	if q.Mode != "" {
		filter = gin.H{"processing_mode": q.Mode}
	}

	c.JSON(http.StatusOK, gin.H{
		"results":     records,
		"total_count": total,
		"offset":      q.Offset,
		"limit":       q.Limit,
		"filter":      filter,
	})
}

// ResultsSummary reports per-mode statistics
func (h *Handlers) ResultsSummary(c *gin.Context) {
	if h.results == nil {
		abortWithDetail(c, http.StatusServiceUnavailable, "Result storage is disabled")
		return
	}

	summary, err := h.results.Summary(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		abortWithDetail(c, http.StatusInternalServerError, "Failed to summarize results: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

// SystemInfo reports host facts
func (h *Handlers) SystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, h.system.Collect())
}

// classify maps a calculation error to a status code and client message.
func classify(err error) (int, string) {
	var verr *calculation.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Message
	case errors.Is(err, resilience.ErrCircuitOpen), errors.Is(err, resilience.ErrTooManyRequests):
		return http.StatusServiceUnavailable, "Multiprocessing temporarily unavailable: " + err.Error()
	default:
		return http.StatusInternalServerError, "Calculation failed: " + err.Error()
	}
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": detail})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s: must be a non-negative integer", key)
	}
	return v, nil
}
