package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCalculation(t *testing.T) {
	m := NewMetrics()

	m.RecordCalculation("threading", 0.5, 2.0, 1.5, 8)
	m.RecordCalculation("threading", 0.4, 1.8, 1.2, 8)
	m.RecordCalculationError("multiprocessing", "spawn")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("threading", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("multiprocessing", "spawn")))
	assert.Equal(t, 1.2, testutil.ToFloat64(m.CalculationMemory.WithLabelValues("threading")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.CoresUsed.WithLabelValues("threading")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Calculations["threading"])
	assert.Equal(t, int64(1), snap.FailedCalculation)
}

func TestIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordCalculation("sequential", 0.1, 0.1, 0, 1)
	assert.Equal(t, 0.0, testutil.ToFloat64(b.CalculationsTotal.WithLabelValues("sequential", "success")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/ping", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "perfcalc_http_requests_total")
	assert.Contains(t, w.Body.String(), "perfcalc_uptime_seconds")

	snap := m.Snapshot()
	assert.Equal(t, int64(5), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.TotalErrors)
}
