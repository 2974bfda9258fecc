// Package http provides the relay daemon's plain-HTTP surface: the
// relay endpoint for clients that cannot hold a WebSocket open, plus
// health and metrics.
package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
)

// Handlers serves the relay daemon's HTTP endpoints.
type Handlers struct {
	executor *relay.Executor
	breaker  *resilience.Breaker
	metrics  *monitoring.Metrics
	logger   *logging.Logger
	started  time.Time
}

// NewHandlers creates the HTTP handler set.
func NewHandlers(executor *relay.Executor, breaker *resilience.Breaker, metrics *monitoring.Metrics, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handlers{executor: executor, breaker: breaker, metrics: metrics, logger: logger, started: time.Now()}
}

// Health reports daemon liveness and the upstream circuit state.
func (h *Handlers) Health(c *gin.Context) {
	upstream := "unknown"
	if h.breaker != nil {
		upstream = h.breaker.State().String()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"upstream": upstream,
		"uptime":   time.Since(h.started).Seconds(),
	})
}

// Metrics exposes Prometheus metrics.
func (h *Handlers) Metrics(c *gin.Context) {
	promhttp.Handler().ServeHTTP(c.Writer, c.Request)
}

// Relay performs one relayed call from a plain-HTTP client. The reply
// envelope matches the WebSocket protocol; the HTTP status of the
// daemon's own response stays 200 so the envelope is the single source
// of truth.
func (h *Handlers) Relay(c *gin.Context) {
	var req relay.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, relay.Response{Success: false, Error: "invalid request envelope"})
		return
	}

	data, err := h.executor.Do(c.Request.Context(), req)
	if err == nil {
		c.JSON(http.StatusOK, relay.Response{Success: true, Data: data})
		return
	}

	var httpErr *relay.HTTPError
	if errors.As(err, &httpErr) {
		c.JSON(http.StatusOK, relay.Response{
			Success: false,
			Error:   httpErr.Message,
			Status:  httpErr.Status,
		})
		return
	}

	c.JSON(http.StatusOK, relay.Response{Success: false, Error: err.Error()})
}
