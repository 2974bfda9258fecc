package http

import (
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/relay/client"
)

func newRouter(breaker *resilience.Breaker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	c := client.New()
	c.SetRetry(0, time.Millisecond, time.Millisecond)
	handlers := NewHandlers(relay.NewExecutor(c, nil), breaker, nil, nil)

	router := gin.New()
	router.GET("/health", handlers.Health)
	router.POST("/api/relay", handlers.Relay)
	return router
}

func TestHealthReportsUpstreamState(t *testing.T) {
	router := newRouter(resilience.New(resilience.Settings{}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, nethttp.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "closed", body["upstream"])
}

func TestRelayEndpointEnvelope(t *testing.T) {
	upstream := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"objects":[]}`) //nolint:errcheck
	}))
	defer upstream.Close()

	router := newRouter(nil)

	payload := `{"url":"` + upstream.URL + `","method":"GET"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/relay", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, nethttp.StatusOK, rec.Code)
	var resp relay.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestRelayEndpointUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(nethttp.StatusUnauthorized)
		io.WriteString(w, `{"message":"Invalid session"}`) //nolint:errcheck
	}))
	defer upstream.Close()

	router := newRouter(nil)

	payload := `{"url":"` + upstream.URL + `"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/relay", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	// The daemon's own status stays 200; the envelope carries the error.
	require.Equal(t, nethttp.StatusOK, rec.Code)
	var resp relay.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.Status)
	assert.Equal(t, "Invalid session", resp.Error)
}

func TestRelayEndpointRejectsBadEnvelope(t *testing.T) {
	router := newRouter(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/relay", strings.NewReader(`{"method":"GET"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, nethttp.StatusBadRequest, rec.Code)
}
