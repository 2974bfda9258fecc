/*
Package monitoring provides Prometheus metrics for the relay daemon.

# Overview

The daemon tracks two surfaces: its own HTTP/WebSocket endpoints and
the upstream platform calls it relays. Keeping the two apart is what
makes the metrics useful; a slow upstream shows up in the relay series,
not as daemon latency.

# Metrics

  - relay_http_requests_total / relay_http_request_duration_seconds:
    the daemon's own endpoints
  - relay_upstream_calls_total / relay_upstream_duration_seconds /
    relay_upstream_errors_total: relayed platform calls
  - relay_ws_connections / relay_ws_messages_total: panel channels
  - relay_uptime_seconds: process uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))

	metrics.RecordRelayCall("GET", "ok", duration)

Metrics are exposed on the daemon's /metrics endpoint via promhttp.
*/
package monitoring
