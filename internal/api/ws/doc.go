// Package ws serves the relay protocol over WebSocket.
//
// A panel opens one connection and sends request envelopes; the
// handler performs each platform call through the relay executor and
// writes back the correlated success/error envelope.
//
// Message Types (Client → Server):
//   - API_REQUEST: perform one HTTP call, payload {url, method, headers, body}
//   - ping: keep-alive ping
//
// Message Types (Server → Client):
//   - system: connection established
//   - pong: ping reply
//   - correlated replies: {id, success, data} or {id, success: false, error, status}
//
// Example Usage:
//
//	handler := ws.NewHandler(executor, metrics, logger)
//	router.GET("/relay", handler.HandleConnection)
package ws
