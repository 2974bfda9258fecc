package ws

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
)

// callTimeout bounds one relayed platform call.
const callTimeout = 2 * time.Minute

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Panel origins are enforced by the CORS layer
	},
}

// Handler manages WebSocket relay connections.
type Handler struct {
	executor *relay.Executor
	metrics  *monitoring.Metrics
	logger   *logging.Logger
}

// NewHandler creates a new WebSocket relay handler.
func NewHandler(executor *relay.Executor, metrics *monitoring.Metrics, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Handler{executor: executor, metrics: metrics, logger: logger}
}

// HandleConnection handles WebSocket upgrade and the message loop.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	reqCtx := c.Request.Context()

	// Replies from concurrent calls interleave on one connection.
	var writeMu sync.Mutex
	send := func(reply relay.Reply) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Debug("WebSocket write failed", zap.Error(err))
		}
	}

	send(relay.Reply{Type: "system", Response: relay.Response{Success: true, Data: "relay ready"}})

	for {
		var msg relay.Message
		if err := conn.ReadJSON(&msg); err != nil {
			h.logger.Debug("WebSocket read ended", zap.Error(err))
			return
		}
		if h.metrics != nil {
			h.metrics.RecordWSMessage("in", msg.Type)
		}

		switch msg.Type {
		case relay.TypeAPIRequest:
			if msg.Payload == nil {
				send(relay.Reply{ID: msg.ID, Response: relay.Response{Success: false, Error: "missing payload"}})
				continue
			}
			// Calls run concurrently so a slow platform endpoint does
			// not head-of-line block the connection.
			go func(msg relay.Message) {
				send(h.execute(reqCtx, msg))
			}(msg)
		case relay.TypePing:
			send(relay.Reply{Type: relay.TypePong, ID: msg.ID, Response: relay.Response{Success: true}})
		default:
			h.logger.Debug("Unknown message type", zap.String("type", msg.Type))
			send(relay.Reply{ID: msg.ID, Response: relay.Response{Success: false, Error: "unknown message type"}})
		}
	}
}

// execute performs one relayed call and shapes the reply envelope.
func (h *Handler) execute(parent context.Context, msg relay.Message) relay.Reply {
	ctx, cancel := context.WithTimeout(parent, callTimeout)
	defer cancel()

	start := time.Now()
	data, err := h.executor.Do(ctx, *msg.Payload)
	method := msg.Payload.Method
	if method == "" {
		method = "GET"
	}

	if err == nil {
		if h.metrics != nil {
			h.metrics.RecordRelayCall(method, "ok", time.Since(start))
		}
		return relay.Reply{ID: msg.ID, Response: relay.Response{Success: true, Data: data}}
	}

	var httpErr *relay.HTTPError
	if errors.As(err, &httpErr) {
		if h.metrics != nil {
			h.metrics.RecordRelayCall(method, "http_error", time.Since(start))
		}
		return relay.Reply{ID: msg.ID, Response: relay.Response{
			Success: false,
			Error:   httpErr.Message,
			Status:  httpErr.Status,
		}}
	}

	if h.metrics != nil {
		h.metrics.RecordRelayError(method, "transport")
	}
	return relay.Reply{ID: msg.ID, Response: relay.Response{Success: false, Error: err.Error()}}
}
