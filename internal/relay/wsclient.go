package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
)

// Client is a Port backed by a WebSocket connection to the relay
// daemon. Replies are correlated to requests by envelope ID, so calls
// may overlap freely on one connection.
type Client struct {
	conn   *websocket.Conn
	logger *logging.Logger

	writeMu sync.Mutex

	pendingMu sync.Mutex
	pending   map[string]chan Reply

	done      chan struct{}
	closeOnce sync.Once
}

// Dial connects to a relay daemon at the given ws:// or wss:// URL.
func Dial(ctx context.Context, url string, logger *logging.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewDefault()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial relay: %w", err)
	}

	c := &Client{
		conn:    conn,
		logger:  logger,
		pending: make(map[string]chan Reply),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Do sends the request over the channel and waits for its reply.
func (c *Client) Do(ctx context.Context, req Request) (interface{}, error) {
	id := uuid.NewString()
	ch := make(chan Reply, 1)

	c.pendingMu.Lock()
	c.pending[id] = ch
	c.pendingMu.Unlock()

	msg := Message{Type: TypeAPIRequest, ID: id, Payload: &req}

	c.writeMu.Lock()
	err := c.conn.WriteJSON(msg)
	c.writeMu.Unlock()
	if err != nil {
		c.discard(id)
		return nil, ErrChannelClosed
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return nil, ErrChannelClosed
		}
		if reply.Success {
			return reply.Data, nil
		}
		if reply.Status != 0 {
			return nil, &HTTPError{Status: reply.Status, Message: reply.Error}
		}
		return nil, fmt.Errorf("relay: %s", reply.Error)
	case <-ctx.Done():
		c.discard(id)
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrChannelClosed
	}
}

// Close tears down the connection. Outstanding calls fail with
// ErrChannelClosed.
func (c *Client) Close() error {
	c.teardown()
	return nil
}

func (c *Client) readLoop() {
	defer c.teardown()
	for {
		var reply Reply
		if err := c.conn.ReadJSON(&reply); err != nil {
			c.logger.Debug("Relay channel read ended", zap.Error(err))
			return
		}
		if reply.ID == "" {
			// System/pong messages carry no correlation ID.
			continue
		}

		c.pendingMu.Lock()
		ch, ok := c.pending[reply.ID]
		if ok {
			delete(c.pending, reply.ID)
		}
		c.pendingMu.Unlock()

		if ok {
			ch <- reply
		}
	}
}

func (c *Client) discard(id string) {
	c.pendingMu.Lock()
	delete(c.pending, id)
	c.pendingMu.Unlock()
}

func (c *Client) teardown() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.conn.Close()

		c.pendingMu.Lock()
		for id, ch := range c.pending {
			delete(c.pending, id)
			close(ch)
		}
		c.pendingMu.Unlock()
	})
}
