package relay

import "context"

// Message types exchanged over the relay channel.
const (
	TypeAPIRequest = "API_REQUEST"
	TypePing       = "ping"
	TypePong       = "pong"
)

// Request describes one HTTP call to perform on the caller's behalf.
type Request struct {
	URL     string            `json:"url" binding:"required"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    interface{}       `json:"body,omitempty"`
}

// Response is the normalized success/error envelope returned to callers.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Status  int         `json:"status,omitempty"`
}

// Message is the request envelope sent over the channel.
type Message struct {
	Type    string   `json:"type"`
	ID      string   `json:"id,omitempty"`
	Payload *Request `json:"payload,omitempty"`
}

// Reply is the response envelope, correlated to a Message by ID.
type Reply struct {
	Type string `json:"type,omitempty"`
	ID   string `json:"id,omitempty"`
	Response
}

// Port is the asynchronous pass-through the panel depends on. Do
// returns the parsed response body on success; failures are *HTTPError,
// *NonJSONError, or ErrChannelClosed.
type Port interface {
	Do(ctx context.Context, req Request) (interface{}, error)
}

// TokenSource reports the current session credential, if any.
type TokenSource func() (string, bool)

// WithSession wraps a port so every request carries the session header
// without individual call sites repeating it. Caller-supplied headers
// win over the injected one.
func WithSession(port Port, source TokenSource) Port {
	return &sessionPort{port: port, source: source}
}

type sessionPort struct {
	port   Port
	source TokenSource
}

func (p *sessionPort) Do(ctx context.Context, req Request) (interface{}, error) {
	token, ok := p.source()
	if ok && token != "" {
		headers := make(map[string]string, len(req.Headers)+1)
		headers[SessionHeader] = token
		for k, v := range req.Headers {
			headers[k] = v
		}
		req.Headers = headers
	}
	return p.port.Do(ctx, req)
}
