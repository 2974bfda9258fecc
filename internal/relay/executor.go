package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/InfaPanel/internal/relay/client"
)

// SessionHeader carries the platform session credential.
const SessionHeader = "INFA-SESSION-ID"

// Executor performs relay requests in-process. It is the "local" Port:
// privileged callers and the relay daemon both use it directly.
type Executor struct {
	client  *client.Client
	breaker *resilience.Breaker
	logger  *logging.Logger
}

// NewExecutor creates an executor over the shared HTTP client.
func NewExecutor(c *client.Client, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Executor{client: c, logger: logger}
}

// Guard routes upstream calls through a circuit breaker.
func (e *Executor) Guard(b *resilience.Breaker) {
	e.breaker = b
}

// Do forwards the request essentially verbatim and normalizes the
// response. 2xx returns the parsed body; non-2xx returns *HTTPError
// with a best-effort extracted message.
func (e *Executor) Do(ctx context.Context, req Request) (interface{}, error) {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = "GET"
	}

	r, err := e.client.Request(ctx)
	if err != nil {
		return nil, err
	}

	if len(req.Headers) > 0 {
		r.SetHeaders(req.Headers)
	}

	// The platform expects string bodies on mutating verbs.
	if req.Body != nil && (method == "POST" || method == "PUT" || method == "PATCH") {
		switch body := req.Body.(type) {
		case string:
			r.SetBody(body)
		default:
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			r.SetBody(string(encoded))
			if _, ok := req.Headers["Content-Type"]; !ok {
				r.SetHeader("Content-Type", "application/json")
			}
		}
	}

	resp, err := e.execute(r, method, req.URL)
	if err != nil {
		e.logger.Warn("Relay request failed",
			zap.String("method", method),
			zap.String("url", req.URL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	contentType := resp.Header().Get("Content-Type")
	parsed, parseErr := classify(contentType, resp.Body())

	if resp.IsSuccess() {
		if parseErr != nil {
			return nil, parseErr
		}
		return parsed, nil
	}

	return nil, &HTTPError{
		Status:  resp.StatusCode(),
		Message: errorMessage(parsed, resp.StatusCode()),
	}
}

// execute performs the HTTP round trip, through the breaker when one
// is configured. Only transport failures count against the breaker; an
// error status from the upstream is still an answer.
func (e *Executor) execute(r *resty.Request, method, url string) (*resty.Response, error) {
	if e.breaker == nil {
		return r.Execute(method, url)
	}
	result, err := e.breaker.Do(func() (interface{}, error) {
		return r.Execute(method, url)
	})
	if err != nil {
		return nil, err
	}
	return result.(*resty.Response), nil
}

// classify parses the body as structured data when the content type (or
// a content sniff, when the header is missing) marks it as JSON;
// anything else is returned as plain text.
func classify(contentType string, body []byte) (interface{}, error) {
	if strings.Contains(contentType, "json") {
		var parsed interface{}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return string(body), &NonJSONError{ContentType: contentType}
		}
		return parsed, nil
	}

	if contentType == "" && len(body) > 0 {
		if mtype := mimetype.Detect(body); mtype.Is("application/json") {
			var parsed interface{}
			if err := json.Unmarshal(body, &parsed); err == nil {
				return parsed, nil
			}
		}
	}

	return string(body), nil
}

// errorMessage extracts a human-readable message from an error payload,
// trying the field spellings the platform is known to use.
func errorMessage(data interface{}, status int) string {
	switch v := data.(type) {
	case map[string]interface{}:
		if msg, ok := v["message"].(string); ok && msg != "" {
			return msg
		}
		if errObj, ok := v["error"].(map[string]interface{}); ok {
			if msg, ok := errObj["message"].(string); ok && msg != "" {
				return msg
			}
		}
		if msg, ok := v["error"].(string); ok && msg != "" {
			return msg
		}
		if raw, err := json.Marshal(v); err == nil {
			return string(raw)
		}
	case string:
		if v != "" {
			return v
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}
