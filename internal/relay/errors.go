package relay

import (
	"errors"
	"fmt"
)

// ErrChannelClosed reports that the relay channel was torn down while a
// call was outstanding. Retryable after the channel is reestablished.
var ErrChannelClosed = errors.New("relay channel closed")

// HTTPError is a non-2xx platform response with a best-effort message.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// NonJSONError reports a response that claimed to be JSON but was not.
type NonJSONError struct {
	ContentType string
}

func (e *NonJSONError) Error() string {
	return fmt.Sprintf("non-JSON response (content-type %q)", e.ContentType)
}
