package session

import "errors"

// ErrLoginInFlight reports a login attempt while another is still
// outstanding. The panel must refuse duplicate submissions.
var ErrLoginInFlight = errors.New("login already in progress")

// AuthKind discriminates authentication failures.
type AuthKind int

const (
	// AuthInvalidCredentials: the platform answered 2xx but produced no
	// session identifier.
	AuthInvalidCredentials AuthKind = iota
	// AuthRejected: the platform answered non-2xx, with a structured
	// message when one was available.
	AuthRejected
)

// AuthError is a failed login.
type AuthError struct {
	Kind    AuthKind
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
