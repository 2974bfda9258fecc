package session

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
)

// Authenticator exchanges credentials for a session via the platform's
// login endpoint.
type Authenticator struct {
	port     relay.Port
	store    *Store
	loginURL string
	logger   *logging.Logger
	inFlight atomic.Bool
	now      func() time.Time
}

// NewAuthenticator creates an authenticator that persists successful
// sessions to the given store.
func NewAuthenticator(port relay.Port, store *Store, loginURL string, logger *logging.Logger) *Authenticator {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Authenticator{
		port:     port,
		store:    store,
		loginURL: loginURL,
		logger:   logger,
		now:      time.Now,
	}
}

// Login posts JSON credentials and persists the resulting session.
// Only the token and server URL are stored; the password never reaches
// storage. A second call while one is outstanding fails with
// ErrLoginInFlight.
func (a *Authenticator) Login(ctx context.Context, username, password string) (Session, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return Session{}, ErrLoginInFlight
	}
	defer a.inFlight.Store(false)

	data, err := a.port.Do(ctx, relay.Request{
		URL:    a.loginURL,
		Method: "POST",
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: map[string]string{
			"username": username,
			"password": password,
		},
	})
	if err != nil {
		var httpErr *relay.HTTPError
		if errors.As(err, &httpErr) {
			return Session{}, &AuthError{Kind: AuthRejected, Message: httpErr.Message}
		}
		return Session{}, fmt.Errorf("login request failed: %w", err)
	}

	token := loginSessionID(data)
	serverURL := loginServerURL(data)
	if token == "" || serverURL == "" {
		return Session{}, &AuthError{
			Kind:    AuthInvalidCredentials,
			Message: "login response carried no session",
		}
	}

	sess := Session{Token: token, ServerURL: serverURL, AuthenticatedAt: a.now()}
	a.store.Save(sess)

	a.logger.Info("Authenticated against platform", zap.String("server_url", serverURL))
	return sess, nil
}

// loginSessionID extracts the session identifier from a login response,
// trying the primary field then the legacy spelling:
// userInfo.icSessionId, then userInfo.sessionId.
func loginSessionID(data interface{}) string {
	body, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	userInfo, ok := body["userInfo"].(map[string]interface{})
	if !ok {
		return ""
	}
	if id, ok := userInfo["icSessionId"].(string); ok && id != "" {
		return id
	}
	if id, ok := userInfo["sessionId"].(string); ok && id != "" {
		return id
	}
	return ""
}

// loginServerURL extracts the org's API base from a login response.
func loginServerURL(data interface{}) string {
	body, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	url, _ := body["serverUrl"].(string)
	return url
}
