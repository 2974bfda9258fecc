package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
)

// Validator checks whether a persisted session is still accepted by the
// platform. It runs on every panel activation, not once per start,
// because tokens expire mid-session.
type Validator struct {
	port       relay.Port
	store      *Store
	sessionURL string
	logger     *logging.Logger
}

// NewValidator creates a validator over the session-check endpoint.
func NewValidator(port relay.Port, store *Store, sessionURL string, logger *logging.Logger) *Validator {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Validator{port: port, store: store, sessionURL: sessionURL, logger: logger}
}

// Validate returns the session if the platform still accepts it. With
// no persisted session it returns invalid without touching the
// network. Any rejection or transport failure clears the store so a
// stale token cannot linger; offline is treated the same as expired
// (fail closed).
func (v *Validator) Validate(ctx context.Context) (Session, bool) {
	sess, ok := v.store.Load()
	if !ok {
		return Session{}, false
	}

	_, err := v.port.Do(ctx, relay.Request{
		URL:    v.sessionURL,
		Method: "GET",
		Headers: map[string]string{
			relay.SessionHeader: sess.Token,
			"Accept":            "application/json",
		},
	})
	if err != nil {
		v.logger.Info("Session no longer valid", zap.Error(err))
		v.store.Clear()
		return Session{}, false
	}

	return sess, true
}
