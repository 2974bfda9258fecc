package session

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/storage"
)

// Storage keys. The token and server URL are the only two durable keys
// the panel owns.
const (
	keyToken     = "iics_session_token"
	keyServerURL = "iics_server_url"
)

// Session is an authenticated platform session.
type Session struct {
	Token           string
	ServerURL       string
	AuthenticatedAt time.Time
}

// Store persists the session pair and mirrors it in memory. A durable
// write failure degrades to an in-memory-only session: still usable,
// it just forces re-authentication after the next restart.
type Store struct {
	kv     storage.KV
	logger *logging.Logger

	mu      sync.RWMutex
	current *Session
}

// NewStore creates a session store over the given KV.
func NewStore(kv storage.KV, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Store{kv: kv, logger: logger}
}

// Save records the session in memory and writes both keys to durable
// storage.
func (s *Store) Save(sess Session) {
	s.mu.Lock()
	copied := sess
	s.current = &copied
	s.mu.Unlock()

	if err := s.kv.Set(keyToken, sess.Token); err != nil {
		s.logger.Warn("Failed to persist session token", zap.Error(err))
		return
	}
	if err := s.kv.Set(keyServerURL, sess.ServerURL); err != nil {
		s.logger.Warn("Failed to persist server URL", zap.Error(err))
	}
}

// Load returns the current session. The in-memory mirror wins; on a
// cold start both keys are read back from storage, and the session is
// absent unless both are present.
func (s *Store) Load() (Session, bool) {
	s.mu.RLock()
	if s.current != nil {
		sess := *s.current
		s.mu.RUnlock()
		return sess, true
	}
	s.mu.RUnlock()

	token, okToken, err := s.kv.Get(keyToken)
	if err != nil {
		s.logger.Warn("Failed to read session token", zap.Error(err))
		return Session{}, false
	}
	serverURL, okURL, err := s.kv.Get(keyServerURL)
	if err != nil {
		s.logger.Warn("Failed to read server URL", zap.Error(err))
		return Session{}, false
	}
	if !okToken || !okURL || token == "" || serverURL == "" {
		return Session{}, false
	}

	sess := Session{Token: token, ServerURL: serverURL}
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()
	return sess, true
}

// Clear destroys the session in memory and in durable storage.
func (s *Store) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Delete(keyToken); err != nil {
		s.logger.Warn("Failed to clear session token", zap.Error(err))
	}
	if err := s.kv.Delete(keyServerURL); err != nil {
		s.logger.Warn("Failed to clear server URL", zap.Error(err))
	}
}

// TokenSource exposes the current token for header injection.
func (s *Store) TokenSource() relay.TokenSource {
	return func() (string, bool) {
		sess, ok := s.Load()
		if !ok {
			return "", false
		}
		return sess.Token, true
	}
}
