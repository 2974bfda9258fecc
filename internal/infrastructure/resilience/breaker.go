package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned while the breaker refuses calls.
var ErrOpen = errors.New("upstream suspended")

// State is the breaker's position in its lifecycle.
type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// Settings configures the breaker. Zero values get usable defaults.
type Settings struct {
	// Threshold is the consecutive failure count that opens the circuit.
	Threshold uint32
	// Cooldown is how long the circuit stays open before probing.
	Cooldown time.Duration
	// Probes is how many trial calls the half-open state admits.
	Probes uint32
	// OnStateChange is invoked on every transition.
	OnStateChange func(from, to State)
}

// Breaker suspends calls to the upstream after repeated transport
// failures and lets them resume once a probe succeeds.
type Breaker struct {
	settings Settings

	mu        sync.Mutex
	state     State
	failures  uint32
	admitted  uint32
	successes uint32
	deadline  time.Time
}

// New creates a breaker in the closed state.
func New(settings Settings) *Breaker {
	if settings.Threshold == 0 {
		settings.Threshold = 5
	}
	if settings.Cooldown == 0 {
		settings.Cooldown = 30 * time.Second
	}
	if settings.Probes == 0 {
		settings.Probes = 1
	}
	return &Breaker{settings: settings, state: Closed}
}

// State returns the current state, advancing open to half-open once the
// cooldown has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && !time.Now().Before(b.deadline) {
		return HalfOpen
	}
	return b.state
}

// Do runs fn if the breaker admits it and records the outcome.
func (b *Breaker) Do(fn func() (interface{}, error)) (interface{}, error) {
	if err := b.admit(); err != nil {
		return nil, err
	}
	result, err := fn()
	b.record(err == nil)
	return result, err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == Open {
		if time.Now().Before(b.deadline) {
			return ErrOpen
		}
		b.transition(HalfOpen)
	}

	if b.state == HalfOpen {
		if b.admitted >= b.settings.Probes {
			return ErrOpen
		}
		b.admitted++
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.settings.Threshold {
			b.transition(Open)
		}
	case HalfOpen:
		if !success {
			b.transition(Open)
			return
		}
		b.successes++
		if b.successes >= b.settings.Probes {
			b.transition(Closed)
		}
	case Open:
		// A call admitted before the trip finished late. Its outcome
		// already counted.
	}
}

// transition moves to a new state. Caller holds the lock.
func (b *Breaker) transition(to State) {
	from := b.state
	if from == to {
		return
	}
	b.state = to
	b.failures = 0
	b.admitted = 0
	b.successes = 0
	if to == Open {
		b.deadline = time.Now().Add(b.settings.Cooldown)
	}
	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(from, to)
	}
}
