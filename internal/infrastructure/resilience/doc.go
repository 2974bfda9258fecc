/*
Package resilience provides the circuit breaker that guards the relay's
upstream host.

# Overview

The relay forwards every panel request to a single upstream platform.
When that platform stops answering, retrying each request to exhaustion
multiplies the outage. The breaker suspends forwarding after repeated
transport failures and probes the upstream before resuming.

# Usage

	breaker := resilience.New(resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
		OnStateChange: func(from, to resilience.State) {
			logger.Warn("Upstream state changed",
				zap.Stringer("from", from), zap.Stringer("to", to))
		},
	})

	result, err := breaker.Do(func() (interface{}, error) {
		return client.Call()
	})

# States

	Closed --[failures]-> Open --[cooldown]-> HalfOpen --[probe ok]-> Closed
	                        ^                     |
	                        +----[probe fails]----+

Only transport failures count against the breaker. An upstream that
answers with an error status is still an upstream that answers.
*/
package resilience
