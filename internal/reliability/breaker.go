// Package reliability provides failure isolation for external data providers.
package reliability

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ErrCircuitOpen is returned when a provider is in cooldown and calls are
// being rejected without reaching the network.
var ErrCircuitOpen = errors.New("circuit open: provider in cooldown")

// BreakerState is the current state of one provider's circuit.
type BreakerState string

const (
	StateClosed   BreakerState = "closed"
	StateOpen     BreakerState = "open"
	StateHalfOpen BreakerState = "half_open"
)

// breaker tracks consecutive failures for a single provider. Breakers are
// keyed by provider name, never by symbol: one bad symbol's repeated failures
// should not penalize other symbols' calls to the same provider, and a
// provider-wide outage should not be rediscovered per symbol.
type breaker struct {
	failures     int
	openedAt     time.Time
	cooldown     time.Duration
	state        BreakerState
	halfOpenBusy bool
}

// Registry holds one circuit breaker per provider name. Construct isolated
// instances in tests; there is no package-level singleton.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*breaker
	log      zerolog.Logger

	maxFailures  int
	baseCooldown time.Duration
	maxCooldown  time.Duration
	now          func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithThreshold sets the consecutive-failure count that opens a circuit.
func WithThreshold(n int) RegistryOption {
	return func(r *Registry) { r.maxFailures = n }
}

// WithCooldown sets the initial and maximum cooldown. Each re-opening doubles
// the cooldown up to max; a success resets it.
func WithCooldown(base, max time.Duration) RegistryOption {
	return func(r *Registry) {
		r.baseCooldown = base
		r.maxCooldown = max
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) { r.now = now }
}

// NewRegistry creates a circuit breaker registry.
func NewRegistry(log zerolog.Logger, opts ...RegistryOption) *Registry {
	r := &Registry{
		breakers:     make(map[string]*breaker),
		log:          log.With().Str("component", "circuit_breaker").Logger(),
		maxFailures:  5,
		baseCooldown: 30 * time.Second,
		maxCooldown:  10 * time.Minute,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Allow reports whether a call to the named provider may proceed. When the
// cooldown has elapsed the circuit moves to half-open and admits a single
// trial call; its outcome (RecordSuccess/RecordFailure) decides the state.
func (r *Registry) Allow(provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.get(provider)
	switch b.state {
	case StateClosed:
		return nil
	case StateOpen:
		if r.now().Sub(b.openedAt) < b.cooldown {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.halfOpenBusy = true
		r.log.Info().Str("provider", provider).Msg("Circuit half-open, admitting trial call")
		return nil
	case StateHalfOpen:
		if b.halfOpenBusy {
			return ErrCircuitOpen
		}
		b.halfOpenBusy = true
		return nil
	}
	return nil
}

// RecordSuccess resets the provider's circuit.
func (r *Registry) RecordSuccess(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.get(provider)
	if b.state != StateClosed {
		r.log.Info().Str("provider", provider).Msg("Circuit closed after successful call")
	}
	b.failures = 0
	b.state = StateClosed
	b.halfOpenBusy = false
	b.cooldown = r.baseCooldown
}

// RecordFailure counts a failure and opens the circuit at the threshold.
// A failed half-open trial reopens immediately with a doubled cooldown.
func (r *Registry) RecordFailure(provider string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := r.get(provider)
	b.failures++
	b.halfOpenBusy = false

	if b.state == StateHalfOpen {
		b.cooldown *= 2
		if b.cooldown > r.maxCooldown {
			b.cooldown = r.maxCooldown
		}
		r.open(provider, b)
		return
	}

	if b.failures >= r.maxFailures {
		r.open(provider, b)
	}
}

// State returns the named provider's circuit state.
func (r *Registry) State(provider string) BreakerState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(provider).state
}

// States returns a snapshot of all provider circuit states.
func (r *Registry) States() map[string]BreakerState {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]BreakerState, len(r.breakers))
	for name, b := range r.breakers {
		out[name] = b.state
	}
	return out
}

func (r *Registry) get(provider string) *breaker {
	b, ok := r.breakers[provider]
	if !ok {
		b = &breaker{state: StateClosed, cooldown: r.baseCooldown}
		r.breakers[provider] = b
	}
	return b
}

func (r *Registry) open(provider string, b *breaker) {
	b.state = StateOpen
	b.openedAt = r.now()
	r.log.Warn().
		Str("provider", provider).
		Int("failures", b.failures).
		Dur("cooldown", b.cooldown).
		Msg("Circuit opened")
}
