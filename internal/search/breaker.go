package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

type CircuitState string

const (
	CircuitClosed   CircuitState = "closed"
	CircuitOpen     CircuitState = "open"
	CircuitHalfOpen CircuitState = "half_open"
)

// Breaker wraps a provider and stops calling it for Cooldown after Threshold
// consecutive failures. One probe is let through once the cooldown elapses;
// other callers fail fast until it finishes. Searches cancelled by the caller
// are not counted against the provider.
type Breaker struct {
	Threshold int
	Cooldown  time.Duration

	next Provider
	now  func() time.Time

	mu       sync.Mutex
	state    CircuitState
	failures int
	openedAt time.Time
	probing  bool
}

func NewBreaker(next Provider, threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 3
	}
	if cooldown <= 0 {
		cooldown = 60 * time.Second
	}
	return &Breaker{
		Threshold: threshold,
		Cooldown:  cooldown,
		next:      next,
		now:       time.Now,
		state:     CircuitClosed,
	}
}

func (b *Breaker) Name() string { return b.next.Name() }

func (b *Breaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) Search(ctx context.Context, query string) ([]string, error) {
	admitted, probe := b.allow(b.now())
	if !admitted {
		return nil, fmt.Errorf("%w: %s circuit open", ErrSearchUnavailable, b.next.Name())
	}
	links, err := b.next.Search(ctx, query)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			if probe {
				b.releaseProbe()
			}
			return nil, err
		}
		b.recordFailure(b.now())
		return nil, err
	}
	b.recordSuccess()
	return links, nil
}

// allow reports whether a call may proceed and whether it is the half-open probe.
func (b *Breaker) allow(now time.Time) (admitted, probe bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case CircuitOpen:
		if now.Sub(b.openedAt) < b.Cooldown {
			return false, false
		}
		b.state = CircuitHalfOpen
		b.probing = true
		return true, true
	case CircuitHalfOpen:
		if b.probing {
			return false, false
		}
		b.probing = true
		return true, true
	default:
		return true, false
	}
}

// releaseProbe ends a probe without judging the provider.
func (b *Breaker) releaseProbe() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
}

func (b *Breaker) recordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = CircuitClosed
	b.failures = 0
	b.probing = false
}

func (b *Breaker) recordFailure(now time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.probing = false
	if b.state == CircuitHalfOpen {
		b.state = CircuitOpen
		b.openedAt = now
		return
	}
	b.failures++
	if b.failures >= b.Threshold {
		b.state = CircuitOpen
		b.openedAt = now
	}
}
