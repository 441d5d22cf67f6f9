// Package ratelimiter provides request pacing for rate-limited external APIs.
package ratelimiter

import (
	"log/slog"
	"time"
)

const (
	// DefaultEvery is the number of requests between two cooldowns.
	DefaultEvery = 30
	// DefaultCooldown is the fixed pause taken at each cooldown point.
	DefaultCooldown = time.Second
)

// RateLimiterInterface paces a sequential batch of requests.
type RateLimiterInterface interface {
	// WaitIfNeeded is called after the request at index i has completed and
	// reports whether a cooldown was taken.
	WaitIfNeeded(i int) bool
}

// Pacer inserts a fixed cooldown after every `every` requests of a batch.
// The cooldown is taken after index i when i%every == 0 and i != 0, so a batch
// of n requests pauses floor((n-1)/every) times. It is a pacing floor, not a
// backoff: the delay never depends on request outcomes.
type Pacer struct {
	every    int
	cooldown time.Duration
	sleep    func(time.Duration)
}

var _ RateLimiterInterface = (*Pacer)(nil)

// NewPacer creates a Pacer. Non-positive values fall back to the defaults.
func NewPacer(every int, cooldown time.Duration) *Pacer {
	if every <= 0 {
		every = DefaultEvery
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Pacer{every: every, cooldown: cooldown, sleep: time.Sleep}
}

// WaitIfNeeded sleeps for the cooldown when index i is a pacing point.
func (p *Pacer) WaitIfNeeded(i int) bool {
	if i == 0 || i%p.every != 0 {
		return false
	}
	slog.Debug("rate limit cooldown", "after_requests", i+1, "cooldown", p.cooldown)
	p.sleep(p.cooldown)
	return true
}

// Cooldowns returns how many cooldowns a batch of n requests takes.
func (p *Pacer) Cooldowns(n int) int {
	if n <= 1 {
		return 0
	}
	return (n - 1) / p.every
}
