package store

import (
	"sync"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
)

// RateLimit is a fixed cool-down gate per user. A call is accepted when no
// prior record exists or the window has fully elapsed since the last
// *accepted* call. Rejected calls do not touch the record, so spamming
// cannot extend the window. This is deliberately not a token bucket: the
// workflow needs exactly one accepted interaction per window, no bursts.
type RateLimit struct {
	mu     sync.Mutex
	last   map[int64]time.Time
	window time.Duration
	clock  clock.Clock
}

// NewRateLimit builds a gate with the given cool-down window.
func NewRateLimit(window time.Duration, clk clock.Clock) *RateLimit {
	return &RateLimit{
		last:   make(map[int64]time.Time),
		window: window,
		clock:  clk,
	}
}

// Allow reports whether an interaction from key is accepted now. On accept
// the window restarts from this instant.
func (r *RateLimit) Allow(key int64) bool {
	now := r.clock.Now()

	r.mu.Lock()
	defer r.mu.Unlock()

	last, ok := r.last[key]
	if !ok || now.Sub(last) > r.window {
		r.last[key] = now
		return true
	}
	return false
}
