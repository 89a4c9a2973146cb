package store

import (
	"testing"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
)

func TestRateLimitFixedWindow(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimit(2*time.Second, clk)

	if !rl.Allow(1) {
		t.Fatal("first call must be accepted")
	}
	if rl.Allow(1) {
		t.Fatal("second call inside the window must be rejected")
	}
	clk.Advance(2001 * time.Millisecond)
	if !rl.Allow(1) {
		t.Fatal("call after the window elapsed must be accepted")
	}
}

func TestRateLimitWindowBoundaryIsExclusive(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimit(2*time.Second, clk)

	rl.Allow(1)
	clk.Advance(2 * time.Second)
	// Exactly the window: not strictly greater, still rejected.
	if rl.Allow(1) {
		t.Fatal("call exactly at the window boundary must be rejected")
	}
}

func TestRateLimitRejectionDoesNotResetWindow(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	w := 2 * time.Second
	rl := NewRateLimit(w, clk)

	// t=0 accepted, t=0.5w rejected, t=1.5w accepted: the window is measured
	// from the last accepted call, not the last attempt.
	if !rl.Allow(1) {
		t.Fatal("t=0 must be accepted")
	}
	clk.Advance(w / 2)
	if rl.Allow(1) {
		t.Fatal("t=0.5w must be rejected")
	}
	clk.Advance(w)
	if !rl.Allow(1) {
		t.Fatal("t=1.5w must be accepted: the rejected attempt must not extend the window")
	}
}

func TestRateLimitKeysAreIndependent(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	rl := NewRateLimit(2*time.Second, clk)

	rl.Allow(1)
	if !rl.Allow(2) {
		t.Fatal("a different key must not be affected")
	}
}
