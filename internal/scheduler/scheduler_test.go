package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
)

// fakeTimer captures the scheduled callback so tests can fire it manually.
type fakeTimer struct {
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := f.stopped
	f.stopped = true
	return !was
}

// installFakeTimers swaps the afterFunc seam and returns the list of created
// timers. The caller must restore the seam via the returned func.
func installFakeTimers(t *testing.T) *[]*fakeTimer {
	t.Helper()
	var mu sync.Mutex
	timers := &[]*fakeTimer{}
	orig := afterFunc
	afterFunc = func(d time.Duration, fn func()) stopper {
		mu.Lock()
		defer mu.Unlock()
		ft := &fakeTimer{fn: fn}
		*timers = append(*timers, ft)
		return ft
	}
	t.Cleanup(func() { afterFunc = orig })
	return timers
}

type sinkRecorder struct {
	mu      sync.Mutex
	intents []domain.NotificationIntent
}

func (r *sinkRecorder) sink(_ context.Context, intent domain.NotificationIntent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.intents = append(r.intents, intent)
}

func (r *sinkRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.intents)
}

func newTestScheduler(t *testing.T) (*Scheduler, *[]*fakeTimer, *sinkRecorder) {
	t.Helper()
	timers := installFakeTimers(t)
	rec := &sinkRecorder{}
	clk := clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	return New(rec.sink, clk), timers, rec
}

func TestArmAndFire(t *testing.T) {
	s, timers, rec := newTestScheduler(t)

	s.Arm(1, time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC), func() bool { return true },
		domain.NotificationIntent{TargetUserID: 7, Text: "reminder"})

	if _, ok := s.Armed(1); !ok {
		t.Fatal("timer should be live after Arm")
	}
	(*timers)[0].fn()

	if rec.count() != 1 {
		t.Fatalf("sink received %d intents, want 1", rec.count())
	}
	if _, ok := s.Armed(1); ok {
		t.Error("timer entry should be consumed after fire")
	}
}

func TestPredicateSuppressesFire(t *testing.T) {
	s, timers, rec := newTestScheduler(t)

	live := true
	s.Arm(1, time.Now(), func() bool { return live }, domain.NotificationIntent{TargetUserID: 7})
	live = false
	(*timers)[0].fn()

	if rec.count() != 0 {
		t.Fatalf("suppressed reminder must not emit an intent, got %d", rec.count())
	}
}

func TestCancelBeforeFire(t *testing.T) {
	s, timers, rec := newTestScheduler(t)

	s.Arm(1, time.Now(), func() bool { return true }, domain.NotificationIntent{TargetUserID: 7})
	s.Cancel(1)

	if _, ok := s.Armed(1); ok {
		t.Error("cancel should remove the live timer")
	}
	// A fire already in flight is invalidated by the generation bump.
	(*timers)[0].fn()
	if rec.count() != 0 {
		t.Fatalf("cancelled reminder fired, got %d intents", rec.count())
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	s, _, _ := newTestScheduler(t)
	s.Cancel(42) // unknown id: no-op
	s.Arm(42, time.Now(), nil, domain.NotificationIntent{})
	s.Cancel(42)
	s.Cancel(42) // already cancelled: no-op
}

func TestRearmReplacesTimer(t *testing.T) {
	s, timers, rec := newTestScheduler(t)

	s.Arm(1, time.Now().Add(time.Hour), func() bool { return true },
		domain.NotificationIntent{Text: "first"})
	s.Arm(1, time.Now().Add(2*time.Hour), func() bool { return true },
		domain.NotificationIntent{Text: "second"})

	if len(*timers) != 2 {
		t.Fatalf("expected 2 scheduled timers, got %d", len(*timers))
	}
	if !(*timers)[0].stopped {
		t.Error("first timer should have been stopped on re-arm")
	}

	// The replaced timer fires anyway (race with Stop): stale generation.
	(*timers)[0].fn()
	if rec.count() != 0 {
		t.Fatal("stale timer must not emit")
	}

	(*timers)[1].fn()
	if rec.count() != 1 || rec.intents[0].Text != "second" {
		t.Fatalf("latest timer should win, got %+v", rec.intents)
	}
}

func TestNilPredicateFires(t *testing.T) {
	s, timers, rec := newTestScheduler(t)
	s.Arm(5, time.Now(), nil, domain.NotificationIntent{Text: "x"})
	(*timers)[0].fn()
	if rec.count() != 1 {
		t.Fatal("nil predicate should always fire")
	}
}
