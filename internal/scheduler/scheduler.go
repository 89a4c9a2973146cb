// Package scheduler fires one-shot, cancellable reminders tied to repair
// requests. Cancellation uses a per-request generation counter: arming or
// cancelling bumps the generation, and a timer that fires with a stale
// generation is discarded. The fire-time predicate is the authoritative
// liveness check: a reminder whose request moved on produces nothing even
// if the timer itself could not be stopped in time.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
)

var (
	remindersFired = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_fired_total",
		Help: "Reminders that passed their predicate and emitted a notification intent.",
	})
	remindersSuppressed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_suppressed_total",
		Help: "Reminders discarded at fire time by cancellation or a false predicate.",
	})
)

func init() {
	prometheus.MustRegister(remindersFired, remindersSuppressed)
}

// afterFunc is a test seam over time.AfterFunc.
var afterFunc = func(d time.Duration, fn func()) stopper {
	return time.AfterFunc(d, fn)
}

type stopper interface {
	Stop() bool
}

// Sink receives the notification intent of a fired reminder. Delivery is
// best-effort: a failing sink is logged by its implementation and the timer
// is still consumed.
type Sink func(ctx context.Context, intent domain.NotificationIntent)

type pending struct {
	gen    uint64
	timer  stopper
	fireAt time.Time
}

// Scheduler keeps at most one live timer per request id.
type Scheduler struct {
	mu      sync.Mutex
	gens    map[int64]uint64
	pending map[int64]pending
	sink    Sink
	clock   clock.Clock
}

// New builds a scheduler that forwards fired reminders to sink.
func New(sink Sink, clk clock.Clock) *Scheduler {
	return &Scheduler{
		gens:    make(map[int64]uint64),
		pending: make(map[int64]pending),
		sink:    sink,
		clock:   clk,
	}
}

// Arm schedules intent to fire at fireAt, provided predicate still holds at
// that time. An existing timer for requestID is atomically replaced; there
// are never two live timers for the same id. A fireAt in the past fires on
// the next timer tick.
func (s *Scheduler) Arm(requestID int64, fireAt time.Time, predicate func() bool, intent domain.NotificationIntent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[requestID]; ok {
		p.timer.Stop()
	}
	s.gens[requestID]++
	gen := s.gens[requestID]

	delay := fireAt.Sub(s.clock.Now())
	if delay < 0 {
		delay = 0
	}
	t := afterFunc(delay, func() { s.fire(requestID, gen, predicate, intent) })
	s.pending[requestID] = pending{gen: gen, timer: t, fireAt: fireAt}

	log.Debug().
		Int64("request_id", requestID).
		Time("fire_at", fireAt).
		Msg("reminder armed")
}

// Cancel forgets any live timer for requestID. Cancelling an unknown or
// already-fired timer is a no-op. The generation bump also invalidates a
// fire that is already in flight.
func (s *Scheduler) Cancel(requestID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[requestID]
	if !ok {
		return
	}
	p.timer.Stop()
	s.gens[requestID]++
	delete(s.pending, requestID)
}

// Armed reports whether a live timer exists for requestID, and its fire time.
func (s *Scheduler) Armed(requestID int64) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[requestID]
	return p.fireAt, ok
}

// fire runs on the timer goroutine. The predicate is evaluated outside the
// scheduler lock so it may consult the request store freely.
func (s *Scheduler) fire(requestID int64, gen uint64, predicate func() bool, intent domain.NotificationIntent) {
	s.mu.Lock()
	stale := s.gens[requestID] != gen
	if !stale {
		delete(s.pending, requestID)
	}
	s.mu.Unlock()

	if stale {
		remindersSuppressed.Inc()
		return
	}
	if predicate != nil && !predicate() {
		remindersSuppressed.Inc()
		log.Debug().Int64("request_id", requestID).Msg("reminder suppressed by predicate")
		return
	}

	remindersFired.Inc()
	s.sink(context.Background(), intent)
}
