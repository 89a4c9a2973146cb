package store

import (
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
	"github.com/dmitryilife/repairbot/internal/render"
)

var requestsCreated = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "repair_requests_created_total",
		Help: "Repair requests created, labeled by catalog item.",
	},
	[]string{"catalog_item"},
)

func init() {
	prometheus.MustRegister(requestsCreated)
}

// Ledger is the loyalty dependency of the request store: points are
// credited inside Create, as part of the same logical unit.
type Ledger interface {
	Credit(userID int64, points int, reason string) int
	Balance(userID int64) int
}

// Reminders is the scheduler dependency. Arm replaces any live timer for
// the same request id; Cancel is idempotent.
type Reminders interface {
	Arm(requestID int64, fireAt time.Time, predicate func() bool, intent domain.NotificationIntent)
	Cancel(requestID int64)
}

// Requests owns the repair-request lifecycle. It is the only writer to
// Status, Comment, and ScheduledTime, and it drives the coupled side
// effects (loyalty credit on create, reminder arm/cancel on create and
// transition) before any result is handed back to the caller, so the
// composite reads as one atomic step to other inbound events.
type Requests struct {
	mu     sync.Mutex
	byID   map[int64]*domain.RepairRequest
	lastID int64

	clock      clock.Clock
	ledger     Ledger
	reminders  Reminders
	isOperator func(userID int64) bool

	creationLead time.Duration // reminder after create (24h)
	scheduleLead time.Duration // reminder ahead of a scheduled visit (2h)
}

// RequestsConfig carries the request store dependencies and lead times.
type RequestsConfig struct {
	Clock        clock.Clock
	Ledger       Ledger
	Reminders    Reminders
	IsOperator   func(userID int64) bool
	CreationLead time.Duration
	ScheduleLead time.Duration
}

// NewRequests builds an empty request store.
func NewRequests(cfg RequestsConfig) *Requests {
	return &Requests{
		byID:         make(map[int64]*domain.RepairRequest),
		clock:        cfg.Clock,
		ledger:       cfg.Ledger,
		reminders:    cfg.Reminders,
		isOperator:   cfg.IsOperator,
		creationLead: cfg.CreationLead,
		scheduleLead: cfg.ScheduleLead,
	}
}

// Create allocates a new pending request for the catalog item, credits the
// loyalty ledger by the item's point policy, and arms the creation reminder.
// IDs derive from the creation instant in milliseconds and are bumped past
// the previous id on collision, so they are strictly monotonic and never
// reused. Returns the request copy and the points credited.
func (s *Requests) Create(userID int64, item domain.CatalogItem) (domain.RepairRequest, int) {
	s.mu.Lock()
	now := s.clock.Now()
	id := now.UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	req := &domain.RepairRequest{
		ID:            id,
		UserID:        userID,
		CatalogItemID: item.ID,
		IsBundle:      item.IsBundle,
		FinalPrice:    item.Price,
		Status:        domain.StatusPending,
		CreatedAt:     now,
	}
	s.byID[id] = req

	points := item.LoyaltyPoints()
	s.ledger.Credit(userID, points, "new repair request")

	s.reminders.Arm(id, now.Add(s.creationLead),
		func() bool { return s.statusIs(id, domain.StatusPending) },
		domain.NotificationIntent{
			TargetUserID: userID,
			Text:         render.PendingReminder(id),
			Urgency:      domain.UrgencyHigh,
		})
	out := *req
	s.mu.Unlock()

	requestsCreated.WithLabelValues(item.ID).Inc()
	log.Info().
		Int64("request_id", id).
		Int64("user_id", userID).
		Str("catalog_item", item.ID).
		Int("price", item.Price).
		Msg("repair request created")
	return out, points
}

// Transition moves the request to next. It fails with ErrNotFound for an
// unknown id, ErrForbidden when the actor is not an operator, and
// ErrInvalidTransition when next is unreachable from the current status
// (terminal states reject everything). On success the live reminder is
// cancelled and a notification intent for the owner is returned; the caller
// delivers it after this method returns.
func (s *Requests) Transition(requestID int64, next domain.Status, actorID int64) (domain.RepairRequest, domain.NotificationIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrNotFound
	}
	if !s.isOperator(actorID) {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrForbidden
	}
	if !next.Valid() || !req.Status.CanTransition(next) {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrInvalidTransition
	}

	req.Status = next
	// The status change supersedes the original timed check.
	s.reminders.Cancel(requestID)

	out := *req
	intent := domain.NotificationIntent{
		TargetUserID: req.UserID,
		Text:         render.StatusChanged(out),
		Urgency:      domain.UrgencyNormal,
	}
	log.Info().
		Int64("request_id", requestID).
		Int64("actor_id", actorID).
		Str("status", string(next)).
		Msg("request status changed")
	return out, intent, nil
}

// SetComment attaches operator free text to a non-terminal request.
func (s *Requests) SetComment(requestID int64, text string, actorID int64) (domain.RepairRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok {
		return domain.RepairRequest{}, domain.ErrNotFound
	}
	if !s.isOperator(actorID) {
		return domain.RepairRequest{}, domain.ErrForbidden
	}
	if req.Status.Terminal() {
		return domain.RepairRequest{}, domain.ErrInvalidTransition
	}
	req.Comment = text
	return *req, nil
}

// SetSchedule records the visit time on a non-terminal request, arms the
// pre-visit reminder when its fire instant is still in the future, and
// returns the owner notification intent. The schedule is recorded even when
// the pre-reminder window has already passed.
func (s *Requests) SetSchedule(requestID int64, at time.Time, actorID int64) (domain.RepairRequest, domain.NotificationIntent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	req, ok := s.byID[requestID]
	if !ok {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrNotFound
	}
	if !s.isOperator(actorID) {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrForbidden
	}
	if req.Status.Terminal() {
		return domain.RepairRequest{}, domain.NotificationIntent{}, domain.ErrInvalidTransition
	}

	t := at
	req.ScheduledTime = &t

	fireAt := at.Add(-s.scheduleLead)
	if fireAt.After(s.clock.Now()) {
		s.reminders.Arm(requestID, fireAt,
			func() bool { return !s.terminal(requestID) },
			domain.NotificationIntent{
				TargetUserID: req.UserID,
				Text:         render.ScheduleReminder(requestID, at),
				Urgency:      domain.UrgencyHigh,
			})
	}

	out := *req
	intent := domain.NotificationIntent{
		TargetUserID: req.UserID,
		Text:         render.ScheduleAssigned(requestID, at),
		Urgency:      domain.UrgencyNormal,
	}
	return out, intent, nil
}

// Get returns a request by id.
func (s *Requests) Get(requestID int64) (domain.RepairRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.byID[requestID]
	if !ok {
		return domain.RepairRequest{}, domain.ErrNotFound
	}
	return *req, nil
}

// statusIs is the creation-reminder predicate. It takes the store lock, so
// it must only run outside mutating sections (the scheduler evaluates
// predicates on its timer goroutine, never under the store lock).
func (s *Requests) statusIs(requestID int64, want domain.Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.byID[requestID]
	return ok && req.Status == want
}

// terminal is the pre-visit reminder predicate: suppress once the request
// reached a terminal state (or vanished).
func (s *Requests) terminal(requestID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.byID[requestID]
	return !ok || req.Status.Terminal()
}

// snapshot copies all requests under the lock.
func (s *Requests) snapshot() []domain.RepairRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.RepairRequest, 0, len(s.byID))
	for _, req := range s.byID {
		out = append(out, *req)
	}
	return out
}

func newestFirst(reqs []domain.RepairRequest) {
	sort.Slice(reqs, func(i, j int) bool {
		if reqs[i].CreatedAt.Equal(reqs[j].CreatedAt) {
			return reqs[i].ID > reqs[j].ID
		}
		return reqs[i].CreatedAt.After(reqs[j].CreatedAt)
	})
}

// ByUser returns the user's requests ordered by creation time descending.
func (s *Requests) ByUser(userID int64) []domain.RepairRequest {
	all := s.snapshot()
	out := all[:0]
	for _, req := range all {
		if req.UserID == userID {
			out = append(out, req)
		}
	}
	newestFirst(out)
	return out
}

// Active returns pending and in-progress requests, newest first.
func (s *Requests) Active() []domain.RepairRequest {
	all := s.snapshot()
	out := all[:0]
	for _, req := range all {
		if req.Active() {
			out = append(out, req)
		}
	}
	newestFirst(out)
	return out
}

// All returns every request, newest first.
func (s *Requests) All() []domain.RepairRequest {
	all := s.snapshot()
	newestFirst(all)
	return all
}

// UserIDs returns the distinct owners of all requests (broadcast audience).
func (s *Requests) UserIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[int64]struct{}, len(s.byID))
	out := make([]int64, 0, len(s.byID))
	for _, req := range s.byID {
		if _, ok := seen[req.UserID]; !ok {
			seen[req.UserID] = struct{}{}
			out = append(out, req.UserID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
