package domain

import (
	"testing"
	"time"
)

func TestStatusCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusPending, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusCompleted, StatusPending, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCompleted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("CanTransition(%s → %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusPending.Terminal() || StatusInProgress.Terminal() {
		t.Error("active statuses must not be terminal")
	}
	if !StatusCompleted.Terminal() || !StatusCancelled.Terminal() {
		t.Error("completed and cancelled must be terminal")
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("done").Valid() {
		t.Error("unknown status should be invalid")
	}
}

func TestCatalogItemLoyaltyPoints(t *testing.T) {
	svc := CatalogItem{ID: "service_1", Price: 1500}
	if got := svc.LoyaltyPoints(); got != 150 {
		t.Errorf("standard service points = %d, want 150", got)
	}
	// Floor, not round.
	svc.Price = 1999
	if got := svc.LoyaltyPoints(); got != 199 {
		t.Errorf("points = %d, want 199", got)
	}
	offer := CatalogItem{ID: "offer_1", Price: 3000, Points: 450, IsBundle: true}
	if got := offer.LoyaltyPoints(); got != 450 {
		t.Errorf("bundle points = %d, want fixed 450", got)
	}
}

func TestRepairRequestActive(t *testing.T) {
	r := RepairRequest{Status: StatusPending, CreatedAt: time.Now()}
	if !r.Active() {
		t.Error("pending request should be active")
	}
	r.Status = StatusInProgress
	if !r.Active() {
		t.Error("in-progress request should be active")
	}
	r.Status = StatusCompleted
	if r.Active() {
		t.Error("completed request should not be active")
	}
	r.Status = StatusCancelled
	if r.Active() {
		t.Error("cancelled request should not be active")
	}
}

func TestModeKindString(t *testing.T) {
	kinds := map[ModeKind]string{
		ModeIdle:                  "idle",
		ModeAwaitingBroadcastText: "awaiting_broadcast",
		ModeAwaitingComment:       "awaiting_comment",
		ModeAwaitingSchedule:      "awaiting_schedule",
		ModeAwaitingPhone:         "awaiting_phone",
		ModeAwaitingEmail:         "awaiting_email",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("String(%d) = %q, want %q", k, got, want)
		}
	}
	if got := ModeKind(99).String(); got != "unknown" {
		t.Errorf("String(99) = %q, want unknown", got)
	}
}
