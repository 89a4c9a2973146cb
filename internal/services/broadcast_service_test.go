package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
	"github.com/dmitryilife/repairbot/internal/notify"
	"github.com/dmitryilife/repairbot/internal/store"
)

type noopReminders struct{}

func (noopReminders) Arm(int64, time.Time, func() bool, domain.NotificationIntent) {}
func (noopReminders) Cancel(int64)                                                 {}

func newTestStores(t *testing.T) (*store.Requests, *store.Loyalty, *store.Settings) {
	t.Helper()
	clk := clock.NewFake(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	ledger := store.NewLoyalty()
	reqs := store.NewRequests(store.RequestsConfig{
		Clock:        clk,
		Ledger:       ledger,
		Reminders:    noopReminders{},
		IsOperator:   func(int64) bool { return false },
		CreationLead: 24 * time.Hour,
		ScheduleLead: 2 * time.Hour,
	})
	return reqs, ledger, store.NewSettings()
}

var item = domain.CatalogItem{ID: "service_1", Name: "Диагностика ПК", Price: 1500}

func TestBroadcastReachesAllClients(t *testing.T) {
	reqs, _, settings := newTestStores(t)
	reqs.Create(1, item)
	reqs.Create(2, item)
	reqs.Create(2, item) // same user twice: still one delivery

	var sent []int64
	b := &BroadcastService{
		Requests: reqs,
		Settings: settings,
		Notifier: notify.Func(func(_ context.Context, in domain.NotificationIntent) error {
			sent = append(sent, in.TargetUserID)
			return nil
		}),
	}

	success, failed := b.Broadcast(context.Background(), "Акция!")
	if success != 2 || failed != 0 {
		t.Fatalf("Broadcast = %d/%d, want 2/0", success, failed)
	}
	if len(sent) != 2 {
		t.Fatalf("deliveries = %v", sent)
	}
}

func TestBroadcastCountsFailures(t *testing.T) {
	reqs, _, settings := newTestStores(t)
	reqs.Create(1, item)
	reqs.Create(2, item)

	b := &BroadcastService{
		Requests: reqs,
		Settings: settings,
		Notifier: notify.Func(func(_ context.Context, in domain.NotificationIntent) error {
			if in.TargetUserID == 1 {
				return errors.New("blocked")
			}
			return nil
		}),
	}

	success, failed := b.Broadcast(context.Background(), "x")
	if success != 1 || failed != 1 {
		t.Fatalf("Broadcast = %d/%d, want 1/1", success, failed)
	}
}

// The service must see transport errors directly: wiring it through a
// swallowing wrapper would make the operator report claim zero failures
// during a total outage.
func TestBroadcastReportsTotalOutage(t *testing.T) {
	reqs, _, settings := newTestStores(t)
	reqs.Create(1, item)
	reqs.Create(2, item)

	b := &BroadcastService{
		Requests: reqs,
		Settings: settings,
		Notifier: notify.Func(func(context.Context, domain.NotificationIntent) error {
			return errors.New("transport down")
		}),
	}

	success, failed := b.Broadcast(context.Background(), "x")
	if success != 0 || failed != 2 {
		t.Fatalf("Broadcast = %d/%d, want 0/2", success, failed)
	}
}

func TestBroadcastSkipsMutedUsers(t *testing.T) {
	reqs, _, settings := newTestStores(t)
	reqs.Create(1, item)
	reqs.Create(2, item)
	settings.ToggleNotifications(1) // user 1 opts out

	var sent []int64
	b := &BroadcastService{
		Requests: reqs,
		Settings: settings,
		Notifier: notify.Func(func(_ context.Context, in domain.NotificationIntent) error {
			sent = append(sent, in.TargetUserID)
			return nil
		}),
	}

	success, failed := b.Broadcast(context.Background(), "x")
	if success != 1 || failed != 0 {
		t.Fatalf("Broadcast = %d/%d, want 1/0", success, failed)
	}
	if len(sent) != 1 || sent[0] != 2 {
		t.Fatalf("deliveries = %v", sent)
	}
}
