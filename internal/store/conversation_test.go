package store

import (
	"testing"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
)

func TestConversationSetGet(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	c := NewConversations(time.Hour, clk)

	if got := c.Get(5); got != domain.Idle {
		t.Fatalf("absent conversation should read Idle, got %+v", got)
	}

	c.Set(5, domain.AwaitingComment(77))
	got := c.Get(5)
	if got.Kind != domain.ModeAwaitingComment || got.RequestID != 77 {
		t.Fatalf("Get = %+v, want AwaitingComment(77)", got)
	}
}

func TestConversationExpiry(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	c := NewConversations(time.Hour, clk)

	c.Set(5, domain.ConversationMode{Kind: domain.ModeAwaitingPhone})
	clk.Advance(time.Hour + time.Second)
	if got := c.Get(5); got != domain.Idle {
		t.Fatalf("expired mode must read Idle, got %+v", got)
	}
}

func TestConversationSetOverwrites(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	c := NewConversations(time.Hour, clk)

	c.Set(5, domain.AwaitingComment(1))
	c.Set(5, domain.AwaitingSchedule(2))
	got := c.Get(5)
	if got.Kind != domain.ModeAwaitingSchedule || got.RequestID != 2 {
		t.Fatalf("second Set must replace the first, got %+v", got)
	}
}

func TestConversationClear(t *testing.T) {
	clk := clock.NewFake(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
	c := NewConversations(time.Hour, clk)

	c.Set(5, domain.ConversationMode{Kind: domain.ModeAwaitingBroadcastText})
	c.Clear(5)
	if got := c.Get(5); got != domain.Idle {
		t.Fatalf("cleared conversation must read Idle, got %+v", got)
	}
	c.Clear(5) // clearing again is a no-op
}
