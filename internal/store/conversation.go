package store

import (
	"sync"
	"time"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/domain"
)

type convEntry struct {
	mode      domain.ConversationMode
	expiresAt time.Time
}

// Conversations holds the single pending capture mode per conversation.
// Setting a mode atomically replaces the previous one; expired entries read
// as Idle even before they are physically removed.
type Conversations struct {
	mu      sync.Mutex
	entries map[int64]convEntry
	ttl     time.Duration
	clock   clock.Clock
}

// NewConversations builds the store with a default TTL applied by Set.
func NewConversations(ttl time.Duration, clk clock.Clock) *Conversations {
	return &Conversations{
		entries: make(map[int64]convEntry),
		ttl:     ttl,
		clock:   clk,
	}
}

// Set replaces the conversation's mode and restarts its TTL.
func (c *Conversations) Set(conversationID int64, mode domain.ConversationMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[conversationID] = convEntry{
		mode:      mode,
		expiresAt: c.clock.Now().Add(c.ttl),
	}
}

// Get returns the conversation's current mode. Absent or expired entries
// read as Idle; expired entries are dropped on the way out.
func (c *Conversations) Get(conversationID int64) domain.ConversationMode {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[conversationID]
	if !ok {
		return domain.Idle
	}
	if c.clock.Now().After(e.expiresAt) {
		delete(c.entries, conversationID)
		return domain.Idle
	}
	return e.mode
}

// Clear resets the conversation to Idle. Used after the awaited input was
// consumed, or when a flow is abandoned.
func (c *Conversations) Clear(conversationID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, conversationID)
}
