// Package store implements the process-wide keyed stores of the workflow:
// repair requests, loyalty balances, conversation capture state, the
// per-user rate-limit gate, and user settings. Each store guards its map
// with its own mutex; no store reaches into another's state, so there is
// no cross-store lock ordering to maintain.
package store

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Loyalty is the per-user loyalty point ledger. Credit is the only mutator;
// balances are monotonically non-decreasing.
type Loyalty struct {
	mu     sync.Mutex
	points map[int64]int
}

// NewLoyalty returns an empty ledger.
func NewLoyalty() *Loyalty {
	return &Loyalty{points: make(map[int64]int)}
}

// Credit adds points to the user's balance and returns the new total.
// Negative amounts are ignored: the ledger never debits.
func (l *Loyalty) Credit(userID int64, points int, reason string) int {
	if points < 0 {
		points = 0
	}
	l.mu.Lock()
	l.points[userID] += points
	total := l.points[userID]
	l.mu.Unlock()

	log.Info().
		Int64("user_id", userID).
		Int("points_added", points).
		Str("reason", reason).
		Int("new_total", total).
		Msg("loyalty points added")
	return total
}

// Balance returns the user's balance, 0 for unknown users.
func (l *Loyalty) Balance(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.points[userID]
}
