// Read-side aggregates over the request store. These rescan the request map
// on every call, which is fine at this service's analytical scale; nothing
// here mutates state.
package store

import (
	"math"
	"sort"
	"time"

	"github.com/dmitryilife/repairbot/internal/catalog"
	"github.com/dmitryilife/repairbot/internal/domain"
)

// topItemsLimit caps the popularity ranking in the statistics snapshot.
const topItemsLimit = 5

// Window aggregates requests created at or after from.
func (s *Requests) Window(from time.Time) domain.WindowStats {
	var out domain.WindowStats
	for _, req := range s.snapshot() {
		if !req.CreatedAt.Before(from) {
			out.Requests++
			out.Revenue += req.FinalPrice
		}
	}
	return out
}

// Stats builds the full statistics snapshot. Day, week (Monday start), and
// month windows are evaluated against the store clock.
func (s *Requests) Stats() domain.Stats {
	now := s.clock.Now()
	all := s.snapshot()

	st := domain.Stats{Total: len(all)}
	users := make(map[int64]struct{})
	counts := make(map[string]int)
	names := make(map[string]string)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	week := today.AddDate(0, 0, -mondayOffset(today.Weekday()))
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	for _, req := range all {
		switch {
		case req.Active():
			st.Active++
		case req.Status == domain.StatusCompleted:
			st.Completed++
		case req.Status == domain.StatusCancelled:
			st.Cancelled++
		}
		st.TotalRevenue += req.FinalPrice
		users[req.UserID] = struct{}{}
		counts[req.CatalogItemID]++
		names[req.CatalogItemID] = catalog.Name(req.CatalogItemID, req.IsBundle)

		addWindow(&st.Today, req, today)
		addWindow(&st.Week, req, week)
		addWindow(&st.Month, req, month)
	}
	st.UniqueClients = len(users)
	st.TopItems = topItems(counts, names, len(all))
	return st
}

// Rollups aggregates per-client ordering history, sorted by total spent
// descending. Loyalty balances come from the ledger.
func (s *Requests) Rollups() []domain.ClientRollup {
	byUser := make(map[int64]*domain.ClientRollup)
	for _, req := range s.snapshot() {
		c, ok := byUser[req.UserID]
		if !ok {
			c = &domain.ClientRollup{UserID: req.UserID}
			byUser[req.UserID] = c
		}
		c.TotalOrders++
		c.TotalSpent += req.FinalPrice
		if req.CreatedAt.After(c.LastActiveAt) {
			c.LastActiveAt = req.CreatedAt
		}
	}
	out := make([]domain.ClientRollup, 0, len(byUser))
	for _, c := range byUser {
		c.Points = s.ledger.Balance(c.UserID)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSpent == out[j].TotalSpent {
			return out[i].UserID < out[j].UserID
		}
		return out[i].TotalSpent > out[j].TotalSpent
	})
	return out
}

func addWindow(w *domain.WindowStats, req domain.RepairRequest, from time.Time) {
	if !req.CreatedAt.Before(from) {
		w.Requests++
		w.Revenue += req.FinalPrice
	}
}

// mondayOffset returns how many days back the ISO week started.
func mondayOffset(d time.Weekday) int {
	if d == time.Sunday {
		return 6
	}
	return int(d) - 1
}

func topItems(counts map[string]int, names map[string]string, total int) []domain.ItemPopularity {
	if total == 0 {
		return nil
	}
	out := make([]domain.ItemPopularity, 0, len(counts))
	for id, n := range counts {
		out = append(out, domain.ItemPopularity{
			CatalogItemID: id,
			Name:          names[id],
			Count:         n,
			SharePercent:  int(math.Round(float64(n) / float64(total) * 100)),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].CatalogItemID < out[j].CatalogItemID
		}
		return out[i].Count > out[j].Count
	})
	if len(out) > topItemsLimit {
		out = out[:topItemsLimit]
	}
	return out
}
