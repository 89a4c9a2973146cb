package store

import (
	"testing"
	"time"

	"github.com/dmitryilife/repairbot/internal/domain"
)

func TestStatsSnapshot(t *testing.T) {
	s, _, _, clk := newTestRequests(t)

	a, _ := s.Create(1, standardService) // 1500
	clk.Advance(time.Minute)
	b, _ := s.Create(2, bundleOffer) // 3000
	clk.Advance(time.Minute)
	s.Create(1, standardService) // 1500, stays pending

	s.Transition(a.ID, domain.StatusInProgress, operatorID)
	s.Transition(a.ID, domain.StatusCompleted, operatorID)
	s.Transition(b.ID, domain.StatusCancelled, operatorID)

	st := s.Stats()
	if st.Total != 3 || st.Active != 1 || st.Completed != 1 || st.Cancelled != 1 {
		t.Errorf("counts wrong: %+v", st)
	}
	if st.TotalRevenue != 6000 {
		t.Errorf("revenue = %d, want 6000", st.TotalRevenue)
	}
	if st.UniqueClients != 2 {
		t.Errorf("unique clients = %d, want 2", st.UniqueClients)
	}
	// All three created today.
	if st.Today.Requests != 3 || st.Today.Revenue != 6000 {
		t.Errorf("today window = %+v", st.Today)
	}
	if len(st.TopItems) != 2 {
		t.Fatalf("top items = %+v", st.TopItems)
	}
	if st.TopItems[0].CatalogItemID != "service_1" || st.TopItems[0].Count != 2 {
		t.Errorf("top item = %+v", st.TopItems[0])
	}
	if st.TopItems[0].SharePercent != 67 {
		t.Errorf("share = %d, want round(2/3*100)", st.TopItems[0].SharePercent)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	s, _, _, _ := newTestRequests(t)
	st := s.Stats()
	if st.Total != 0 || len(st.TopItems) != 0 {
		t.Errorf("empty stats = %+v", st)
	}
}

func TestRollups(t *testing.T) {
	s, ledger, _, clk := newTestRequests(t)

	s.Create(1, standardService) // user 1: 1500, 150 pts
	clk.Advance(time.Minute)
	s.Create(2, bundleOffer) // user 2: 3000, 450 pts
	clk.Advance(time.Minute)
	last, _ := s.Create(1, standardService) // user 1: total 3000

	rollups := s.Rollups()
	if len(rollups) != 2 {
		t.Fatalf("rollups len = %d", len(rollups))
	}
	// Sorted by total spent desc; tie (3000 vs 3000) broken by user id.
	if rollups[0].UserID != 1 || rollups[1].UserID != 2 {
		t.Errorf("rollup order: %+v", rollups)
	}
	u1 := rollups[0]
	if u1.TotalOrders != 2 || u1.TotalSpent != 3000 {
		t.Errorf("user 1 rollup = %+v", u1)
	}
	if u1.Points != ledger.Balance(1) {
		t.Errorf("rollup points %d != ledger %d", u1.Points, ledger.Balance(1))
	}
	if !u1.LastActiveAt.Equal(last.CreatedAt) {
		t.Errorf("last active = %v, want %v", u1.LastActiveAt, last.CreatedAt)
	}
}
