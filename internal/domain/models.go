// Package domain defines the core entities of the repair-request workflow:
// repair requests and their lifecycle statuses, catalog items, notification
// intents, and the read-side rollup/statistics shapes. These types carry no
// behavior beyond small pure helpers; all mutation goes through the keyed
// stores.
package domain

import "time"

// Status is the lifecycle state of a repair request.
//
// Valid transitions:
//
//	Pending    → InProgress | Cancelled
//	InProgress → Completed  | Cancelled
//
// Completed and Cancelled are terminal; no transition leaves them.
type Status string

// Lifecycle statuses. Wire values match the operator tooling and CSV exports.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether the lifecycle permits moving from s to next.
// Self-transitions are not permitted.
func (s Status) CanTransition(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress || next == StatusCancelled
	case StatusInProgress:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// RepairRequest is a single service order placed by a user. ID, UserID,
// CatalogItemID, IsBundle, FinalPrice, and CreatedAt are immutable after
// creation; Status, Comment, and ScheduledTime are mutated only through
// the request store.
type RepairRequest struct {
	ID            int64      `json:"id"`
	UserID        int64      `json:"user_id"`
	CatalogItemID string     `json:"catalog_item_id"`
	IsBundle      bool       `json:"is_bundle"`
	FinalPrice    int        `json:"final_price"`
	Status        Status     `json:"status"`
	Comment       string     `json:"comment,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Active reports whether the request still needs operator attention.
func (r RepairRequest) Active() bool {
	return r.Status == StatusPending || r.Status == StatusInProgress
}

// CatalogItem is a statically configured repair service or bundled offer.
// Bundles carry a fixed loyalty point value; standard services award
// floor(price/10) points instead.
type CatalogItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int    `json:"price"`
	Points      int    `json:"points,omitempty"` // bundles only
	Description string `json:"description"`
	Duration    string `json:"duration"`
	IsBundle    bool   `json:"is_bundle"`
}

// LoyaltyPoints returns the points credited for ordering this item.
func (c CatalogItem) LoyaltyPoints() int {
	if c.IsBundle {
		return c.Points
	}
	return c.Price / 10
}

// UserSettings holds per-user contact details and notification preference.
type UserSettings struct {
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Notifications bool   `json:"notifications"`
}

// Urgency classifies a notification intent for the downstream sender.
type Urgency string

// Notification urgencies.
const (
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// NotificationIntent is the core → notifier boundary payload. Delivery is
// fire-and-forget: failures are logged by the notifier and never retried.
type NotificationIntent struct {
	TargetUserID int64   `json:"target_user_id"`
	Text         string  `json:"text"`
	Urgency      Urgency `json:"urgency"`
}

// ClientRollup aggregates a user's ordering history for the admin client
// list and the clients CSV export.
type ClientRollup struct {
	UserID       int64     `json:"user_id"`
	TotalOrders  int       `json:"total_orders"`
	TotalSpent   int       `json:"total_spent"`
	Points       int       `json:"points"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// WindowStats is an aggregate over requests created inside a time window.
type WindowStats struct {
	Requests int `json:"requests"`
	Revenue  int `json:"revenue"`
}

// ItemPopularity ranks a catalog item by how often it was ordered.
type ItemPopularity struct {
	CatalogItemID string `json:"catalog_item_id"`
	Name          string `json:"name"`
	Count         int    `json:"count"`
	SharePercent  int    `json:"share_percent"`
}

// Stats is the full admin statistics snapshot.
type Stats struct {
	Total         int              `json:"total"`
	Active        int              `json:"active"`
	Completed     int              `json:"completed"`
	Cancelled     int              `json:"cancelled"`
	TotalRevenue  int              `json:"total_revenue"`
	UniqueClients int              `json:"unique_clients"`
	Today         WindowStats      `json:"today"`
	Week          WindowStats      `json:"week"`
	Month         WindowStats      `json:"month"`
	TopItems      []ItemPopularity `json:"top_items"`
}
