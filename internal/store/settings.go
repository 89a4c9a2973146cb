package store

import (
	"sync"

	"github.com/dmitryilife/repairbot/internal/domain"
)

// Settings is the per-user contact details and notification preference
// store. Users who never touched settings read as the default: no contact
// details, notifications enabled.
type Settings struct {
	mu      sync.Mutex
	entries map[int64]domain.UserSettings
}

// NewSettings returns an empty settings store.
func NewSettings() *Settings {
	return &Settings{entries: make(map[int64]domain.UserSettings)}
}

// Get returns the user's settings or the default when absent.
func (s *Settings) Get(userID int64) domain.UserSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.entries[userID]; ok {
		return e
	}
	return domain.UserSettings{Notifications: true}
}

// SetPhone records the user's phone number.
func (s *Settings) SetPhone(userID int64, phone string) {
	s.mutate(userID, func(u *domain.UserSettings) { u.Phone = phone })
}

// SetEmail records the user's email address.
func (s *Settings) SetEmail(userID int64, email string) {
	s.mutate(userID, func(u *domain.UserSettings) { u.Email = email })
}

// ToggleNotifications flips the notification preference and returns the new
// value.
func (s *Settings) ToggleNotifications(userID int64) bool {
	var v bool
	s.mutate(userID, func(u *domain.UserSettings) {
		u.Notifications = !u.Notifications
		v = u.Notifications
	})
	return v
}

// NotificationsEnabled reports whether the user accepts broadcast messages.
func (s *Settings) NotificationsEnabled(userID int64) bool {
	return s.Get(userID).Notifications
}

func (s *Settings) mutate(userID int64, fn func(*domain.UserSettings)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[userID]
	if !ok {
		e = domain.UserSettings{Notifications: true}
	}
	fn(&e)
	s.entries[userID] = e
}
