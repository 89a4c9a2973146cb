package services

import (
	"github.com/dmitryilife/repairbot/internal/domain"
	"github.com/dmitryilife/repairbot/internal/store"
)

// ProfileService bundles the read side of a user's profile and the contact
// capture mutations.
type ProfileService struct {
	Requests *store.Requests
	Ledger   *store.Loyalty
	Settings *store.Settings
}

// ProfileSummary is everything the profile view renders.
type ProfileSummary struct {
	UserID     int64
	Points     int
	TotalSpent int
	Requests   []domain.RepairRequest
	Settings   domain.UserSettings
}

// Summary assembles the user's profile from the stores.
func (s *ProfileService) Summary(userID int64) ProfileSummary {
	reqs := s.Requests.ByUser(userID)
	total := 0
	for _, r := range reqs {
		total += r.FinalPrice
	}
	return ProfileSummary{
		UserID:     userID,
		Points:     s.Ledger.Balance(userID),
		TotalSpent: total,
		Requests:   reqs,
		Settings:   s.Settings.Get(userID),
	}
}

// SavePhone validates and stores a captured phone number. Returns
// ErrInvalidInput on a malformed number; the caller keeps the capture mode
// so the user can retry.
func (s *ProfileService) SavePhone(userID int64, raw string) error {
	phone, err := ValidatePhone(raw)
	if err != nil {
		return err
	}
	s.Settings.SetPhone(userID, phone)
	return nil
}

// SaveEmail validates and stores a captured email address.
func (s *ProfileService) SaveEmail(userID int64, raw string) error {
	email, err := ValidateEmail(raw)
	if err != nil {
		return err
	}
	s.Settings.SetEmail(userID, email)
	return nil
}
