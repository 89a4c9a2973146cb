// Package notify delivers notification intents to end users. The core
// treats delivery as fire-and-forget: implementations log failures and
// never retry, and the caller's state is already committed by the time an
// intent reaches a Notifier.
package notify

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/domain"
)

// Notifier sends a single notification intent. Implementations must be
// time-bounded: the core never waits indefinitely on delivery.
type Notifier interface {
	Send(ctx context.Context, intent domain.NotificationIntent) error
}

// Func adapts a function to the Notifier interface.
type Func func(ctx context.Context, intent domain.NotificationIntent) error

// Send calls f.
func (f Func) Send(ctx context.Context, intent domain.NotificationIntent) error {
	return f(ctx, intent)
}

// Log is a Notifier that only writes the intent to the structured log.
// Used in development and as the default when no transport is configured.
type Log struct{}

// Send logs the intent and always succeeds.
func (Log) Send(_ context.Context, intent domain.NotificationIntent) error {
	log.Info().
		Int64("target_user_id", intent.TargetUserID).
		Str("urgency", string(intent.Urgency)).
		Str("text", intent.Text).
		Msg("notification")
	return nil
}

// BestEffort wraps a Notifier so that delivery failures are logged and
// swallowed. The scheduler and dispatcher use it to keep a failing
// transport from surfacing into core state; callers that account for
// delivery errors, such as the broadcast service, take the raw Notifier.
func BestEffort(n Notifier) Func {
	return func(ctx context.Context, intent domain.NotificationIntent) error {
		if err := n.Send(ctx, intent); err != nil {
			log.Error().
				Err(err).
				Int64("target_user_id", intent.TargetUserID).
				Msg("notification delivery failed")
		}
		return nil
	}
}
