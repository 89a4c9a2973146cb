package services

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/domain"
	"github.com/dmitryilife/repairbot/internal/notify"
	"github.com/dmitryilife/repairbot/internal/render"
	"github.com/dmitryilife/repairbot/internal/store"
)

var broadcastMessages = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "broadcast_messages_total",
		Help: "Broadcast deliveries by result.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(broadcastMessages)
}

// BroadcastService sends an operator message to every known client. The
// audience is every distinct user with at least one repair request; users
// who disabled notifications are skipped and not counted as failures.
type BroadcastService struct {
	Requests *store.Requests
	Settings *store.Settings
	Notifier notify.Notifier
}

// Broadcast delivers text to the audience and returns the success and
// failure counts. Individual delivery failures are logged and do not stop
// the loop.
func (b *BroadcastService) Broadcast(ctx context.Context, text string) (success, failed int) {
	text = Sanitize(text)
	for _, userID := range b.Requests.UserIDs() {
		if !b.Settings.NotificationsEnabled(userID) {
			continue
		}
		err := b.Notifier.Send(ctx, domain.NotificationIntent{
			TargetUserID: userID,
			Text:         render.BroadcastText(text),
			Urgency:      domain.UrgencyNormal,
		})
		if err != nil {
			failed++
			broadcastMessages.WithLabelValues("error").Inc()
			log.Error().Err(err).Int64("user_id", userID).Msg("broadcast delivery failed")
			continue
		}
		success++
		broadcastMessages.WithLabelValues("ok").Inc()
	}
	log.Info().Int("success", success).Int("failed", failed).Msg("broadcast finished")
	return success, failed
}
