// Package dispatch routes inbound conversation events to the workflow
// services and renders the replies.
//
// The dispatcher is the single boundary between the transport (whatever
// delivers user events) and the domain: it applies the per-user rate limit,
// resolves the conversation capture mode for free text, enforces operator
// gating, and turns store results into outbound notification intents. All
// panics from downstream code are recovered here so one malformed event
// cannot take the process down.
package dispatch

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/catalog"
	"github.com/dmitryilife/repairbot/internal/domain"
	"github.com/dmitryilife/repairbot/internal/notify"
	"github.com/dmitryilife/repairbot/internal/render"
	"github.com/dmitryilife/repairbot/internal/services"
	"github.com/dmitryilife/repairbot/internal/store"
)

var (
	eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_events_total",
			Help: "Inbound conversation events processed, by kind.",
		},
		[]string{"kind"},
	)
	rateLimitedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_rate_limited_total",
			Help: "Command events rejected by the per-user rate limit.",
		},
	)
)

func init() {
	prometheus.MustRegister(eventsTotal, rateLimitedTotal)
}

// EventKind distinguishes the three inbound event shapes.
type EventKind string

// Inbound event kinds.
const (
	KindCommand  EventKind = "command"
	KindFreeText EventKind = "free_text"
	KindCallback EventKind = "callback"
)

// Event is one normalized inbound user action.
type Event struct {
	ConversationID int64     `json:"conversationId"`
	UserID         int64     `json:"userId"`
	Kind           EventKind `json:"kind"`
	// Text carries the command or the free-text body.
	Text string `json:"text,omitempty"`
	// Action carries the callback payload, e.g. "status_17_in_progress".
	Action string `json:"action,omitempty"`
}

// Menu commands understood by the dispatcher. These are the reply-keyboard
// button labels, so they double as the command vocabulary.
const (
	CmdStart      = "/start"
	CmdMainMenu   = "🏠 Главное меню"
	CmdOrder      = "🔧 Заказать ремонт"
	CmdOffers     = "🎁 Специальные предложения"
	CmdProfile    = "📱 Мой профиль"
	CmdHelp       = "❓ Помощь"
	CmdSettings   = "⚙️ Настройки"
	CmdAdminPanel = "⚙️ Панель администратора"
	CmdBroadcast  = "📢 Рассылка"
	CmdActive     = "📋 Активные заявки"
	CmdAll        = "📊 Все заявки"
	CmdClients    = "👥 Управление клиентами"
	CmdStats      = "📈 Статистика"
)

// Dispatcher wires inbound events to the stores and services.
type Dispatcher struct {
	Requests      *store.Requests
	Conversations *store.Conversations
	RateLimit     *store.RateLimit
	Settings      *store.Settings
	Profile       *services.ProfileService
	Broadcast     *services.BroadcastService
	Notifier      notify.Notifier
	IsOperator    func(int64) bool
	OperatorIDs   []int64
	// Location is the timezone schedule input is interpreted in. Defaults
	// to time.Local when nil.
	Location *time.Location
}

// Handle processes one inbound event. It never returns an error to the
// transport: failures are logged and answered with a generic message so the
// conversation always gets a response.
func (d *Dispatcher) Handle(ctx context.Context, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Int64("user_id", ev.UserID).
				Str("kind", string(ev.Kind)).
				Msg("dispatch: recovered panic")
			d.reply(ctx, ev, render.GenericError())
		}
	}()
	eventsTotal.WithLabelValues(string(ev.Kind)).Inc()

	switch ev.Kind {
	case KindCommand:
		if !d.RateLimit.Allow(ev.UserID) {
			rateLimitedTotal.Inc()
			d.reply(ctx, ev, render.RateLimited())
			return
		}
		d.handleCommand(ctx, ev)
	case KindCallback:
		d.handleCallback(ctx, ev)
	case KindFreeText:
		d.handleFreeText(ctx, ev)
	default:
		log.Warn().Str("kind", string(ev.Kind)).Msg("dispatch: unknown event kind")
	}
}

func (d *Dispatcher) handleCommand(ctx context.Context, ev Event) {
	switch ev.Text {
	case CmdStart, CmdMainMenu:
		d.Conversations.Clear(ev.ConversationID)
		d.reply(ctx, ev, render.Welcome(d.operator(ev.UserID)))
	case CmdOrder:
		d.reply(ctx, ev, render.ServiceList())
	case CmdOffers:
		d.reply(ctx, ev, render.OfferList())
	case CmdProfile:
		sum := d.Profile.Summary(ev.UserID)
		d.reply(ctx, ev, render.Profile(sum.UserID, sum.Settings, sum.Points, sum.TotalSpent, sum.Requests))
	case CmdHelp:
		d.reply(ctx, ev, render.HelpMenu())
	case CmdSettings:
		d.reply(ctx, ev, render.SettingsView(d.Settings.Get(ev.UserID)))
	case CmdAdminPanel:
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.AdminPanel())
		})
	case CmdBroadcast:
		d.operatorOnly(ctx, ev, func() {
			d.Conversations.Set(ev.ConversationID, domain.ConversationMode{Kind: domain.ModeAwaitingBroadcastText})
			d.reply(ctx, ev, render.BroadcastPrompt())
		})
	case CmdActive:
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.ActiveRequests(d.Requests.Active(), d.Settings.Get))
		})
	case CmdAll:
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.AllRequests(d.Requests.All()))
		})
	case CmdClients:
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.Clients(d.Requests.Rollups(), d.Settings.Get))
		})
	case CmdStats:
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.StatsView(d.Requests.Stats()))
		})
	default:
		log.Debug().Str("text", ev.Text).Msg("dispatch: unknown command")
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, ev Event) {
	action := ev.Action
	switch {
	case action == "back_to_main":
		d.Conversations.Clear(ev.ConversationID)
		d.reply(ctx, ev, render.Welcome(d.operator(ev.UserID)))
	case action == "back_to_admin":
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.AdminPanel())
		})
	case strings.HasPrefix(action, "help_"):
		d.reply(ctx, ev, render.HelpTopic(strings.TrimPrefix(action, "help_")))
	case strings.HasPrefix(action, "service_"):
		d.createRequest(ctx, ev, action, false)
	case strings.HasPrefix(action, "offer_"):
		d.createRequest(ctx, ev, action, true)
	case strings.HasPrefix(action, "status_"):
		d.operatorOnly(ctx, ev, func() {
			d.transition(ctx, ev, strings.TrimPrefix(action, "status_"))
		})
	case strings.HasPrefix(action, "update_"):
		d.operatorOnly(ctx, ev, func() {
			id, ok := parseID(strings.TrimPrefix(action, "update_"))
			if !ok {
				d.reply(ctx, ev, render.RequestNotFound())
				return
			}
			req, err := d.Requests.Get(id)
			if err != nil {
				d.reply(ctx, ev, render.RequestNotFound())
				return
			}
			d.reply(ctx, ev, render.RequestCard(req, d.Settings.Get(req.UserID)))
		})
	case strings.HasPrefix(action, "comment_"):
		d.operatorOnly(ctx, ev, func() {
			id, ok := parseID(strings.TrimPrefix(action, "comment_"))
			if !ok {
				d.reply(ctx, ev, render.RequestNotFound())
				return
			}
			d.Conversations.Set(ev.ConversationID, domain.AwaitingComment(id))
			d.reply(ctx, ev, render.CommentPrompt())
		})
	case strings.HasPrefix(action, "schedule_"):
		d.operatorOnly(ctx, ev, func() {
			id, ok := parseID(strings.TrimPrefix(action, "schedule_"))
			if !ok {
				d.reply(ctx, ev, render.RequestNotFound())
				return
			}
			d.Conversations.Set(ev.ConversationID, domain.AwaitingSchedule(id))
			d.reply(ctx, ev, render.SchedulePrompt())
		})
	case action == "settings_notifications":
		enabled := d.Settings.ToggleNotifications(ev.UserID)
		d.reply(ctx, ev, render.NotificationsToggled(enabled))
	case action == "settings_contacts":
		d.Conversations.Set(ev.ConversationID, domain.ConversationMode{Kind: domain.ModeAwaitingPhone})
		d.reply(ctx, ev, render.PhonePrompt())
	case action == "export_stats":
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.ExportHint("/admin/export/requests.csv"))
		})
	case action == "export_clients":
		d.operatorOnly(ctx, ev, func() {
			d.reply(ctx, ev, render.ExportHint("/admin/export/clients.csv"))
		})
	default:
		log.Debug().Str("action", action).Msg("dispatch: unknown callback")
	}
}

// createRequest handles a catalog selection callback: the item id is the
// whole action string, matching the button payloads.
func (d *Dispatcher) createRequest(ctx context.Context, ev Event, itemID string, bundle bool) {
	item, ok := catalog.Lookup(itemID, bundle)
	if !ok {
		log.Warn().Str("item", itemID).Msg("dispatch: unknown catalog item")
		d.reply(ctx, ev, render.GenericError())
		return
	}
	req, points := d.Requests.Create(ev.UserID, item)
	d.reply(ctx, ev, render.RequestCreated(item, req, points))
	for _, opID := range d.OperatorIDs {
		d.send(ctx, domain.NotificationIntent{
			TargetUserID: opID,
			Text:         render.NewRequestForOperator(item, req),
			Urgency:      domain.UrgencyHigh,
		})
	}
}

// transition parses "<id>_<status>" and applies the lifecycle change. The
// status tail may itself contain underscores (in_progress), so only the
// first separator splits.
func (d *Dispatcher) transition(ctx context.Context, ev Event, payload string) {
	idStr, statusStr, ok := strings.Cut(payload, "_")
	if !ok {
		d.reply(ctx, ev, render.RequestNotFound())
		return
	}
	id, idOK := parseID(idStr)
	next := domain.Status(statusStr)
	if !idOK || !next.Valid() {
		d.reply(ctx, ev, render.RequestNotFound())
		return
	}
	_, intent, err := d.Requests.Transition(id, next, ev.UserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		d.reply(ctx, ev, render.RequestNotFound())
	case errors.Is(err, domain.ErrForbidden):
		d.reply(ctx, ev, render.Forbidden())
	case errors.Is(err, domain.ErrInvalidTransition):
		d.reply(ctx, ev, render.InvalidTransitionText())
	case err != nil:
		d.reply(ctx, ev, render.GenericError())
	default:
		d.notifyOwner(ctx, intent)
		d.reply(ctx, ev, render.StatusUpdated())
	}
}

func (d *Dispatcher) handleFreeText(ctx context.Context, ev Event) {
	mode := d.Conversations.Get(ev.ConversationID)
	switch mode.Kind {
	case domain.ModeIdle:
		// Nothing awaited; stray text is dropped.
	case domain.ModeAwaitingBroadcastText:
		if !d.operator(ev.UserID) {
			d.Conversations.Clear(ev.ConversationID)
			d.reply(ctx, ev, render.Forbidden())
			return
		}
		success, failed := d.Broadcast.Broadcast(ctx, ev.Text)
		d.Conversations.Clear(ev.ConversationID)
		d.reply(ctx, ev, render.BroadcastReport(success, failed))
	case domain.ModeAwaitingComment:
		if !d.operator(ev.UserID) {
			d.Conversations.Clear(ev.ConversationID)
			d.reply(ctx, ev, render.Forbidden())
			return
		}
		d.captureComment(ctx, ev, mode.RequestID)
	case domain.ModeAwaitingSchedule:
		if !d.operator(ev.UserID) {
			d.Conversations.Clear(ev.ConversationID)
			d.reply(ctx, ev, render.Forbidden())
			return
		}
		d.captureSchedule(ctx, ev, mode.RequestID)
	case domain.ModeAwaitingPhone:
		if err := d.Profile.SavePhone(ev.UserID, ev.Text); err != nil {
			// Mode stays set so the user can retry.
			d.reply(ctx, ev, render.InvalidPhone())
			return
		}
		d.Conversations.Set(ev.ConversationID, domain.ConversationMode{Kind: domain.ModeAwaitingEmail})
		d.reply(ctx, ev, render.EmailPrompt())
	case domain.ModeAwaitingEmail:
		if err := d.Profile.SaveEmail(ev.UserID, ev.Text); err != nil {
			d.reply(ctx, ev, render.InvalidEmail())
			return
		}
		d.Conversations.Clear(ev.ConversationID)
		d.reply(ctx, ev, render.ContactsSaved())
	}
}

func (d *Dispatcher) captureComment(ctx context.Context, ev Event, requestID int64) {
	text := services.Sanitize(ev.Text)
	_, err := d.Requests.SetComment(requestID, text, ev.UserID)
	d.Conversations.Clear(ev.ConversationID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		d.reply(ctx, ev, render.RequestNotFound())
	case errors.Is(err, domain.ErrInvalidTransition):
		d.reply(ctx, ev, render.InvalidTransitionText())
	case err != nil:
		d.reply(ctx, ev, render.GenericError())
	default:
		d.reply(ctx, ev, render.CommentSaved())
	}
}

func (d *Dispatcher) captureSchedule(ctx context.Context, ev Event, requestID int64) {
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	at, err := services.ParseScheduleTime(ev.Text, loc)
	if err != nil {
		// Mode stays set so the operator can retry the format.
		d.reply(ctx, ev, render.InvalidSchedule())
		return
	}
	_, intent, err := d.Requests.SetSchedule(requestID, at, ev.UserID)
	d.Conversations.Clear(ev.ConversationID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		d.reply(ctx, ev, render.RequestNotFound())
	case errors.Is(err, domain.ErrInvalidTransition):
		d.reply(ctx, ev, render.InvalidTransitionText())
	case err != nil:
		d.reply(ctx, ev, render.GenericError())
	default:
		d.notifyOwner(ctx, intent)
		d.reply(ctx, ev, render.ScheduleSaved())
	}
}

// operatorOnly runs fn for operators and answers everyone else with the
// refusal text.
func (d *Dispatcher) operatorOnly(ctx context.Context, ev Event, fn func()) {
	if !d.operator(ev.UserID) {
		d.reply(ctx, ev, render.Forbidden())
		return
	}
	fn()
}

func (d *Dispatcher) operator(userID int64) bool {
	return d.IsOperator != nil && d.IsOperator(userID)
}

// reply answers the acting user directly.
func (d *Dispatcher) reply(ctx context.Context, ev Event, text string) {
	d.send(ctx, domain.NotificationIntent{
		TargetUserID: ev.UserID,
		Text:         text,
		Urgency:      domain.UrgencyNormal,
	})
}

// notifyOwner delivers a request-owner intent. Status changes and schedule
// assignments are always delivered; the notifications toggle only opts a
// user out of broadcasts.
func (d *Dispatcher) notifyOwner(ctx context.Context, intent domain.NotificationIntent) {
	d.send(ctx, intent)
}

func (d *Dispatcher) send(ctx context.Context, intent domain.NotificationIntent) {
	if err := d.Notifier.Send(ctx, intent); err != nil {
		log.Warn().Err(err).Int64("user_id", intent.TargetUserID).Msg("dispatch: notification send failed")
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
