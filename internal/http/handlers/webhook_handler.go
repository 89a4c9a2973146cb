// Package handlers provides HTTP handler implementations for the public API.
//
// This file exposes the inbound event webhook: the transport that delivers
// user actions (commands, callback taps, free text) posts them here as JSON
// and the dispatcher routes them through the workflow. Replies travel out of
// band through the configured notifier, so the webhook itself only
// acknowledges receipt.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitryilife/repairbot/internal/dispatch"
	"github.com/dmitryilife/repairbot/internal/http/middleware"
	"github.com/dmitryilife/repairbot/internal/store"
)

// Handler bundles the dependencies shared by all endpoints.
type Handler struct {
	Dispatcher *dispatch.Dispatcher
	Requests   *store.Requests
	Settings   *store.Settings
	IsOperator func(int64) bool
}

// New constructs the handler set.
func New(d *dispatch.Dispatcher, requests *store.Requests, settings *store.Settings, isOperator func(int64) bool) *Handler {
	return &Handler{Dispatcher: d, Requests: requests, Settings: settings, IsOperator: isOperator}
}

// HandleEvent accepts one conversation event and runs it through the
// dispatcher.
//
// POST /webhook/event
func (h *Handler) HandleEvent(c *gin.Context) {
	var ev dispatch.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid event payload")
		return
	}
	if ev.UserID <= 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "userId must be a positive integer")
		return
	}
	switch ev.Kind {
	case dispatch.KindCommand, dispatch.KindFreeText, dispatch.KindCallback:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unknown event kind")
		return
	}
	// Conversation defaults to the direct chat with the user.
	if ev.ConversationID == 0 {
		ev.ConversationID = ev.UserID
	}

	lg := middleware.LoggerFrom(c)
	lg.Info().
		Int64("user_id", ev.UserID).
		Str("kind", string(ev.Kind)).
		Msg("webhook event accepted")

	h.Dispatcher.Handle(c.Request.Context(), ev)
	ok(c, http.StatusAccepted, gin.H{"status": "accepted"})
}
