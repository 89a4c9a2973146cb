// Command repairbot runs the repair-request workflow service: an HTTP
// webhook that accepts conversation events, the in-memory workflow state
// (requests, loyalty, settings, capture modes), the reminder scheduler, and
// the operator/admin surface (stats, client rollups, CSV exports).
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dmitryilife/repairbot/internal/clock"
	"github.com/dmitryilife/repairbot/internal/config"
	"github.com/dmitryilife/repairbot/internal/dispatch"
	"github.com/dmitryilife/repairbot/internal/domain"
	httpapi "github.com/dmitryilife/repairbot/internal/http"
	"github.com/dmitryilife/repairbot/internal/notify"
	"github.com/dmitryilife/repairbot/internal/observability"
	"github.com/dmitryilife/repairbot/internal/scheduler"
	"github.com/dmitryilife/repairbot/internal/services"
	"github.com/dmitryilife/repairbot/internal/store"
	"github.com/dmitryilife/repairbot/internal/sysutil"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	// Optional .env for local development; real deployments use the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.MustLoad()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	sysutil.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, version)
	if err != nil {
		log.Fatal().Err(err).Msg("otel setup failed")
	}
	defer func() {
		if err := shutdownOTel(context.Background()); err != nil {
			log.Warn().Err(err).Msg("otel shutdown failed")
		}
	}()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	operators := make(map[int64]struct{}, len(cfg.OperatorIDs))
	for _, id := range cfg.OperatorIDs {
		operators[id] = struct{}{}
	}
	isOperator := func(id int64) bool {
		_, ok := operators[id]
		return ok
	}

	// Outbound delivery: Telegram when a token is configured, otherwise log
	// only. The scheduler and dispatcher take the best-effort wrapper so a
	// failing transport never stalls the workflow; the broadcast service
	// takes the raw sender because its report counts real delivery errors.
	var sender notify.Notifier = notify.Log{}
	if cfg.Telegram.Token != "" {
		base := sysutil.FirstNonEmpty(cfg.Telegram.APIBase, "https://api.telegram.org")
		sender = notify.NewTelegram(cfg.Telegram.Token, base)
	}
	notifier := notify.BestEffort(sender)

	clk := clock.NewSystem()
	ledger := store.NewLoyalty()
	settings := store.NewSettings()

	sched := scheduler.New(func(ctx context.Context, intent domain.NotificationIntent) {
		_ = notifier.Send(ctx, intent)
	}, clk)

	requests := store.NewRequests(store.RequestsConfig{
		Clock:        clk,
		Ledger:       ledger,
		Reminders:    sched,
		IsOperator:   isOperator,
		CreationLead: cfg.CreationLead,
		ScheduleLead: cfg.ScheduleLead,
	})

	dispatcher := &dispatch.Dispatcher{
		Requests:      requests,
		Conversations: store.NewConversations(cfg.ConversationTTL, clk),
		RateLimit:     store.NewRateLimit(cfg.RateWindow, clk),
		Settings:      settings,
		Profile:       &services.ProfileService{Requests: requests, Ledger: ledger, Settings: settings},
		Broadcast:     &services.BroadcastService{Requests: requests, Settings: settings, Notifier: sender},
		Notifier:      notifier,
		IsOperator:    isOperator,
		OperatorIDs:   cfg.OperatorIDs,
		Location:      loc,
	}

	engine := gin.New()
	httpapi.RegisterRoutes(engine, httpapi.Deps{
		Dispatcher: dispatcher,
		Requests:   requests,
		Settings:   settings,
		IsOperator: isOperator,
	}, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("version", version).
			Int("operators", len(cfg.OperatorIDs)).
			Msg("repairbot listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
