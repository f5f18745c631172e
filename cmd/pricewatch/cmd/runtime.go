package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"pricewatch/internal/config"
	"pricewatch/internal/engine"
	"pricewatch/internal/extract"
	"pricewatch/internal/notify"
	"pricewatch/internal/store"
	"pricewatch/pkg/logger"
)

// runtime bundles the wired application dependencies for one command
// invocation.
type runtime struct {
	cfg      *config.Config
	log      *slog.Logger
	store    store.Store
	notifier notify.Notifier
	tracker  *engine.Tracker
}

// buildRuntime loads configuration and wires the store, extractor, and
// notifier into a Tracker. With dryRun set, notifications are logged and
// discarded instead of delivered.
func buildRuntime(ctx context.Context, dryRun bool) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	s, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	extractor := extract.NewPageExtractor(
		extract.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
		extract.WithUserAgent(cfg.Fetch.UserAgent),
		extract.WithAcceptLanguage(cfg.Fetch.AcceptLanguage),
		extract.WithRateLimiter(rate.NewLimiter(
			rate.Limit(cfg.Fetch.RatePerSecond), cfg.Fetch.RateBurst,
		)),
	)

	var notifier notify.Notifier
	if dryRun {
		notifier = notify.NewNoopNotifier(log)
	} else {
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Host, cfg.SMTP.Port,
			notify.WithSender(cfg.SMTP.Address, cfg.SMTP.Password))
	}

	tracker := engine.NewTracker(s, extractor, notifier, engine.WithLogger(log))

	return &runtime{
		cfg:      cfg,
		log:      log,
		store:    s,
		notifier: notifier,
		tracker:  tracker,
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Storage.Driver {
	case "postgres":
		s, err := store.NewPostgresStore(ctx, cfg.Storage.Postgres.DSN())
		if err != nil {
			return nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return s, nil
	default:
		return store.NewCSVStore(cfg.Storage.Path), nil
	}
}

func (r *runtime) close() {
	r.store.Close()
}
