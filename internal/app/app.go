package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"

	"elele/internal/retention"
	"elele/pkg/assist"
	"elele/pkg/config"
	"elele/pkg/feed"
	"elele/pkg/logger"
	"elele/pkg/storage"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	sub    storage.Substrate
	store  *feed.Store
	assist assist.Service

	srv *http.Server
}

// New initializes resources that do not require a running context (substrate,
// feed store, text service). It does not start the HTTP server or the
// retention scheduler; call Run to start those and block until shutdown.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	var sub storage.Substrate
	if eff.Config.Storage.Ephemeral {
		sub = storage.NewMemory()
		logger.Info("storage_ephemeral")
	} else {
		p, err := storage.OpenPebble(eff.DBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open pebble at %s: %w", eff.DBPath, err)
		}
		sub = p
	}

	store := feed.NewStore(sub, eff.Config.Storage.Keys)
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load feed state: %w", err)
	}
	if eff.Config.Feed.SeedDemo {
		store.SeedDemoIfEmpty()
	}

	var svc assist.Service
	if svcImpl, err := assist.NewOpenAIService(eff.Config.Assist.APIKey, eff.Config.Assist.Model); err == nil {
		svc = svcImpl
	} else {
		logger.Warn("assist_disabled", "reason", err)
		svc = assist.Disabled{}
	}

	return &App{
		eff:       eff,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
		sub:       sub,
		store:     store,
		assist:    svc,
	}, nil
}

// Run starts the retention scheduler and the HTTP server, and blocks until
// ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	cancelRetention, err := retention.Start(ctx, a.eff, a.store)
	if err != nil {
		return err
	}
	defer cancelRetention()

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errCh:
		return err
	}
}

// shutdown drains the HTTP server and closes the substrate.
func (a *App) shutdown() error {
	if a.srv != nil {
		sctx, cancel := context.WithTimeout(context.Background(), httpDrainTimeout)
		defer cancel()
		if err := a.srv.Shutdown(sctx); err != nil {
			logger.Error("http_shutdown_failed", "error", err)
		}
	}
	if err := a.sub.Close(); err != nil {
		logger.Error("substrate_close_failed", "error", err)
		return err
	}
	logger.Info("shutdown_complete")
	return nil
}

// Store exposes the feed store for admin tooling and tests.
func (a *App) Store() *feed.Store { return a.store }
