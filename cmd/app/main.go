package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aethergame/vanitycore/internal/activation"
	"github.com/aethergame/vanitycore/internal/announce"
	"github.com/aethergame/vanitycore/internal/broadcast"
	"github.com/aethergame/vanitycore/internal/catalog"
	"github.com/aethergame/vanitycore/internal/concurrency"
	"github.com/aethergame/vanitycore/internal/config"
	"github.com/aethergame/vanitycore/internal/cooldown"
	"github.com/aethergame/vanitycore/internal/database"
	"github.com/aethergame/vanitycore/internal/database/postgres"
	"github.com/aethergame/vanitycore/internal/effect"
	"github.com/aethergame/vanitycore/internal/entitlement"
	"github.com/aethergame/vanitycore/internal/loadout"
	"github.com/aethergame/vanitycore/internal/logger"
	"github.com/aethergame/vanitycore/internal/metrics"
	"github.com/aethergame/vanitycore/internal/repository"
	"github.com/aethergame/vanitycore/internal/scheduler"
	"github.com/aethergame/vanitycore/internal/server"
	"github.com/aethergame/vanitycore/internal/session"
	"github.com/aethergame/vanitycore/internal/sse"
	"github.com/aethergame/vanitycore/internal/wardrobe"
	"github.com/aethergame/vanitycore/internal/worker"
)

const (
	shutdownTimeout = 10 * time.Second

	autosaveInterval    = time.Minute
	ledgerPruneInterval = 10 * time.Minute
	ledgerPruneHorizon  = 2 * time.Hour
)

// @title VanityCore API
// @version 1.0
// @description Server-authoritative cosmetics layer: catalog, loadouts, entitlements and gadget activation for multiplayer avatars.
// @BasePath /api/v1
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// Catalog: built-in seed set plus the JSON source, then optional
	// property overrides layered on top.
	cat := catalog.New()
	if src, err := catalog.LoadFile(cfg.CatalogPath); err == nil {
		defs, result := src.Definitions()
		cat.ReloadAll(defs, true)
		slog.Info("Catalog loaded", "path", cfg.CatalogPath,
			"loaded", result.Loaded, "skipped", result.Skipped)
	} else {
		slog.Warn("Catalog source unavailable, seed set only", "path", cfg.CatalogPath, "error", err)
		cat.ReloadAll(nil, true)
	}
	if overrides, err := catalog.LoadOverridesFile(cfg.OverridesPath); err == nil {
		catalog.ApplyOverrides(cat, overrides)
	} else {
		slog.Debug("No catalog overrides", "path", cfg.OverridesPath, "error", err)
	}
	metrics.CatalogSize.Set(float64(cat.Len()))

	// Persistence: Postgres when configured, in-memory otherwise.
	var dbPool database.Pool
	var repo repository.State
	if cfg.DBDisabled {
		slog.Info("Running without database, state is in-memory only")
		repo = repository.NewMemoryState()
	} else {
		pool, err := database.NewPool(cfg.GetDBConnString(),
			database.DefaultMaxConnections,
			database.DefaultMaxConnIdleTime,
			database.DefaultMaxConnLifetime)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		dbPool = pool
		repo = postgres.NewStateRepository(pool)
	}

	// Domain stores and delivery plumbing.
	loadouts := loadout.NewStore()
	entitlements := entitlement.NewStore(cat)
	ledger := cooldown.NewLedger()
	locks := concurrency.NewLockManager()

	hub := sse.NewHub()
	hub.Start()

	broadcaster := broadcast.New(loadouts, entitlements, hub)
	sessions := session.NewManager(loadouts, entitlements, ledger, locks, repo, broadcaster)
	wardrobeSvc := wardrobe.NewService(cat, loadouts, entitlements, broadcaster, locks)

	announcer := announce.New(cfg.DiscordToken, cfg.DiscordChannel)
	defer announcer.Close()

	gateway := activation.NewGateway(cat, entitlements, ledger, sessions, broadcaster, locks, announcer)
	dispatcher := effect.NewDispatcher(cat)

	// Background maintenance: periodic autosave of live sessions and
	// cooldown ledger pruning.
	pool := worker.NewPool(2, 16)
	pool.Start()
	defer pool.Stop()

	sched := scheduler.New(pool)
	sched.Schedule(autosaveInterval, &worker.AutosaveJob{Sessions: sessions})
	sched.Schedule(ledgerPruneInterval, &worker.LedgerPruneJob{Ledger: ledger, Horizon: ledgerPruneHorizon})
	defer sched.Stop()

	srv := server.NewServer(cfg.Port, cfg.APIKey, cfg.TrustedProxies, dbPool,
		server.Services{
			Catalog:      cat,
			Wardrobe:     wardrobeSvc,
			Activation:   gateway,
			Broadcaster:  broadcaster,
			Entitlements: entitlements,
			Sessions:     sessions,
			Hub:          hub,
			Effects:      dispatcher,
		},
		server.CatalogSources{
			CatalogPath:   cfg.CatalogPath,
			OverridesPath: cfg.OverridesPath,
		})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-stop:
		slog.Info("Shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Stop(ctx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
