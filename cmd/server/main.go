// Pressfeed - WordPress News Feed and Related Content Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pressfeed

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/pressfeed/internal/api"
	"github.com/tomtom215/pressfeed/internal/config"
	"github.com/tomtom215/pressfeed/internal/feed"
	"github.com/tomtom215/pressfeed/internal/logging"
	"github.com/tomtom215/pressfeed/internal/metrics"
	"github.com/tomtom215/pressfeed/internal/recommend"
	"github.com/tomtom215/pressfeed/internal/store"
	"github.com/tomtom215/pressfeed/internal/supervisor"
	"github.com/tomtom215/pressfeed/internal/supervisor/services"
	ws "github.com/tomtom215/pressfeed/internal/websocket"
	"github.com/tomtom215/pressfeed/internal/wordpress"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("version", version).
		Str("wordpress", cfg.WordPress.BaseURL()).
		Str("store_path", cfg.Store.Path).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Pressfeed")

	if cfg.ShouldWarnAboutCORS() {
		logging.Warn().Strs("cors_origins", cfg.Security.CORSOrigins).Msg("Wildcard CORS origin in production; set CORS_ORIGINS to the site's origins")
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)
	watchLogLevel()

	// === SNAPSHOT STORE ===

	snapshots, err := store.Open(store.Config{
		Path:         cfg.Store.Path,
		TTL:          cfg.Store.SnapshotTTL,
		GCRatio:      0.5,
		CloseTimeout: 30 * time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Store.Path).Msg("Failed to open snapshot store")
	}
	defer func() {
		if err := snapshots.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing snapshot store")
		}
	}()

	// === WORDPRESS CLIENT CHAIN ===

	breaker := wordpress.NewCircuitBreakerClient(wordpress.NewClient(&cfg.WordPress), wordpress.DefaultBreakerSettings())
	wp := wordpress.NewCachedClient(breaker, snapshots, wordpress.CacheConfig{
		PostsTTL:      cfg.WordPress.PostsCacheTTL,
		CategoriesTTL: cfg.WordPress.CategoriesCacheTTL,
	})
	defer wp.Close()

	// === FEED SESSIONS ===

	scorer := recommend.NewScorer(recommend.Config{
		TagWeight:      cfg.Feed.TagWeight,
		CategoryWeight: cfg.Feed.CategoryWeight,
		Limit:          cfg.Feed.RelatedLimit,
	})

	registry := feed.NewRegistry(wordpress.NewFeedSource(wp), feed.RegistryConfig{
		IdleTTL:       cfg.Feed.SessionIdleTTL,
		SweepInterval: cfg.Feed.SweepInterval,
		MaxSessions:   cfg.Feed.MaxSessions,
		Controller: feed.ControllerConfig{
			PageSize:     cfg.WordPress.PageSize,
			FetchTimeout: cfg.Feed.FetchTimeout,
		},
	})

	chiMW := api.NewChiMiddlewareFromConfig(&cfg.Security)
	hub := ws.NewHub(ws.HubConfig{
		Scorer:         scorer,
		AllowedOrigins: chiMW.AllowedOrigins(),
	})
	registry.SetListener(hub.Notify, hub.SessionClosed)

	// === HTTP ===

	handler := api.NewHandler(api.HandlerDeps{
		WordPress: wp,
		Breaker:   breaker,
		Store:     api.PingFunc(func(context.Context) error { return snapshots.Ping() }),
		Registry:  registry,
		Hub:       hub,
		Scorer:    scorer,
		Config:    cfg,
		Version:   version,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, chiMW).Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout + cfg.Feed.FetchTimeout,
		IdleTimeout:       2 * time.Minute,
	}

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(slog.New(logging.NewSlogHandler()), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewStoreGCService(snapshots, cfg.Store.GCInterval))
	tree.AddFeedService(registry)
	tree.AddFeedService(hub)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	// the sweeper closes sessions on shutdown; this covers a sweeper that
	// never started
	registry.Close()

	logging.Info().Msg("Pressfeed stopped")
}

// watchLogLevel reapplies logging.level whenever the config file changes.
func watchLogLevel() {
	path := config.ConfigFile()
	if path == "" {
		return
	}
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.Load()
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid configuration change")
			return
		}
		if cfg.Logging.Level == logging.GetLevel().String() {
			return
		}
		logging.SetLevelString(cfg.Logging.Level)
		logging.Info().Str("level", cfg.Logging.Level).Msg("Log level changed")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		return
	}
	logging.Debug().Str("path", path).Msg("Watching config file")
}
