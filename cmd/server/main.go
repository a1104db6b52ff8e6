// Package main is the entry point for the Stockroom API server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockroom/internal/app"
	"stockroom/internal/config"
	v1 "stockroom/internal/infrastructure/http/v1"
	"stockroom/internal/infrastructure/metrics"
	"stockroom/internal/infrastructure/storage"
	"stockroom/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file")
	configFile := flag.String("config", "", "path to a config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*envFile, *configFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting stockroom server", "driver", cfg.Store.Driver, "env", cfg.App.Env)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}

	m := metrics.New()

	// --- Store ---
	s, err := storage.Open(ctx, cfg.StorageConfig(), log, m)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	// --- Services ---
	a := app.New(s, app.Options{Location: loc, Observer: m})

	// Cached quantities may be stale after a crash or an external edit.
	items, err := a.Ledger.ReconcileOnLoad(ctx)
	if err != nil {
		log.Fatalw("failed to reconcile stock on load", "error", err)
	}
	log.Infow("stock reconciled", "items", len(items))

	if sync := a.Sync(); sync != nil {
		go func() {
			if err := sync.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Warnw("external change sync stopped", "error", err)
			}
		}()
	} else {
		log.Infow("store cannot report external writes; sync disabled", "driver", cfg.Store.Driver)
	}

	// --- Router ---
	routerCfg := a.RouterConfig()
	routerCfg.Logger = log
	routerCfg.Store = s
	routerCfg.Driver = cfg.Store.Driver
	routerCfg.Development = cfg.IsDevelopment()
	if cfg.Metrics.Enabled {
		routerCfg.Metrics = m
	}
	router := v1.NewRouter(routerCfg)

	// --- HTTP Server ---
	server := newServer(ctx, cfg.HTTP, router)

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "addr", cfg.HTTP.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

// newServer builds the HTTP server. Request contexts derive from ctx, so
// long-lived streams end as soon as ctx is cancelled.
func newServer(ctx context.Context, cfg config.HTTPConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
}
