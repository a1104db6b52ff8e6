// Package main is the entry point for the Stockroom background worker.
// It sends the low-stock report on the configured cron schedule.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"stockroom/internal/app"
	"stockroom/internal/config"
	"stockroom/internal/infrastructure/metrics"
	"stockroom/internal/infrastructure/notify"
	"stockroom/internal/infrastructure/storage"
	"stockroom/internal/scheduler"
	"stockroom/pkg/logger"
)

func main() {
	envFile := flag.String("env", "", "path to a .env file")
	configFile := flag.String("config", "", "path to a config file (yaml, json or toml)")
	once := flag.Bool("once", false, "send the report once and exit")
	flag.Parse()

	cfg, err := config.Load(*envFile, *configFile)
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

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

	log.Info("starting stockroom worker")

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalw("invalid timezone", "error", err)
	}

	m := metrics.New()

	s, err := storage.Open(ctx, cfg.StorageConfig(), log, m)
	if err != nil {
		log.Fatalw("failed to open store", "error", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			log.Errorw("failed to close store", "error", err)
		}
	}()

	a := app.New(s, app.Options{Location: loc, Observer: m})

	notifiers, err := buildNotifiers(cfg.Alerts)
	if err != nil {
		log.Fatalw("failed to configure notifiers", "error", err)
	}
	fanout := notify.NewFanout(m, notifiers...)
	if fanout.Len() == 0 {
		log.Warn("no notifier configured; low-stock reports will only be logged")
	}

	job := scheduler.NewLowStockAlert(a.Ledger, a.Reports, fanout)
	job.SendWhenEmpty = cfg.Alerts.SendWhenEmpty

	if *once {
		if err := job.Run(ctx); err != nil {
			log.Fatalw("low-stock alert failed", "error", err)
		}
		return
	}

	sched := scheduler.New(scheduler.Config{Spec: cfg.Alerts.Cron, Location: loc}, job, log)
	if err := sched.Start(); err != nil {
		log.Fatalw("failed to start scheduler", "error", err)
	}
	log.Infow("low-stock alerts scheduled", "cron", cfg.Alerts.Cron, "notifiers", fanout.Len())

	<-ctx.Done()
	log.Info("shutting down worker...")
	sched.Stop()
	log.Info("worker stopped")
}

func buildNotifiers(cfg config.AlertsConfig) ([]notify.Notifier, error) {
	var out []notify.Notifier
	if cfg.WebhookURL != "" {
		out = append(out, notify.NewWebhook(notify.WebhookConfig{
			URL:   cfg.WebhookURL,
			Token: cfg.WebhookToken,
		}))
	}
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram: %w", err)
		}
		out = append(out, tg)
	}
	return out, nil
}
