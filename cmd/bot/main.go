package main

import (
	"context"
	"database/sql"
	"errors"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The chat may not be usable yet, so the failure is only logged.
		logger.Bootstrap().WithError(err).Fatal("Could not load application configuration, check the .env file")
	}

	log := logger.New(cfg)
	mainLogger := log.WithField("component", "main")
	mainLogger.WithFields(logrus.Fields{
		"log_level":    cfg.LogLevel,
		"environment":  cfg.Environment,
		"retry_period": cfg.RetryPeriod.String(),
		"from_date":    int64(cfg.InitialFromDate),
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize State Storage
	db, stateRepo, err := openStateRepository(ctx, cfg)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not open poller state storage")
	}
	defer db.Close()
	mainLogger.WithField("driver", stateRepo.Driver()).Info("Poller state storage initialized")

	// Initialize Telegram Bot
	bot, err := telegram.NewTelebotBot(cfg.TelegramToken, "", cfg.APITimeout)
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}
	dispatcher := app.NewDispatcher(
		telegram.NewTelebotAdapter(bot),
		cfg.TelegramChatID,
		cfg.TelegramRatePerSec,
		log.WithField("component", "dispatcher"),
	)

	apiClient := practicum.NewClient(cfg.PracticumEndpoint, cfg.PracticumToken, cfg.APITimeout, log.WithField("component", "practicum"))

	poller := app.NewStatusPoller(
		apiClient,
		dispatcher,
		stateRepo,
		app.PollerConfig{Interval: cfg.RetryPeriod, InitialCursor: cfg.InitialFromDate},
		log.WithField("component", "poller"),
	)
	if err := poller.Restore(ctx); err != nil {
		mainLogger.WithError(err).Error("Starting without saved state")
	}

	if cfg.CronSpecHeartbeat != "" {
		heartbeat := scheduler.NewHeartbeatScheduler(stateRepo, log.WithField("component", "heartbeat"), cfg.CronSpecHeartbeat)
		if err := heartbeat.Start(); err != nil {
			mainLogger.WithError(err).Fatal("Could not start heartbeat scheduler")
		}
		defer heartbeat.Stop()
	}

	mainLogger.Info("Application setup complete. Homework status bot is polling...")

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		mainLogger.WithError(err).Error("Status poller exited")
	}
	mainLogger.Info("Application shut down gracefully.")
}

// openStateRepository picks Postgres when DATABASE_URL is set, sqlite otherwise.
func openStateRepository(ctx context.Context, cfg *config.AppConfig) (*sql.DB, *idb.StateRepository, error) {
	var (
		db   *sql.DB
		repo *idb.StateRepository
		err  error
	)
	if cfg.DatabaseURL != "" {
		db, err = idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo = idb.NewPostgresStateRepository(db)
	} else {
		db, err = idb.NewSQLiteConnection(cfg.StateDBPath)
		if err != nil {
			return nil, nil, err
		}
		repo = idb.NewSQLiteStateRepository(db)
	}

	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repo, nil
}
