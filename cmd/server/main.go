package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/dhima/searchlog-poller/docs" // Import generated docs
	"github.com/dhima/searchlog-poller/internal/api"
	"github.com/dhima/searchlog-poller/internal/ingest"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/mimecast"
	"github.com/dhima/searchlog-poller/internal/scheduler"
	"github.com/dhima/searchlog-poller/internal/searchlogs"
	"github.com/dhima/searchlog-poller/internal/storage"
	"github.com/dhima/searchlog-poller/pkg/clock"
	"github.com/dhima/searchlog-poller/pkg/config"
	platformEvents "github.com/dhima/searchlog-poller/platform/events"
)

// @title Search Log Poller API
// @version 1.0
// @description Read-only dashboard API over archive search logs pulled from Mimecast, plus operator actions.
// @description
// @description ## Features
// @description - **Incremental polling**: initial backfill, then overlapping delta windows deduplicated by fingerprint
// @description - **Dashboard queries**: searches per user, per day and per month
// @description - **Operator actions**: trigger a poll now or reset the cursor

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http https

const stopTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "searchlog-poller: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer syncLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, dialect, err := storage.Open(ctx, storage.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database connection", zap.Error(err))
		}
	}()
	store := storage.NewSQLClient(db, dialect, cfg.UpsertBatchSize)

	remote := mimecast.NewClient(mimecast.Config{
		TokenURL:          cfg.MimecastTokenURL,
		BaseURL:           cfg.MimecastBaseURL,
		ClientID:          cfg.MimecastClientID,
		ClientSecret:      cfg.MimecastClientSecret,
		PageSize:          cfg.ArchivePageSize,
		RequestsPerSecond: cfg.MimecastRequestsPerSecond,
		Timeout:           cfg.MimecastHTTPTimeout,
	}, nil, logger)

	// Left as a nil interface when Kafka is not configured.
	var publisher ingest.CyclePublisher
	if len(cfg.KafkaBrokers) > 0 {
		kp := platformEvents.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger.Zap())
		defer func() {
			if err := kp.Close(); err != nil {
				logger.Warn("failed to close kafka publisher", zap.Error(err))
			}
		}()
		publisher = kp
	}

	clk := clock.RealClock{}
	poller := ingest.NewPoller(remote, store, store, publisher, ingest.Settings{
		InitialBackfillDays: cfg.InitialBackfillDays,
		Lookback:            cfg.Lookback,
	}, clk, logger)

	schedule, err := scheduler.ParseSchedule(cfg.PollSchedule, cfg.PollInterval)
	if err != nil {
		return fmt.Errorf("poll schedule: %w", err)
	}
	engine := scheduler.NewEngine(poller, schedule, clk, logger)
	// Signals stop the HTTP listener; the in-flight cycle is drained by Stop.
	engine.Start(context.WithoutCancel(ctx))

	srv := api.NewServer(api.Dependencies{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Search:    searchlogs.NewService(store, clk, cfg.DefaultDays, cfg.UIPageSize),
		Scheduler: engine,
		Cursor:    poller,
		Counter:   store,
	})
	serveErr := srv.Serve(ctx)

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := engine.Stop(stopCtx); err != nil {
		logger.Warn("scheduler stop timed out; in-flight cycle cancelled", zap.Error(err))
	}

	logger.Info("searchlog-poller stopped")
	return serveErr
}

// syncLogger flushes the logger, ignoring the EINVAL that stdout and stderr
// return on most platforms.
func syncLogger(logger logging.Logger) {
	if err := logger.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) {
		fmt.Fprintf(os.Stderr, "sync logger: %v\n", err)
	}
}
