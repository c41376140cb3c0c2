// Command pollctl runs a single poll cycle against the configured database,
// or resets the ingestion cursor. It must not run while the server's
// scheduler is polling the same database.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/ingest"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/mimecast"
	"github.com/dhima/searchlog-poller/internal/storage"
	"github.com/dhima/searchlog-poller/pkg/clock"
	"github.com/dhima/searchlog-poller/pkg/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := flag.NewFlagSet("pollctl", flag.ContinueOnError)
	cmd.SetOutput(stderr)

	var (
		envFile     string
		resetCursor bool
	)
	cmd.StringVar(&envFile, "env-file", ".env", "Optional .env file read before the environment")
	cmd.BoolVar(&resetCursor, "reset-cursor", false, "Delete the cursor so the next cycle re-runs the initial backfill")

	if err := cmd.Parse(args); err != nil {
		return 2
	}
	if cmd.NArg() > 0 {
		_, _ = fmt.Fprintf(stderr, "Error: unexpected arguments: %v\n", cmd.Args())
		return 2
	}

	cfg := config.Load(envFile)
	if err := cfg.Validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return 1
	}

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: failed to initialize logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	db, dialect, err := storage.Open(ctx, storage.Options{
		Driver: cfg.DBDriver,
		Path:   cfg.DBPath,
		DSN:    cfg.DatabaseURL,
	})
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: open database: %v\n", err)
		return 1
	}
	defer db.Close()
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

	// Cycle events are a server concern; pollctl never publishes.
	poller := ingest.NewPoller(remote, store, store, nil, ingest.Settings{
		InitialBackfillDays: cfg.InitialBackfillDays,
		Lookback:            cfg.Lookback,
	}, clock.RealClock{}, logger)

	if resetCursor {
		if err := poller.ResetCursor(ctx); err != nil {
			_, _ = fmt.Fprintf(stderr, "Error: reset cursor: %v\n", err)
			return 1
		}
		_, _ = fmt.Fprintln(stdout, `{"status":"ok"}`)
		return 0
	}

	summary, err := poller.PollOnce(ctx)
	if err != nil {
		logger.Error("poll cycle failed", zap.Error(err), zap.String("error_kind", string(faults.Classify(err))))
		_, _ = fmt.Fprintf(stderr, "Error: poll cycle failed (%s): %v\n", faults.Classify(err), err)
		return 1
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: encode summary: %v\n", err)
		return 1
	}
	return 0
}
