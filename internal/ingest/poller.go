// Package ingest runs poll cycles: pick a window from the cursor, fetch it,
// store it, then advance the cursor.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/pkg/clock"
	platformEvents "github.com/dhima/searchlog-poller/platform/events"
)

// Settings controls window selection.
type Settings struct {
	InitialBackfillDays int
	Lookback            time.Duration
}

// Poller executes one poll cycle at a time. It holds no lock itself;
// callers (the scheduler, pollctl) guarantee a single in-flight cycle.
type Poller struct {
	source    LogSource
	store     LogStore
	cursor    CursorStore
	publisher CyclePublisher
	settings  Settings
	clock     clock.Clock
	logger    logging.Logger
}

// NewPoller wires a Poller. publisher may be nil when cycle events are disabled.
func NewPoller(source LogSource, store LogStore, cursor CursorStore, publisher CyclePublisher, settings Settings, clk clock.Clock, logger logging.Logger) *Poller {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Poller{
		source:    source,
		store:     store,
		cursor:    cursor,
		publisher: publisher,
		settings:  settings,
		clock:     clk,
		logger:    logger.With(zap.String("component", "poller")),
	}
}

// CurrentCursor reads the stored cursor. An unparseable last_polled_end is
// reported as absent.
func (p *Poller) CurrentCursor(ctx context.Context) (models.Cursor, error) {
	var cur models.Cursor

	flag, ok, err := p.cursor.GetCursorValue(ctx, models.CursorKeyBootstrapCompleted)
	if err != nil {
		return cur, err
	}
	cur.BootstrapCompleted = ok && flag != "" && flag != "0"

	raw, ok, err := p.cursor.GetCursorValue(ctx, models.CursorKeyLastPolledEnd)
	if err != nil {
		return cur, err
	}
	if ok && raw != "" {
		t, perr := time.Parse(time.RFC3339Nano, raw)
		if perr != nil {
			p.logger.Warn("ignoring unparseable cursor value",
				zap.String("key", models.CursorKeyLastPolledEnd),
				zap.String("value", raw),
				zap.Error(perr))
		} else {
			t = t.UTC()
			cur.LastPolledEnd = &t
		}
	}
	return cur, nil
}

// NextWindow picks the fetch window ending at end for the given cursor.
func (p *Poller) NextWindow(cur models.Cursor, end time.Time) models.PollWindow {
	if !cur.BootstrapCompleted {
		return models.PollWindow{
			Mode:  models.PollModeBootstrap,
			Start: end.AddDate(0, 0, -p.settings.InitialBackfillDays),
			End:   end,
		}
	}

	start := end.Add(-p.settings.Lookback)
	if cur.LastPolledEnd != nil {
		start = cur.LastPolledEnd.Add(-p.settings.Lookback)
		// A cursor ahead of the clock would give an empty or inverted window.
		if start.After(end) {
			start = end.Add(-p.settings.Lookback)
		}
	}
	return models.PollWindow{Mode: models.PollModeDelta, Start: start, End: end}
}

// PollOnce runs one full cycle. The cursor only moves after fetch and
// upsert both succeed; on error nothing is advanced.
func (p *Poller) PollOnce(ctx context.Context) (models.PollSummary, error) {
	startedAt := p.clock.Now().UTC()
	// Full precision so two cycles in the same second still advance the cursor.
	end := startedAt
	cycleID := uuid.New().String()
	log := p.logger.With(zap.String("cycle_id", cycleID))

	cur, err := p.CurrentCursor(ctx)
	if err != nil {
		return models.PollSummary{}, fmt.Errorf("read cursor: %w", err)
	}
	window := p.NextWindow(cur, end)

	log.Info("poll cycle started",
		zap.String("mode", string(window.Mode)),
		zap.Time("start", window.Start),
		zap.Time("end", window.End))

	logs, err := p.source.FetchSearchLogs(ctx, window.Start, window.End)
	if err != nil {
		log.Error("fetch failed", zap.String("kind", string(faults.Classify(err))), zap.Error(err))
		return models.PollSummary{}, fmt.Errorf("fetch %s window: %w", window.Mode, err)
	}

	inserted, err := p.store.UpsertSearchLogs(ctx, logs)
	if err != nil {
		log.Error("upsert failed",
			zap.String("kind", string(faults.Classify(err))),
			zap.Int("fetched", len(logs)),
			zap.Error(err))
		return models.PollSummary{}, fmt.Errorf("store %d records: %w", len(logs), err)
	}

	if err := p.advance(ctx, cur, end); err != nil {
		return models.PollSummary{}, err
	}

	summary := models.PollSummary{
		CycleID:    cycleID,
		Mode:       window.Mode,
		Start:      window.Start,
		End:        window.End,
		Fetched:    len(logs),
		Inserted:   inserted,
		StartedAt:  startedAt,
		FinishedAt: p.clock.Now().UTC(),
	}
	log.Info("poll cycle completed",
		zap.String("mode", string(summary.Mode)),
		zap.Int("fetched", summary.Fetched),
		zap.Int("inserted", summary.Inserted))

	p.publish(ctx, summary)
	return summary, nil
}

// advance writes last_polled_end first and the bootstrap flag second, so a
// crash between the two repeats the bootstrap rather than skipping it.
func (p *Poller) advance(ctx context.Context, cur models.Cursor, end time.Time) error {
	next := end
	if cur.LastPolledEnd != nil && !end.After(*cur.LastPolledEnd) {
		p.logger.Warn("clock behind cursor, keeping stored value",
			zap.Time("cursor", *cur.LastPolledEnd),
			zap.Time("end", end))
		next = *cur.LastPolledEnd
	}

	if err := p.cursor.SetCursorValue(ctx, models.CursorKeyLastPolledEnd, next.UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("advance cursor: %w", err)
	}
	if err := p.cursor.SetCursorValue(ctx, models.CursorKeyBootstrapCompleted, "1"); err != nil {
		return fmt.Errorf("mark bootstrap complete: %w", err)
	}
	return nil
}

func (p *Poller) publish(ctx context.Context, s models.PollSummary) {
	if p.publisher == nil {
		return
	}
	event := platformEvents.CycleEvent{
		CycleID:    s.CycleID,
		Type:       platformEvents.EventTypePollCompleted,
		Mode:       string(s.Mode),
		WindowFrom: s.Start,
		WindowTo:   s.End,
		Fetched:    s.Fetched,
		Inserted:   s.Inserted,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
	if err := p.publisher.Publish(ctx, event); err != nil {
		p.logger.Warn("cycle event not published", zap.String("cycle_id", s.CycleID), zap.Error(err))
	}
}

// ResetCursor clears both cursor keys; the next cycle runs a bootstrap.
func (p *Poller) ResetCursor(ctx context.Context) error {
	if err := p.cursor.DeleteCursorValues(ctx, models.CursorKeyLastPolledEnd, models.CursorKeyBootstrapCompleted); err != nil {
		return fmt.Errorf("reset cursor: %w", err)
	}
	p.logger.Info("cursor reset; next cycle will bootstrap")
	return nil
}
