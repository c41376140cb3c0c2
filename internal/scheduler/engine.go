package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/faults"
	"github.com/dhima/searchlog-poller/internal/logging"
	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/pkg/clock"
)

// Trigger sources, used in logs and status.
const (
	TriggerStartup = "startup"
	TriggerTick    = "tick"
	TriggerManual  = "manual"
)

// Status is a point-in-time view of the engine.
type Status struct {
	Running        bool                `json:"running"`
	LastTrigger    string              `json:"last_trigger,omitempty"`
	LastStartedAt  *time.Time          `json:"last_started_at,omitempty"`
	LastFinishedAt *time.Time          `json:"last_finished_at,omitempty"`
	LastSummary    *models.PollSummary `json:"last_summary,omitempty"`
	LastError      string              `json:"last_error,omitempty"`
	LastErrorKind  string              `json:"last_error_kind,omitempty"`
	Runs           int64               `json:"runs"`
	Failures       int64               `json:"failures"`
	Skipped        int64               `json:"skipped"`
	NextRun        *time.Time          `json:"next_run,omitempty"`
} // @name SchedulerStatus

// Engine fires poll cycles on a schedule. A one-slot run-lock is shared by
// the startup run, cron ticks and manual triggers; a trigger that finds it
// held is dropped rather than queued.
type Engine struct {
	poller   Poller
	schedule cron.Schedule
	cron     *cron.Cron
	clock    clock.Clock
	logger   logging.Logger

	runLock chan struct{}
	wg      sync.WaitGroup

	runCtx    context.Context
	cancelRun context.CancelFunc

	mu      sync.Mutex
	status  Status
	entryID cron.EntryID
	started bool
}

// NewEngine builds an engine; call Start to begin scheduling.
func NewEngine(poller Poller, schedule cron.Schedule, clk clock.Clock, logger logging.Logger) *Engine {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	logger = logger.With(zap.String("component", "scheduler"))
	cl := newCronLogger(logger)

	runCtx, cancel := context.WithCancel(context.Background())
	return &Engine{
		poller:   poller,
		schedule: schedule,
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		clock:     clk,
		logger:    logger,
		runLock:   make(chan struct{}, 1),
		runCtx:    runCtx,
		cancelRun: cancel,
	}
}

// Start registers the poll job, starts cron and fires one immediate run in
// the background. It returns without waiting for that run.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return
	}
	e.started = true
	e.runCtx, e.cancelRun = context.WithCancel(ctx)
	e.entryID = e.cron.Schedule(e.schedule, cron.FuncJob(func() {
		e.runIfIdle(TriggerTick)
	}))
	e.mu.Unlock()

	e.cron.Start()
	e.logger.Info("scheduler started")

	e.TriggerNow(TriggerStartup)
}

// TriggerNow starts a cycle in the background if none is running. It
// reports false when the trigger was coalesced into the in-flight run.
func (e *Engine) TriggerNow(source string) bool {
	if !e.tryAcquire(source) {
		return false
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		e.runHeld(source)
	}()
	return true
}

// runIfIdle is the cron job body; cron already runs it on its own goroutine.
func (e *Engine) runIfIdle(source string) {
	if !e.tryAcquire(source) {
		return
	}
	e.wg.Add(1)
	defer e.wg.Done()
	e.runHeld(source)
}

func (e *Engine) tryAcquire(source string) bool {
	select {
	case e.runLock <- struct{}{}:
		return true
	default:
		e.mu.Lock()
		e.status.Skipped++
		e.mu.Unlock()
		e.logger.Info("poll already running, trigger coalesced", zap.String("trigger", source))
		return false
	}
}

// runHeld executes one cycle; the caller must hold the run-lock.
func (e *Engine) runHeld(source string) {
	defer func() { <-e.runLock }()

	startedAt := e.clock.Now()
	e.mu.Lock()
	e.status.Running = true
	e.status.LastTrigger = source
	e.status.LastStartedAt = &startedAt
	e.status.Runs++
	ctx := e.runCtx
	e.mu.Unlock()

	summary, err := e.pollSafely(ctx)

	finishedAt := e.clock.Now()
	e.mu.Lock()
	e.status.Running = false
	e.status.LastFinishedAt = &finishedAt
	if err != nil {
		e.status.Failures++
		e.status.LastError = err.Error()
		e.status.LastErrorKind = string(faults.Classify(err))
	} else {
		e.status.LastSummary = &summary
		e.status.LastError = ""
		e.status.LastErrorKind = ""
	}
	e.mu.Unlock()

	if err != nil {
		e.logger.Error("poll cycle failed",
			zap.String("trigger", source),
			zap.String("kind", string(faults.Classify(err))),
			zap.Duration("elapsed", finishedAt.Sub(startedAt)),
			zap.Error(err))
		return
	}
	e.logger.Info("poll cycle finished",
		zap.String("trigger", source),
		zap.String("cycle_id", summary.CycleID),
		zap.Int("fetched", summary.Fetched),
		zap.Int("inserted", summary.Inserted),
		zap.Duration("elapsed", finishedAt.Sub(startedAt)))
}

// pollSafely turns a panic in the cycle into an error so the run-lock is
// always released.
func (e *Engine) pollSafely(ctx context.Context) (summary models.PollSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("poll cycle panic: %v", r)
		}
	}()
	return e.poller.PollOnce(ctx)
}

// Status returns a copy of the current engine state.
func (e *Engine) Status() Status {
	e.mu.Lock()
	s := e.status
	started := e.started
	id := e.entryID
	e.mu.Unlock()

	if started {
		if next := e.cron.Entry(id).Next; !next.IsZero() {
			n := next.UTC()
			s.NextRun = &n
		}
	}
	return s
}

// Stop halts scheduling and waits for the in-flight cycle. If ctx expires
// first, the cycle is cancelled and ctx's error returned.
func (e *Engine) Stop(ctx context.Context) error {
	cronDone := e.cron.Stop()

	done := make(chan struct{})
	go func() {
		<-cronDone.Done()
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.cancelRun()
		e.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		e.cancelRun()
		<-done
		return ctx.Err()
	}
}
