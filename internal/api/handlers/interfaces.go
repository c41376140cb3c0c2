package handlers

import (
	"context"

	"github.com/dhima/searchlog-poller/internal/models"
	"github.com/dhima/searchlog-poller/internal/scheduler"
)

// SearchLogService is the read-only query surface behind the dashboard.
type SearchLogService interface {
	UserCounts(ctx context.Context, days int) (*models.UserCountsResponse, error)
	UserSearches(ctx context.Context, email string, q models.ListUserSearchesQuery) (*models.UserSearchesResponse, error)
	MonthCounts(ctx context.Context, year, month int) (*models.MonthCountsResponse, error)
	DaySearches(ctx context.Context, date string) (*models.DaySearchesResponse, error)
}

// PollScheduler exposes the scheduler's manual trigger and status.
type PollScheduler interface {
	TriggerNow(source string) bool
	Status() scheduler.Status
}

// CursorManager reads and resets the ingestion cursor.
type CursorManager interface {
	CurrentCursor(ctx context.Context) (models.Cursor, error)
	ResetCursor(ctx context.Context) error
}

// RecordCounter reports how many search logs are stored.
type RecordCounter interface {
	CountSearchLogs(ctx context.Context) (int64, error)
}

// Pinger checks database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}
