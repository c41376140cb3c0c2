package ingest

import (
	"context"
	"time"

	"github.com/dhima/searchlog-poller/internal/models"
	platformEvents "github.com/dhima/searchlog-poller/platform/events"
)

// LogSource fetches every remote record in [start, end).
type LogSource interface {
	FetchSearchLogs(ctx context.Context, start, end time.Time) ([]models.SearchLog, error)
}

// LogStore persists records idempotently and reports how many were new.
type LogStore interface {
	UpsertSearchLogs(ctx context.Context, logs []models.SearchLog) (int, error)
}

// CursorStore is the durable key/value cursor.
type CursorStore interface {
	GetCursorValue(ctx context.Context, key string) (string, bool, error)
	SetCursorValue(ctx context.Context, key, value string) error
	DeleteCursorValues(ctx context.Context, keys ...string) error
}

// CyclePublisher abstracts the Kafka publisher for testability.
type CyclePublisher interface {
	Publish(ctx context.Context, event platformEvents.CycleEvent) error
}
