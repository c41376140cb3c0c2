package searchlogs

import (
	"context"
	"time"

	"github.com/dhima/searchlog-poller/internal/models"
)

// Store defines the read queries required by the search-log service.
type Store interface {
	CountSearchesByUser(ctx context.Context, since time.Time) ([]models.UserSearchCount, error)
	ListUserSearches(ctx context.Context, email string, since time.Time, limit, offset int) ([]models.StoredSearchLog, int64, error)
	CountSearchesPerDay(ctx context.Context, start, end time.Time) ([]models.DaySearchCount, error)
	ListSearchesBetween(ctx context.Context, start, end time.Time) ([]models.StoredSearchLog, error)
}
