package scheduler

import (
	"context"

	"github.com/dhima/searchlog-poller/internal/models"
)

// Poller runs one poll cycle.
type Poller interface {
	PollOnce(ctx context.Context) (models.PollSummary, error)
}
