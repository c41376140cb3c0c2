package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

var expressionParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseSchedule returns the cron schedule for expr, or a fixed interval
// schedule when expr is empty. Expressions are evaluated in UTC.
//
// Examples: "0 * * * *" (hourly), "*/30 * * * * *" (every 30s), "@daily".
func ParseSchedule(expr string, interval time.Duration) (cron.Schedule, error) {
	if expr == "" {
		if interval < time.Second {
			return nil, fmt.Errorf("poll interval must be at least 1s, got %s", interval)
		}
		return cron.Every(interval), nil
	}

	schedule, err := expressionParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}
	return schedule, nil
}

// NextRun returns the first activation of schedule strictly after from, in UTC.
func NextRun(schedule cron.Schedule, from time.Time) time.Time {
	return schedule.Next(from.UTC()).UTC()
}
