package scheduler

import (
	"go.uber.org/zap"

	"github.com/dhima/searchlog-poller/internal/logging"
)

// cronLogger routes robfig/cron's own messages into the service logger.
// cron's Info output is scheduling chatter, so it goes to Debug.
type cronLogger struct {
	logger logging.Logger
}

func newCronLogger(logger logging.Logger) cronLogger {
	return cronLogger{logger: logger.With(zap.String("component", "cron"))}
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, logging.Fields(keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := append(logging.Fields(keysAndValues...), zap.Error(err))
	l.logger.Error(msg, fields...)
}
