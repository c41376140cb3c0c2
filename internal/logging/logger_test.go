package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_WhenDevelopmentEnvironment_ThenReturnsLogger(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("development", "debug")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.NotNil(t, logger.Zap())
	_ = logger.Sync()
}

func TestNewLogger_WhenInvalidLogLevel_ThenDefaultsToInfo(t *testing.T) {
	// Arrange & Act
	logger, err := NewLogger("production", "invalid-level")

	// Assert
	require.NoError(t, err)
	assert.True(t, logger.Zap().Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Zap().Core().Enabled(zap.DebugLevel))
	_ = logger.Sync()
}

func TestWith_WhenFieldsAttached_ThenChildLogsCarryThem(t *testing.T) {
	// Arrange
	core, logs := observer.New(zap.DebugLevel)
	logger := Wrap(zap.New(core))

	// Act
	logger.With(zap.String("component", "poller")).Info("cycle done", zap.Int("inserted", 3))

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "cycle done", entry.Message)
	assert.Equal(t, "poller", entry.ContextMap()["component"])
	assert.Equal(t, int64(3), entry.ContextMap()["inserted"])
}

func TestWrap_WhenNil_ThenReturnsUsableLogger(t *testing.T) {
	logger := Wrap(nil)

	assert.NotPanics(t, func() { logger.Info("hello") })
}

func TestFields_WhenPairsGiven_ThenConvertsToZapFields(t *testing.T) {
	// Act
	fields := Fields("entry", 3, "next", "soon", "dangling")

	// Assert
	require.Len(t, fields, 3)
	assert.Equal(t, "entry", fields[0].Key)
	assert.Equal(t, "next", fields[1].Key)
	assert.Equal(t, "!BADKEY", fields[2].Key)
}

func TestNoOpLogger_WhenUsed_ThenDoesNothing(t *testing.T) {
	logger := NewNoOpLogger()

	assert.NotPanics(t, func() {
		logger.Debug("d")
		logger.Info("i")
		logger.Warn("w")
		logger.Error("e")
		logger.With(zap.String("k", "v")).Info("x")
	})
	assert.NoError(t, logger.Sync())
	assert.NotNil(t, logger.Zap())
}
