package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func sampleEvent() CycleEvent {
	from := time.Date(2025, 11, 6, 8, 0, 0, 0, time.UTC)
	return CycleEvent{
		CycleID:    "cyc-123",
		Mode:       "delta",
		WindowFrom: from,
		WindowTo:   from.Add(3 * time.Hour),
		Fetched:    12,
		Inserted:   4,
		StartedAt:  from.Add(3 * time.Hour),
		FinishedAt: from.Add(3*time.Hour + 2*time.Second),
	}
}

func TestNewPublisher_WhenCreated_ThenReturnsPublisherWithWriter(t *testing.T) {
	// Arrange
	brokers := []string{"localhost:9092"}
	topic := "searchlog-poll-cycles"

	// Act
	publisher := NewPublisher(brokers, topic, zap.NewNop())

	// Assert
	require.NotNil(t, publisher)
	require.NotNil(t, publisher.writer)
	assert.NotNil(t, publisher.logger)
	assert.Equal(t, topic, publisher.writer.Topic)
}

func TestNewPublisher_WhenCreatedWithMultipleBrokers_ThenConfiguresCorrectly(t *testing.T) {
	publisher := NewPublisher([]string{"broker1:9092", "broker2:9092", "broker3:9092"}, "t", nil)

	assert.Equal(t, "broker1:9092,broker2:9092,broker3:9092", publisher.writer.Addr.String())
}

func TestNewPublisher_WhenCreated_ThenHasProductionSettings(t *testing.T) {
	publisher := NewPublisher([]string{"localhost:9092"}, "t", zap.NewNop())

	assert.Equal(t, kafka.RequireAll, publisher.writer.RequiredAcks)
	assert.Equal(t, 3, publisher.writer.MaxAttempts)
	assert.Equal(t, 10*time.Second, publisher.writer.WriteTimeout)
}

func TestBuildMessage_WhenEventHasNoType_ThenDefaultsToPollCompleted(t *testing.T) {
	// Arrange
	event := sampleEvent()

	// Act
	msg, err := buildMessage(event)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("cyc-123"), msg.Key)
	assert.Equal(t, event.FinishedAt, msg.Time)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, EventTypePollCompleted, string(msg.Headers[0].Value))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "poll.completed", decoded["type"])
	assert.Equal(t, "delta", decoded["mode"])
	assert.Equal(t, float64(4), decoded["inserted"])
	assert.Equal(t, "2025-11-06T08:00:00Z", decoded["window_from"])
	assert.NotContains(t, decoded, "records")
}

func TestPublish_WhenContextCanceled_ThenReturnsError(t *testing.T) {
	// Arrange
	publisher := NewPublisher([]string{"127.0.0.1:1"}, "t", zap.NewNop())
	t.Cleanup(func() { _ = publisher.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	err := publisher.Publish(ctx, sampleEvent())

	// Assert
	assert.Error(t, err)
}

func TestClose_WhenCalledMultipleTimes_ThenDoesNotPanic(t *testing.T) {
	publisher := NewPublisher([]string{"localhost:9092"}, "t", zap.NewNop())

	assert.NotPanics(t, func() {
		_ = publisher.Close()
		_ = publisher.Close()
	})
}
