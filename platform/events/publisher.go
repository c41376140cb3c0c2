// Package events publishes poll-cycle summaries to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventTypePollCompleted marks a cycle that fetched, stored and advanced the cursor.
const EventTypePollCompleted = "poll.completed"

// CycleEvent is the message written for each successful poll cycle. It
// carries counts and window bounds only, never the records themselves.
type CycleEvent struct {
	CycleID    string    `json:"cycle_id"`
	Type       string    `json:"type"`
	Mode       string    `json:"mode"`
	WindowFrom time.Time `json:"window_from"`
	WindowTo   time.Time `json:"window_to"`
	Fetched    int       `json:"fetched"`
	Inserted   int       `json:"inserted"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Publisher writes cycle events to one Kafka topic.
type Publisher struct {
	writer    *kafka.Writer
	logger    *zap.Logger
	closeOnce sync.Once
	closeErr  error
}

// NewPublisher builds a publisher for brokers/topic. No connection is made
// until the first Publish.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  3,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Publish writes one event keyed by cycle id.
func (p *Publisher) Publish(ctx context.Context, event CycleEvent) error {
	msg, err := buildMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("failed to publish cycle event",
			zap.String("cycle_id", event.CycleID),
			zap.String("topic", p.writer.Topic),
			zap.Error(err))
		return fmt.Errorf("kafka write: %w", err)
	}

	p.logger.Debug("cycle event published",
		zap.String("cycle_id", event.CycleID),
		zap.Int("inserted", event.Inserted))
	return nil
}

// Close flushes pending writes. Safe to call more than once.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = p.writer.Close()
	})
	return p.closeErr
}

func buildMessage(event CycleEvent) (kafka.Message, error) {
	if event.Type == "" {
		event.Type = EventTypePollCompleted
	}
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal cycle event: %w", err)
	}
	return kafka.Message{
		Key:   []byte(event.CycleID),
		Value: value,
		Time:  event.FinishedAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}
