// Package notify delivers smart notifications for tracked locations.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/i474232898/weather-insights/internal/advisor"
	"github.com/i474232898/weather-insights/internal/weather"
)

// Publisher sends a batch of notifications generated for one location.
type Publisher interface {
	Publish(ctx context.Context, loc weather.Location, notes []advisor.Notification) error
	Close() error
}

// Envelope is the payload written for each notification.
type Envelope struct {
	Location     weather.Location     `json:"location"`
	Notification advisor.Notification `json:"notification"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher produces one message per notification, keyed by location so
// a location's notifications stay ordered within a partition.
type KafkaPublisher struct {
	writer messageWriter
	logger *slog.Logger
}

// NewKafkaPublisher creates a producer for topic on the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaPublisher{writer: w, logger: logger}
}

func (p *KafkaPublisher) Publish(ctx context.Context, loc weather.Location, notes []advisor.Notification) error {
	if len(notes) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(notes))
	for i := range notes {
		msg, err := serializeToMessage(loc, notes[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish notifications: %w", err)
	}
	p.logger.Debug("notifications published", "location", loc.Key(), "count", len(msgs))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func serializeToMessage(loc weather.Location, n advisor.Notification) (kafkago.Message, error) {
	data, err := json.Marshal(Envelope{Location: loc, Notification: n})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(loc.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "notification_type", Value: []byte(n.Type)},
			{Key: "priority", Value: []byte(n.Priority)},
			{Key: "created_at", Value: []byte(n.CreatedAt.Format(time.RFC3339))},
		},
	}, nil
}

// LogPublisher writes notifications to the log. It is used when no brokers
// are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, loc weather.Location, notes []advisor.Notification) error {
	for _, n := range notes {
		p.logger.Info("notification",
			"location", loc.Key(), "type", n.Type, "priority", n.Priority, "title", n.Title)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
