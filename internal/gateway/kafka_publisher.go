package gateway

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	kafkago "github.com/segmentio/kafka-go"

	"creditrisk/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaEventPublisher publishes pipeline events to one Kafka topic.
type KafkaEventPublisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewKafkaEventPublisher creates a publisher writing to topic on brokers.
func NewKafkaEventPublisher(brokers []string, topic string, logger *slog.Logger) *KafkaEventPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafkago.RequireAll,
	}
	return &KafkaEventPublisher{writer: w, topic: topic, logger: logger}
}

// Publish sends events as JSON messages keyed by run id, with the event
// type in a header.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...domain.Event) error {
	messages := make([]kafkago.Message, 0, len(events))
	for _, evt := range events {
		eventType := evt.EventType()
		payload, err := json.Marshal(evt)
		if err != nil {
			return errors.Wrapf(err, "failed to marshal event %s", eventType)
		}

		p.logger.DebugContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", p.topic),
			slog.Int("payload_size", len(payload)),
		)
		messages = append(messages, kafkago.Message{
			Key:     []byte(evt.Key()),
			Value:   payload,
			Headers: []kafkago.Header{{Key: "event_type", Value: []byte(eventType)}},
		})
	}
	if len(messages) == 0 {
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return errors.Wrapf(err, "failed to publish events to topic %s", p.topic)
	}
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}
