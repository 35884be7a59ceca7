// Package kafka publishes storefront domain events to a Kafka topic.
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// EventTypeHeader carries the event type next to the JSON value.
const EventTypeHeader = "event_type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher wraps a kafka.Writer.
type Publisher struct {
	w messageWriter
}

// NewPublisher configures the writer for ordered, acknowledged delivery:
// messages with the same key land on the same partition and every in-sync
// replica must confirm the write.
func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			MaxAttempts:            5,
			WriteTimeout:           5 * time.Second,
			ReadTimeout:            5 * time.Second,
			BatchTimeout:           50 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Close flushes and releases the writer.
func (p *Publisher) Close() error { return p.w.Close() }

// Publish writes one event keyed by its aggregate id.
func (p *Publisher) Publish(ctx context.Context, eventType, key string, body []byte) error {
	err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: body,
		Headers: []kafka.Header{
			{Key: EventTypeHeader, Value: []byte(eventType)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to kafka: %w", eventType, err)
	}
	return nil
}
