package services

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// Domain event types.
const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderDeleted         = "order.deleted"
	EventPaymentConfirmed     = "payment.confirmed"
	EventPaymentStatusChanged = "payment.status_changed"
)

// EventPublisher delivers serialized domain events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, body []byte) error
}

// Event is the JSON envelope sent to the broker.
type Event struct {
	Type        string                 `json:"type"`
	AggregateID string                 `json:"aggregate_id"`
	OccurredAt  time.Time              `json:"occurred_at"`
	Data        map[string]interface{} `json:"data"`
}

// publishEvent is best-effort: failures are logged and never returned.
func publishEvent(ctx context.Context, publisher EventPublisher, eventType, aggregateID string, data map[string]interface{}) {
	if publisher == nil {
		return
	}
	body, err := json.Marshal(Event{
		Type:        eventType,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event for %s: %v", eventType, aggregateID, err)
		return
	}
	if err := publisher.Publish(ctx, eventType, aggregateID, body); err != nil {
		log.Printf("Warning: failed to publish %s event for %s: %v", eventType, aggregateID, err)
	}
}
