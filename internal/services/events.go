package services

import (
	"time"

	"galeri/pkg/rabbitmq"

	"go.uber.org/zap"
)

// Event types published on every catalog or inquiry change.
const (
	EventCarCreated       = "car.created"
	EventCarUpdated       = "car.updated"
	EventCarSold          = "car.sold"
	EventCarDeleted       = "car.deleted"
	EventContactSubmitted = "contact.submitted"
)

// EventPublisher is satisfied by *rabbitmq.Client.
type EventPublisher interface {
	PublishEvent(event rabbitmq.Event) error
}

// publishEvent never fails the caller. A nil publisher disables events.
func publishEvent(log *zap.Logger, pub EventPublisher, eventType, id string, data interface{}) {
	if pub == nil {
		return
	}
	err := pub.PublishEvent(rabbitmq.Event{
		Type:       eventType,
		ID:         id,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		log.Warn("Failed to publish event", zap.String("type", eventType), zap.String("id", id), zap.Error(err))
	}
}
