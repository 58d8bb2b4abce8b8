package events

import (
	"time"

	"restaurant-discovery-be/internal/entity"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "RESTAURANT_PERSISTED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// RestaurantPersisted builds the update-stream event emitted once an
// aggregate has landed in the stores.
func RestaurantPersisted(r *entity.Restaurant, operation string) BaseEvent {
	return BaseEvent{
		Type: "RESTAURANT_PERSISTED",
		Data: map[string]interface{}{
			"restaurant_id": r.Id(),
			"status":        string(r.Status()),
			"operation":     operation,
		},
		OccurredAt: time.Now(),
	}
}
