package ports

import (
	"routeplanner/internal/core/domain/model/kernel"
)

// EventKind names a tracking event pushed to delivery observers.
type EventKind string

const (
	// EventLocationUpdate carries the courier's latest reported position.
	EventLocationUpdate EventKind = "location_update"

	// EventStopCompleted announces that a stop on the route was served.
	EventStopCompleted EventKind = "stop_completed"

	// EventDeliveryCompleted announces that the delivery run finished.
	EventDeliveryCompleted EventKind = "delivery_completed"
)

// EventPublisher fans tracking events out to the observers of a delivery.
//
// Delivery semantics are at-most-once and best-effort: observers who join
// after an event was published never receive it and must query the current
// delivery snapshot to catch up. Publishing never fails the triggering
// mutation; per-observer delivery failures are isolated.
type EventPublisher interface {
	// Broadcast delivers the event to all current observers of the delivery.
	Broadcast(deliveryID kernel.UUID, kind EventKind, payload any)
}
