package tracking

// Event kinds delivered to observers beyond the broadcast kinds declared in
// ports: membership acknowledgments and error reports, sent to the acting
// observer only.
const (
	KindJoinedDelivery = "joined_delivery"
	KindLeftDelivery   = "left_delivery"
	KindError          = "error"
)

// Event is a single message pushed to a tracking observer.
type Event struct {
	// Kind names the event: a broadcast kind (location_update,
	// stop_completed, delivery_completed), a membership ack, or an error.
	Kind string `json:"event"`

	// DeliveryID scopes the event to a delivery room. Empty for errors
	// that are not tied to a room.
	DeliveryID string `json:"deliveryId,omitempty"`

	// Payload carries the kind-specific body.
	Payload any `json:"data,omitempty"`
}

// ErrorPayload is the body of a KindError event.
type ErrorPayload struct {
	Message string `json:"message"`
}
