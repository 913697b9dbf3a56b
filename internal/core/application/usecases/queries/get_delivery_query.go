package queries

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQuery constructor",
)

// GetDeliveryQuery retrieves the tracking snapshot of a delivery: status,
// last reported position, and the completed-stop set. This is the catch-up
// path for observers that join after events were broadcast.
type GetDeliveryQuery struct {
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetDeliveryQuery creates a query for the given delivery identifier.
func NewGetDeliveryQuery(deliveryID kernel.UUID) (GetDeliveryQuery, error) {
	if err := deliveryID.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}

	return GetDeliveryQuery{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetDeliveryQueryIsNotConstructed if validation fails.
func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryID returns the identifier of the requested delivery.
func (q GetDeliveryQuery) DeliveryID() kernel.UUID {
	return q.deliveryID
}

// GetDeliveryQueryResponse is the delivery tracking read model.
type GetDeliveryQueryResponse struct {
	ID                kernel.UUID
	RouteID           kernel.UUID
	Status            string
	CurrentLocation   *StopResponse
	LocationUpdatedAt *time.Time
	CompletedStops    []int
	StopCount         int
	StartedAt         time.Time
	CompletedAt       *time.Time
}
