package ports

import (
	"context"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
)

// DeliveryRepository defines the persistence contract for delivery aggregates.
type DeliveryRepository interface {
	// Add persists a new delivery aggregate to storage.
	// The delivery must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists changes to an existing delivery aggregate.
	// The delivery must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Get retrieves a delivery aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such delivery exists.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByRouteID retrieves the delivery executing the given route.
	// At most one delivery exists per route; returns
	// errs.ObjectNotFoundError when the route has no delivery yet.
	GetByRouteID(ctx context.Context, routeID kernel.UUID) (*delivery.Delivery, error)
}
