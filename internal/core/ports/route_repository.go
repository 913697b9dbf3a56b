package ports

import (
	"context"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
)

// RouteRepository defines the persistence contract for route aggregates.
type RouteRepository interface {
	// Add persists a new route aggregate to storage.
	// The route must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *route.Route) error

	// Update persists changes to an existing route aggregate.
	// The route must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *route.Route) error

	// Get retrieves a route aggregate by its unique identifier.
	// Returns errs.ObjectNotFoundError when no such route exists.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
}
