// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return optimized read models for specific use cases.
package queries

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrGetRouteQueryIsNotConstructed = errors.New(
	"GetRouteQuery must be created via NewGetRouteQuery constructor",
)

// GetRouteQuery retrieves the snapshot of an optimized route: the solved
// visiting order, the optional depot, and the derived metrics.
type GetRouteQuery struct {
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetRouteQuery creates a query for the given route identifier.
func NewGetRouteQuery(routeID kernel.UUID) (GetRouteQuery, error) {
	if err := routeID.Validate(); err != nil {
		return GetRouteQuery{}, err
	}

	return GetRouteQuery{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetRouteQueryIsNotConstructed if validation fails.
func (q GetRouteQuery) Validate() error {
	return q.guard.Validate(ErrGetRouteQueryIsNotConstructed)
}

// RouteID returns the identifier of the requested route.
func (q GetRouteQuery) RouteID() kernel.UUID {
	return q.routeID
}

// StopResponse is a single geocoded stop in the read model.
type StopResponse struct {
	Address   string
	Latitude  float64
	Longitude float64
}

// GetRouteQueryResponse is the route read model returned to callers.
type GetRouteQueryResponse struct {
	ID               kernel.UUID
	Stops            []StopResponse
	Depot            *StopResponse
	TotalDistanceKm  float64
	EstimatedMinutes float64
	Status           string
	CreatedAt        time.Time
}
