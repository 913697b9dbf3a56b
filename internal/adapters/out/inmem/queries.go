package inmem

import (
	"context"

	"routeplanner/internal/core/application/usecases/queries"
)

// GetRouteQueryHandler serves the route read model from the in-memory
// store. Drop-in substitute for the SQL-backed handler in degraded mode.
type GetRouteQueryHandler struct {
	store *Store
}

// NewGetRouteQueryHandler creates a handler over the given store.
func NewGetRouteQueryHandler(store *Store) GetRouteQueryHandler {
	return GetRouteQueryHandler{store: store}
}

// Handle returns the route read model with its stops in solved visiting
// order. Returns an errs.ObjectNotFoundError for an unknown route.
func (h GetRouteQueryHandler) Handle(
	_ context.Context,
	query queries.GetRouteQuery,
) (queries.GetRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return queries.GetRouteQueryResponse{}, err
	}

	aggregate, err := h.store.getRoute(query.RouteID())
	if err != nil {
		return queries.GetRouteQueryResponse{}, err
	}

	response := queries.GetRouteQueryResponse{
		ID:               aggregate.ID(),
		TotalDistanceKm:  aggregate.TotalDistanceKm(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
		Status:           aggregate.Status().String(),
		CreatedAt:        aggregate.CreatedAt(),
	}

	stops := aggregate.Stops()
	response.Stops = make([]queries.StopResponse, 0, len(stops))
	for _, stop := range stops {
		response.Stops = append(response.Stops, queries.StopResponse{
			Address:   stop.Address(),
			Latitude:  stop.Latitude(),
			Longitude: stop.Longitude(),
		})
	}

	if depot := aggregate.Depot(); depot != nil {
		response.Depot = &queries.StopResponse{
			Address:   depot.Address(),
			Latitude:  depot.Latitude(),
			Longitude: depot.Longitude(),
		}
	}

	return response, nil
}

// GetDeliveryQueryHandler serves the delivery tracking read model from the
// in-memory store. Drop-in substitute for the SQL-backed handler in
// degraded mode.
type GetDeliveryQueryHandler struct {
	store *Store
}

// NewGetDeliveryQueryHandler creates a handler over the given store.
func NewGetDeliveryQueryHandler(store *Store) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{store: store}
}

// Handle returns the delivery tracking read model.
// Returns an errs.ObjectNotFoundError for an unknown delivery.
func (h GetDeliveryQueryHandler) Handle(
	_ context.Context,
	query queries.GetDeliveryQuery,
) (queries.GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return queries.GetDeliveryQueryResponse{}, err
	}

	aggregate, err := h.store.getDelivery(query.DeliveryID())
	if err != nil {
		return queries.GetDeliveryQueryResponse{}, err
	}

	response := queries.GetDeliveryQueryResponse{
		ID:             aggregate.ID(),
		RouteID:        aggregate.RouteID(),
		Status:         aggregate.Status().String(),
		CompletedStops: aggregate.CompletedStops(),
		StopCount:      aggregate.StopCount(),
		StartedAt:      aggregate.StartedAt(),
		CompletedAt:    aggregate.CompletedAt(),
	}

	if location := aggregate.CurrentLocation(); location != nil {
		response.CurrentLocation = &queries.StopResponse{
			Address:   location.Address(),
			Latitude:  location.Latitude(),
			Longitude: location.Longitude(),
		}
		at := aggregate.LocationUpdatedAt()
		response.LocationUpdatedAt = &at
	}

	return response, nil
}
