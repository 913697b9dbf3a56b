// Package inmem provides process-local storage for routes and deliveries.
//
// It backs the degraded mode: when no database connection string is
// configured the application keeps serving the full API against this
// store, trading durability for availability. The store is safe for
// concurrent use and hands out deep copies so callers can never alias
// aggregate state held inside it.
package inmem

import (
	"fmt"
	"sync"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"
)

// Store holds route and delivery aggregates in memory.
type Store struct {
	mu              sync.RWMutex
	routes          map[string]*route.Route
	deliveries      map[string]*delivery.Delivery
	deliveryByRoute map[string]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		routes:          make(map[string]*route.Route),
		deliveries:      make(map[string]*delivery.Delivery),
		deliveryByRoute: make(map[string]string),
	}
}

func (s *Store) addRoute(aggregate *route.Route) error {
	clone, err := cloneRoute(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := aggregate.ID().String()
	if _, exists := s.routes[key]; exists {
		return fmt.Errorf("route already exists: %s", key)
	}
	s.routes[key] = clone
	return nil
}

func (s *Store) updateRoute(aggregate *route.Route) error {
	clone, err := cloneRoute(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := aggregate.ID().String()
	if _, exists := s.routes[key]; !exists {
		return errs.NewObjectNotFoundError("route", key)
	}
	s.routes[key] = clone
	return nil
}

func (s *Store) getRoute(id kernel.UUID) (*route.Route, error) {
	s.mu.RLock()
	stored, exists := s.routes[id.String()]
	s.mu.RUnlock()

	if !exists {
		return nil, errs.NewObjectNotFoundError("route", id.String())
	}
	return cloneRoute(stored)
}

func (s *Store) addDelivery(aggregate *delivery.Delivery) error {
	clone, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := aggregate.ID().String()
	routeKey := aggregate.RouteID().String()
	if _, exists := s.deliveries[key]; exists {
		return fmt.Errorf("delivery already exists: %s", key)
	}
	if _, exists := s.deliveryByRoute[routeKey]; exists {
		return fmt.Errorf("route already has a delivery: %s", routeKey)
	}
	s.deliveries[key] = clone
	s.deliveryByRoute[routeKey] = key
	return nil
}

func (s *Store) updateDelivery(aggregate *delivery.Delivery) error {
	clone, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := aggregate.ID().String()
	if _, exists := s.deliveries[key]; !exists {
		return errs.NewObjectNotFoundError("delivery", key)
	}
	s.deliveries[key] = clone
	return nil
}

func (s *Store) getDelivery(id kernel.UUID) (*delivery.Delivery, error) {
	s.mu.RLock()
	stored, exists := s.deliveries[id.String()]
	s.mu.RUnlock()

	if !exists {
		return nil, errs.NewObjectNotFoundError("delivery", id.String())
	}
	return cloneDelivery(stored)
}

func (s *Store) getDeliveryByRouteID(routeID kernel.UUID) (*delivery.Delivery, error) {
	s.mu.RLock()
	key, exists := s.deliveryByRoute[routeID.String()]
	var stored *delivery.Delivery
	if exists {
		stored = s.deliveries[key]
	}
	s.mu.RUnlock()

	if stored == nil {
		return nil, errs.NewObjectNotFoundError("delivery for route", routeID.String())
	}
	return cloneDelivery(stored)
}

// cloneRoute produces an independent copy by rebuilding the aggregate
// through its restore factory.
func cloneRoute(aggregate *route.Route) (*route.Route, error) {
	return route.RestoreRoute(
		aggregate.ID(),
		aggregate.Stops(),
		aggregate.Depot(),
		aggregate.TotalDistanceKm(),
		aggregate.EstimatedMinutes(),
		aggregate.Status(),
		aggregate.CreatedAt(),
	)
}

// cloneDelivery produces an independent copy by rebuilding the aggregate
// through its restore factory.
func cloneDelivery(aggregate *delivery.Delivery) (*delivery.Delivery, error) {
	return delivery.RestoreDelivery(
		aggregate.ID(),
		aggregate.RouteID(),
		aggregate.StopCount(),
		aggregate.Status(),
		aggregate.CurrentLocation(),
		aggregate.LocationUpdatedAt(),
		aggregate.CompletedStops(),
		aggregate.StartedAt(),
		aggregate.CompletedAt(),
	)
}
