package commands_test

import (
	"context"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*route.Route), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if d := args.Get(0); d != nil {
		return d.(*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDeliveryRepository) GetByRouteID(ctx context.Context, routeID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, routeID)
	if d := args.Get(0); d != nil {
		return d.(*delivery.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}

type MockRouteUoWFactory struct{ mock.Mock }

func (m *MockRouteUoWFactory) Create() commands.RouteUoW {
	args := m.Called()
	return args.Get(0).(commands.RouteUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Resolve(ctx context.Context, address string) (kernel.Coordinate, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.Coordinate), args.Error(1)
}

// MockEventPublisher records broadcasts for assertion.
type MockEventPublisher struct {
	events []publishedEvent
}

type publishedEvent struct {
	deliveryID kernel.UUID
	kind       ports.EventKind
	payload    any
}

func (m *MockEventPublisher) Broadcast(deliveryID kernel.UUID, kind ports.EventKind, payload any) {
	m.events = append(m.events, publishedEvent{deliveryID: deliveryID, kind: kind, payload: payload})
}
