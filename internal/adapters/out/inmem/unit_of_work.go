package inmem

import (
	"context"
	"errors"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/ports"
)

// ErrNoActiveTransaction is returned when Commit or Rollback is called on a
// unit of work whose transaction was never started or already finished.
var ErrNoActiveTransaction = errors.New("no active transaction")

// InMemUnitOfWorkFactory creates unit of work instances over a shared store.
type InMemUnitOfWorkFactory struct {
	store *Store
}

// NewInMemUnitOfWorkFactory creates a factory bound to the given store.
func NewInMemUnitOfWorkFactory(store *Store) *InMemUnitOfWorkFactory {
	return &InMemUnitOfWorkFactory{store: store}
}

// Create produces a fresh UnitOfWork ready for one business transaction.
func (f *InMemUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &InMemUnitOfWork{store: f.store}
}

// InMemUnitOfWork stages writes until Commit so a failed operation leaves
// the store untouched, mirroring the transaction semantics of the database
// implementation. Reads inside the transaction see staged writes.
type InMemUnitOfWork struct {
	store  *Store
	active bool
	writes []func() error

	stagedRoutes     map[string]*route.Route
	stagedDeliveries map[string]*delivery.Delivery
}

// Begin starts the transaction. Repeated calls are safe.
func (uow *InMemUnitOfWork) Begin(_ context.Context) error {
	if uow.active {
		return nil
	}

	uow.active = true
	uow.writes = nil
	uow.stagedRoutes = make(map[string]*route.Route)
	uow.stagedDeliveries = make(map[string]*delivery.Delivery)
	return nil
}

// Commit applies all staged writes to the store in order. The first write
// that fails aborts the commit; earlier writes of the same transaction
// remain applied, which matches best-effort semantics of the degraded mode.
func (uow *InMemUnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	for _, write := range uow.writes {
		if err := write(); err != nil {
			uow.reset()
			return err
		}
	}

	uow.reset()
	return nil
}

// Rollback discards all staged writes.
func (uow *InMemUnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	uow.reset()
	return nil
}

func (uow *InMemUnitOfWork) reset() {
	uow.active = false
	uow.writes = nil
	uow.stagedRoutes = nil
	uow.stagedDeliveries = nil
}

// RouteRepository returns a route repository bound to this transaction.
func (uow *InMemUnitOfWork) RouteRepository() ports.RouteRepository {
	return &inMemRouteRepository{uow: uow}
}

// DeliveryRepository returns a delivery repository bound to this transaction.
func (uow *InMemUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return &inMemDeliveryRepository{uow: uow}
}

func (uow *InMemUnitOfWork) stageRoute(aggregate *route.Route, write func() error) error {
	clone, err := cloneRoute(aggregate)
	if err != nil {
		return err
	}

	if uow.active {
		uow.stagedRoutes[aggregate.ID().String()] = clone
		uow.writes = append(uow.writes, write)
		return nil
	}
	return write()
}

func (uow *InMemUnitOfWork) stageDelivery(aggregate *delivery.Delivery, write func() error) error {
	clone, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}

	if uow.active {
		uow.stagedDeliveries[aggregate.ID().String()] = clone
		uow.writes = append(uow.writes, write)
		return nil
	}
	return write()
}

type inMemRouteRepository struct {
	uow *InMemUnitOfWork
}

func (r *inMemRouteRepository) Add(_ context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot, err := cloneRoute(aggregate)
	if err != nil {
		return err
	}
	return r.uow.stageRoute(aggregate, func() error {
		return r.uow.store.addRoute(snapshot)
	})
}

func (r *inMemRouteRepository) Update(_ context.Context, aggregate *route.Route) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot, err := cloneRoute(aggregate)
	if err != nil {
		return err
	}
	return r.uow.stageRoute(aggregate, func() error {
		return r.uow.store.updateRoute(snapshot)
	})
}

func (r *inMemRouteRepository) Get(_ context.Context, id kernel.UUID) (*route.Route, error) {
	if r.uow.active {
		if staged, ok := r.uow.stagedRoutes[id.String()]; ok {
			return cloneRoute(staged)
		}
	}
	return r.uow.store.getRoute(id)
}

type inMemDeliveryRepository struct {
	uow *InMemUnitOfWork
}

func (r *inMemDeliveryRepository) Add(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}
	return r.uow.stageDelivery(aggregate, func() error {
		return r.uow.store.addDelivery(snapshot)
	})
}

func (r *inMemDeliveryRepository) Update(_ context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	snapshot, err := cloneDelivery(aggregate)
	if err != nil {
		return err
	}
	return r.uow.stageDelivery(aggregate, func() error {
		return r.uow.store.updateDelivery(snapshot)
	})
}

func (r *inMemDeliveryRepository) Get(_ context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	if r.uow.active {
		if staged, ok := r.uow.stagedDeliveries[id.String()]; ok {
			return cloneDelivery(staged)
		}
	}
	return r.uow.store.getDelivery(id)
}

func (r *inMemDeliveryRepository) GetByRouteID(_ context.Context, routeID kernel.UUID) (*delivery.Delivery, error) {
	if r.uow.active {
		for _, staged := range r.uow.stagedDeliveries {
			if staged.RouteID().IsEqual(routeID) {
				return cloneDelivery(staged)
			}
		}
	}
	return r.uow.store.getDeliveryByRouteID(routeID)
}
