package commands

import (
	"context"
	"time"

	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/keylock"
)

// LocationUpdatePayload is the broadcast body of a location_update event.
type LocationUpdatePayload struct {
	Address   string    `json:"address,omitempty"`
	Latitude  float64   `json:"lat"`
	Longitude float64   `json:"lng"`
	Geohash   string    `json:"geohash"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UpdateLocationCommandHandler records a courier position report against an
// active delivery and broadcasts it to the delivery's observers.
//
// Reports for the same delivery are serialized through the keyed lock so
// concurrent updates cannot be lost; reports for different deliveries never
// contend. The broadcast happens after the commit and is best-effort.
type UpdateLocationCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyLock
}

// NewUpdateLocationCommandHandler creates a handler for position reports.
func NewUpdateLocationCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyLock,
) UpdateLocationCommandHandler {
	return UpdateLocationCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the position report.
// Returns an errs.ObjectNotFoundError for an unknown delivery and
// delivery.ErrDeliveryAlreadyCompleted once the run has finished.
func (h *UpdateLocationCommandHandler) Handle(ctx context.Context, cmd UpdateLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	key := cmd.DeliveryID().String()
	h.locks.Lock(key)
	defer h.locks.Unlock(key)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = aggregate.UpdateLocation(cmd.Location(), cmd.ReportedAt()); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	location := cmd.Location()
	h.publisher.Broadcast(cmd.DeliveryID(), ports.EventLocationUpdate, LocationUpdatePayload{
		Address:   location.Address(),
		Latitude:  location.Latitude(),
		Longitude: location.Longitude(),
		Geohash:   location.Geohash(),
		UpdatedAt: aggregate.LocationUpdatedAt(),
	})

	return nil
}
