package commands

import (
	"context"
	"time"

	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/keylock"
)

// DeliveryCompletedPayload is the broadcast body of a delivery_completed event.
type DeliveryCompletedPayload struct {
	RouteID        string    `json:"routeId"`
	CompletedStops []int     `json:"completedStops"`
	CompletedAt    time.Time `json:"completedAt"`
}

// CompleteDeliveryCommandHandler finishes a delivery run. The delivery and
// its owning route both transition to completed inside one transaction,
// keeping the cross-aggregate invariant, and the result is broadcast to the
// delivery's observers.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyLock
}

// NewCompleteDeliveryCommandHandler creates a handler for finishing deliveries.
func NewCompleteDeliveryCommandHandler(
	uowFactory UoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyLock,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the completion.
// Returns an errs.ObjectNotFoundError for an unknown delivery and
// delivery.ErrDeliveryAlreadyCompleted on a repeat call.
func (h *CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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

	deliveryAggregate, err := uow.DeliveryRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	if err = deliveryAggregate.Complete(); err != nil {
		return err
	}

	routeAggregate, err := uow.RouteRepository().Get(ctx, deliveryAggregate.RouteID())
	if err != nil {
		return err
	}

	if err = routeAggregate.Complete(); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, deliveryAggregate); err != nil {
		return err
	}

	if err = uow.RouteRepository().Update(ctx, routeAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	var completedAt time.Time
	if at := deliveryAggregate.CompletedAt(); at != nil {
		completedAt = *at
	}

	h.publisher.Broadcast(cmd.DeliveryID(), ports.EventDeliveryCompleted, DeliveryCompletedPayload{
		RouteID:        deliveryAggregate.RouteID().String(),
		CompletedStops: deliveryAggregate.CompletedStops(),
		CompletedAt:    completedAt,
	})

	return nil
}
