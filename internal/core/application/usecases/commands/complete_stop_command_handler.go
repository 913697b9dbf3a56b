package commands

import (
	"context"

	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/keylock"
)

// StopCompletedPayload is the broadcast body of a stop_completed event.
type StopCompletedPayload struct {
	StopIndex      int   `json:"stopIndex"`
	CompletedStops []int `json:"completedStops"`
}

// CompleteStopCommandHandler marks a stop of an active delivery as served
// and broadcasts the updated progress to the delivery's observers.
// Completing the same stop twice is an idempotent no-op that still
// broadcasts the current state.
type CompleteStopCommandHandler struct {
	uowFactory DeliveryUoWFactory
	publisher  ports.EventPublisher
	locks      *keylock.KeyLock
}

// NewCompleteStopCommandHandler creates a handler for stop completions.
func NewCompleteStopCommandHandler(
	uowFactory DeliveryUoWFactory,
	publisher ports.EventPublisher,
	locks *keylock.KeyLock,
) CompleteStopCommandHandler {
	return CompleteStopCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		locks:      locks,
	}
}

// Handle processes the stop completion.
// Returns an errs.ObjectNotFoundError for an unknown delivery, an
// errs.ValueIsOutOfRangeError for an index outside the route, and
// delivery.ErrDeliveryAlreadyCompleted once the run has finished.
func (h *CompleteStopCommandHandler) Handle(ctx context.Context, cmd CompleteStopCommand) error {
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

	if err = aggregate.CompleteStop(cmd.StopIndex()); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.publisher.Broadcast(cmd.DeliveryID(), ports.EventStopCompleted, StopCompletedPayload{
		StopIndex:      cmd.StopIndex(),
		CompletedStops: aggregate.CompletedStops(),
	})

	return nil
}
