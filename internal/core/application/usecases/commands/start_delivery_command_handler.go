package commands

import (
	"context"
	"errors"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/pkg/errs"
)

// StartDeliveryCommandHandler begins the execution of an optimized route.
// Creates the delivery aggregate and transitions the route to in-progress
// within one transaction, enforcing the one-delivery-per-route invariant.
type StartDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

// NewStartDeliveryCommandHandler creates a handler for starting deliveries.
// Requires a cross-aggregate UoWFactory since both the route and the new
// delivery change together.
func NewStartDeliveryCommandHandler(uowFactory UoWFactory) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the start command.
// Returns an errs.ObjectNotFoundError for an unknown route and
// ErrDeliveryAlreadyStarted when the route is already being executed.
func (h *StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	routeAggregate, err := uow.RouteRepository().Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}

	_, err = uow.DeliveryRepository().GetByRouteID(ctx, cmd.RouteID())
	switch {
	case err == nil:
		return ErrDeliveryAlreadyStarted
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}

	if err = routeAggregate.Start(); err != nil {
		return err
	}

	deliveryAggregate, err := delivery.NewDelivery(
		cmd.DeliveryID(), cmd.RouteID(), routeAggregate.StopCount())
	if err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Add(ctx, deliveryAggregate); err != nil {
		return err
	}

	if err = uow.RouteRepository().Update(ctx, routeAggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
