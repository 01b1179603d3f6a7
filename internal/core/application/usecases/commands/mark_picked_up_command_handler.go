package commands

import (
	"context"
	"time"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
)

// MarkPickedUpCommandHandler records that the agent collected the order.
// Valid only from the assigned state; anything else fails with an
// InvalidTransitionError from the aggregate.
type MarkPickedUpCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

// NewMarkPickedUpCommandHandler creates a handler for pickup transitions.
func NewMarkPickedUpCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkPickedUpCommandHandler {
	return MarkPickedUpCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle processes the pickup command and returns the updated aggregate.
func (h *MarkPickedUpCommandHandler) Handle(ctx context.Context, cmd MarkPickedUpCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = aggregate.MarkPickedUp(h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.publishStatusChange(ctx, aggregate)

	return aggregate, nil
}

func (h *MarkPickedUpCommandHandler) publishStatusChange(ctx context.Context, aggregate *order.Order) {
	event := ports.NewOrderEvent(aggregate)
	h.publisher.Publish(ctx, ports.TopicOrderForRestaurant(aggregate.RestaurantID()), event)
	h.publisher.Publish(ctx, ports.TopicTrackOrder(aggregate.ID().String()), event)
}
