package commands

import (
	"context"
	"time"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
)

// MarkDeliveredCommandHandler records the terminal delivery of an order.
// Valid only from the picked-up state.
type MarkDeliveredCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

// NewMarkDeliveredCommandHandler creates a handler for delivery transitions.
func NewMarkDeliveredCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) MarkDeliveredCommandHandler {
	return MarkDeliveredCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle processes the delivery command and returns the updated aggregate.
func (h *MarkDeliveredCommandHandler) Handle(ctx context.Context, cmd MarkDeliveredCommand) (*order.Order, error) {
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

	if err = aggregate.MarkDelivered(h.now()); err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	event := ports.NewOrderEvent(aggregate)
	h.publisher.Publish(ctx, ports.TopicOrderForRestaurant(aggregate.RestaurantID()), event)
	h.publisher.Publish(ctx, ports.TopicTrackOrder(aggregate.ID().String()), event)

	return aggregate, nil
}
