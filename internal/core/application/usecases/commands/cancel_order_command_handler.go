package commands

import (
	"context"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order that has not been picked up.
// Cancellation is permitted while waiting for an agent or after assignment;
// once the order is in transit it can only complete.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation command and returns the updated aggregate.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (*order.Order, error) {
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

	if err = aggregate.Cancel(); err != nil {
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
	if agentID := aggregate.AgentID(); agentID != nil {
		h.publisher.Publish(ctx, ports.TopicOrderForAgent(*agentID), event)
	}
	h.publisher.Publish(ctx, ports.TopicTrackOrder(aggregate.ID().String()), event)

	return aggregate, nil
}
