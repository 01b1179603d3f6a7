package commands

import (
	"context"
	"time"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
)

// AssignAgentCommandHandler handles an agent accepting an order.
//
// Assignment is a conditional write: the update predicate requires that no
// agent is assigned yet, so when several agents accept the same order
// concurrently exactly one write succeeds. The losers get
// order.ErrAgentAlreadyAssigned, which callers surface as a conflict rather
// than a failure.
type AssignAgentCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
	now        func() time.Time
}

// NewAssignAgentCommandHandler creates a handler for agent assignment.
func NewAssignAgentCommandHandler(uowFactory OrderUoWFactory, publisher ports.EventPublisher) AssignAgentCommandHandler {
	return AssignAgentCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle processes the assignment command and returns the updated aggregate.
// Returns order.ErrAgentAlreadyAssigned when the conditional write lost the
// race or the order already had an agent.
func (h *AssignAgentCommandHandler) Handle(ctx context.Context, cmd AssignAgentCommand) (*order.Order, error) {
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

	outcome, err := orderRepo.AssignAgent(ctx, cmd.OrderID(), cmd.AgentID(), h.now().UTC())
	if err != nil {
		return nil, err
	}
	if outcome == ports.AssignOutcomeAlreadyAssigned {
		return nil, order.ErrAgentAlreadyAssigned
	}

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	event := ports.NewOrderEvent(aggregate)
	h.publisher.Publish(ctx, ports.TopicOrderForAgent(cmd.AgentID()), event)
	h.publisher.Publish(ctx, ports.TopicOrderForRestaurant(aggregate.RestaurantID()), event)
	h.publisher.Publish(ctx, ports.TopicTrackOrder(aggregate.ID().String()), event)

	return aggregate, nil
}
