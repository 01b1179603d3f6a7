package commands

import (
	"context"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/domain/services"
	"tindo/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for placing an order.
//
// Creation is two-phase inside a single transaction: the base record with
// its delivery snapshot is persisted first, then the public order number is
// allocated and the order is finalized with its lines and total. A failure
// in either phase rolls back the whole order, so an unfinalized order is
// never visible outside the transaction.
//
// The delivery snapshot is resolved from the stored customer profile. The
// client may override the address but never the coordinates. The stored
// total is the client's figure: fees and discounts live there, so the line
// subtotals do not have to add up to it.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	allocator  services.OrderNumberAllocator
	publisher  ports.EventPublisher
}

// NewCreateOrderCommandHandler creates a handler for order placement.
// Requires a CreateOrderUoWFactory for transactional persistence and an
// EventPublisher for post-commit broadcasts.
func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	allocator services.OrderNumberAllocator,
	publisher ports.EventPublisher,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		allocator:  allocator,
		publisher:  publisher,
	}
}

// Handle processes the order placement command and returns the created
// aggregate. Broadcasts fire only after the transaction commits, so
// subscribers never observe an order that was rolled back.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
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

	profile, err := uow.CustomerProfileRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return nil, err
	}

	restaurantPhone, err := uow.RestaurantDirectory().GetPhone(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, err
	}

	address := profile.Address
	if cmd.AddressOverride() != "" {
		address = cmd.AddressOverride()
	}

	snapshot, err := order.NewDeliverySnapshot(profile.Location, address, profile.Phone, restaurantPhone)
	if err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(
		cmd.OrderID(),
		cmd.CustomerID(),
		cmd.RestaurantID(),
		snapshot,
		cmd.PaymentType(),
		cmd.EstimatedDelivery(),
		cmd.Notes(),
	)
	if err != nil {
		return nil, err
	}

	orderRepo := uow.OrderRepository()
	if err = orderRepo.Add(ctx, aggregate); err != nil {
		return nil, err
	}

	orderNumber, err := h.allocator.Allocate(ctx, orderRepo)
	if err != nil {
		return nil, err
	}

	if err = aggregate.Finalize(orderNumber, cmd.Items(), cmd.Total()); err != nil {
		return nil, err
	}

	if err = orderRepo.Finalize(ctx, aggregate); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	event := ports.NewOrderEvent(aggregate)
	h.publisher.Publish(ctx, ports.TopicNewOrder(), event)
	h.publisher.Publish(ctx, ports.TopicOrderForRestaurant(aggregate.RestaurantID()), event)

	return aggregate, nil
}
