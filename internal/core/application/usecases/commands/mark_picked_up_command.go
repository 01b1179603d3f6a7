package commands

import (
	"errors"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/guard"
)

var ErrMarkPickedUpCommandIsNotConstructed = errors.New(
	"MarkPickedUpCommand must be created via NewMarkPickedUpCommand constructor",
)

// MarkPickedUpCommand represents the agent collecting the order from the
// restaurant.
type MarkPickedUpCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkPickedUpCommand creates a pickup command for the given order.
func NewMarkPickedUpCommand(orderID kernel.UUID) (MarkPickedUpCommand, error) {
	if err := orderID.Validate(); err != nil {
		return MarkPickedUpCommand{}, err
	}

	return MarkPickedUpCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkPickedUpCommand) Validate() error {
	return c.guard.Validate(ErrMarkPickedUpCommandIsNotConstructed)
}

// OrderID returns the order being picked up.
func (c MarkPickedUpCommand) OrderID() kernel.UUID {
	return c.orderID
}
