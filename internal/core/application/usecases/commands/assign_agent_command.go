package commands

import (
	"errors"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

var ErrAssignAgentCommandIsNotConstructed = errors.New(
	"AssignAgentCommand must be created via NewAssignAgentCommand constructor",
)

// AssignAgentCommand represents a delivery agent accepting an order.
type AssignAgentCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	agentID int64

	guard guard.ConstructorGuard
}

// NewAssignAgentCommand creates a command for an agent to accept an order.
// Validates that the order id is valid and the agent id is positive.
func NewAssignAgentCommand(orderID kernel.UUID, agentID int64) (AssignAgentCommand, error) {
	cmd := AssignAgentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setAgentID(agentID),
	); err != nil {
		return AssignAgentCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignAgentCommand) Validate() error {
	return c.guard.Validate(ErrAssignAgentCommandIsNotConstructed)
}

// OrderID returns the order being accepted.
func (c AssignAgentCommand) OrderID() kernel.UUID {
	return c.orderID
}

// AgentID returns the accepting agent's identifier.
func (c AssignAgentCommand) AgentID() int64 {
	return c.agentID
}

func (c *AssignAgentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AssignAgentCommand) setAgentID(agentID int64) error {
	if agentID <= 0 {
		return errs.NewValueIsRequiredError("agent id")
	}

	c.agentID = agentID
	return nil
}
