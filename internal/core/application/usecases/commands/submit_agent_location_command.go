package commands

import (
	"errors"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/guard"
)

var ErrSubmitAgentLocationCommandIsNotConstructed = errors.New(
	"SubmitAgentLocationCommand must be created via NewSubmitAgentLocationCommand constructor",
)

// SubmitAgentLocationCommand represents a single position report from a
// delivery agent working an order.
type SubmitAgentLocationCommand struct { //nolint:recvcheck //using for validation
	sample agent.LocationSample

	guard guard.ConstructorGuard
}

// NewSubmitAgentLocationCommand creates a location submission command.
// All sample validation happens in the LocationSample constructor.
func NewSubmitAgentLocationCommand(
	agentID int64,
	orderID kernel.UUID,
	position kernel.GeoPoint,
	accuracy float64,
	speed float64,
	heading float64,
	recordedAt time.Time,
) (SubmitAgentLocationCommand, error) {
	sample, err := agent.NewLocationSample(agentID, orderID, position, accuracy, speed, heading, recordedAt)
	if err != nil {
		return SubmitAgentLocationCommand{}, err
	}

	return SubmitAgentLocationCommand{
		sample: sample,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c SubmitAgentLocationCommand) Validate() error {
	return c.guard.Validate(ErrSubmitAgentLocationCommandIsNotConstructed)
}

// Sample returns the validated location sample.
func (c SubmitAgentLocationCommand) Sample() agent.LocationSample {
	return c.sample
}
