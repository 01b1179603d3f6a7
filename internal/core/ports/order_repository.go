// Package ports defines the contracts between the application core and
// infrastructure adapters: repositories, the unit of work, and the
// real-time event publisher.
package ports

import (
	"context"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
)

// AssignOutcome is the result of the conditional agent-assignment write.
type AssignOutcome int

const (
	// AssignOutcomeUnknown represents an undefined outcome.
	AssignOutcomeUnknown AssignOutcome = iota

	// AssignOutcomeAssigned means this write won: the agent now owns the order.
	AssignOutcomeAssigned

	// AssignOutcomeAlreadyAssigned means the compare-and-swap predicate
	// failed: another agent was already assigned. Expected under racing
	// accepts, not exceptional.
	AssignOutcomeAlreadyAssigned
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a freshly created, unfinalized order (base fields and
	// the delivery snapshot). The first phase of the two-phase create.
	Add(ctx context.Context, aggregate *order.Order) error

	// Finalize persists the second creation phase: order number, items,
	// and total. It must never touch the delivery snapshot columns.
	Finalize(ctx context.Context, aggregate *order.Order) error

	// Update persists a status transition (pickup, deliver, cancel).
	// Delivery snapshot columns are never part of the update set.
	Update(ctx context.Context, aggregate *order.Order) error

	// AssignAgent performs the compare-and-swap assignment write: the
	// update predicate includes "agent not yet assigned", so of two
	// racing accepts exactly one wins and the other observes
	// AssignOutcomeAlreadyAssigned via zero rows affected.
	AssignAgent(ctx context.Context, id kernel.UUID, agentID int64, at time.Time) (AssignOutcome, error)

	// Get retrieves an order aggregate by its internal identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByOrderNumber retrieves an order by its public 12-digit number.
	GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error)

	// IsOrderNumberTaken reports whether a public order number is already
	// issued. Used by the allocator's collision check.
	IsOrderNumberTaken(ctx context.Context, orderNumber string) (bool, error)
}
