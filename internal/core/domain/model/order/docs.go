// Package order provides the Order aggregate root and its lifecycle state
// machine for the ordering and tracking core.
//
// The package includes:
//   - Order: The aggregate root owning identity, items, the delivery snapshot, and lifecycle
//   - Status / TrackingStatus: the two parallel state machines for customer- and agent-facing progress
//   - Item: an immutable order line captured at checkout
//   - DeliverySnapshot: the write-once delivery target resolved from the customer profile
//
// Key business rules:
//   - Orders are created in WaitingForAgent/Pending and finalized exactly once
//   - The delivery snapshot is frozen at creation and survives every later transition
//   - Agent assignment happens exactly once; reassignment is not possible
//   - Status follows waiting_for_agent -> agent_assigned -> picked_up -> delivered,
//     with cancellation allowed until pickup
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
