package order

import "tindo/internal/pkg/errs"

// Status represents the customer-facing lifecycle state of an order.
// It implements a state machine with defined transitions:
//
//	WaitingForAgent ──> AgentAssigned ──> PickedUp ──> Delivered
//	       │                  │
//	       └────> Cancelled <─┘
//
// Delivered and Cancelled are terminal; no transition leaves them.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	StatusUnknown Status = iota

	// WaitingForAgent is the initial status of a freshly created order.
	WaitingForAgent

	// AgentAssigned indicates a delivery agent accepted the order.
	AgentAssigned

	// PickedUp indicates the agent collected the order from the restaurant.
	PickedUp

	// Delivered indicates the order reached the customer. Terminal.
	Delivered

	// Cancelled indicates the order was cancelled before pickup. Terminal.
	Cancelled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "unknown",
		WaitingForAgent: "waiting_for_agent",
		AgentAssigned:   "agent_assigned",
		PickedUp:        "picked_up",
		Delivered:       "delivered",
		Cancelled:       "cancelled",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		WaitingForAgent: "waiting_for_agent",
		AgentAssigned:   "agent_assigned",
		PickedUp:        "picked_up",
		Delivered:       "delivered",
		Cancelled:       "cancelled",
	}
}

// Validate checks if the Status value is one of the defined states.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsOutOfRangeError("status", int(s), int(WaitingForAgent), int(Cancelled))
	}
	return nil
}

// String returns the wire-format name of the status, e.g. "waiting_for_agent".
// Implements fmt.Stringer and is safe on any Status value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// StatusFromString parses a wire-format status name.
func StatusFromString(s string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return StatusUnknown, errs.NewValueIsInvalidError("status " + s)
}

// IsTerminal reports whether no further transition can leave the status.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// ValidateCanHaveAgent validates the consistency between order status and
// agent assignment. Orders waiting for an agent must not have one; assigned,
// picked up, and delivered orders must. Cancelled orders may have either,
// since cancellation is allowed both before and after assignment.
func (s Status) ValidateCanHaveAgent(hasAgent bool) error {
	if s == Cancelled {
		return nil
	}

	if hasAgent && s == WaitingForAgent {
		return errs.NewValueIsInvalidError("order waiting for agent cannot have an agent")
	}

	if !hasAgent && (s == AgentAssigned || s == PickedUp || s == Delivered) {
		return errs.NewValueIsInvalidError(s.String() + " order must have an agent")
	}

	return nil
}

// Assign transitions the status to AgentAssigned.
// Only valid from WaitingForAgent; an order is assigned exactly once.
func (s Status) Assign() (Status, error) {
	if s != WaitingForAgent {
		return 0, errs.NewInvalidTransitionError(s.String(), AgentAssigned.String())
	}
	return AgentAssigned, nil
}

// Pickup transitions the status to PickedUp. Only valid from AgentAssigned.
func (s Status) Pickup() (Status, error) {
	if s != AgentAssigned {
		return 0, errs.NewInvalidTransitionError(s.String(), PickedUp.String())
	}
	return PickedUp, nil
}

// Deliver transitions the status to Delivered. Only valid from PickedUp.
func (s Status) Deliver() (Status, error) {
	if s != PickedUp {
		return 0, errs.NewInvalidTransitionError(s.String(), Delivered.String())
	}
	return Delivered, nil
}

// Cancel transitions the status to Cancelled.
// Permitted from WaitingForAgent or AgentAssigned only; once the order is
// picked up it can no longer be cancelled.
func (s Status) Cancel() (Status, error) {
	if s != WaitingForAgent && s != AgentAssigned {
		return 0, errs.NewInvalidTransitionError(s.String(), Cancelled.String())
	}
	return Cancelled, nil
}

// TrackingStatus is the secondary, agent-facing status axis that runs in
// parallel to Status:
//
//	Pending ──> Accepted ──> InTransit ──> Completed
//
// It advances in lockstep with the customer-facing Status on every
// transition and is never rewound. Cancellation freezes it in place.
type TrackingStatus int

const (
	// TrackingUnknown represents an invalid or undefined tracking status.
	TrackingUnknown TrackingStatus = iota

	// TrackingPending mirrors WaitingForAgent.
	TrackingPending

	// TrackingAccepted mirrors AgentAssigned.
	TrackingAccepted

	// TrackingInTransit mirrors PickedUp.
	TrackingInTransit

	// TrackingCompleted mirrors Delivered. Terminal.
	TrackingCompleted
)

func getTrackingStatusStrings() map[TrackingStatus]string {
	return map[TrackingStatus]string{
		TrackingUnknown:   "unknown",
		TrackingPending:   "pending",
		TrackingAccepted:  "accepted",
		TrackingInTransit: "in_transit",
		TrackingCompleted: "completed",
	}
}

func getValidTrackingStatusStrings() map[TrackingStatus]string {
	//nolint:exhaustive // TrackingUnknown is intentionally excluded as it's invalid
	return map[TrackingStatus]string{
		TrackingPending:   "pending",
		TrackingAccepted:  "accepted",
		TrackingInTransit: "in_transit",
		TrackingCompleted: "completed",
	}
}

// Validate checks if the TrackingStatus value is one of the defined states.
func (s TrackingStatus) Validate() error {
	if _, ok := getValidTrackingStatusStrings()[s]; !ok {
		return errs.NewValueIsOutOfRangeError(
			"tracking_status", int(s), int(TrackingPending), int(TrackingCompleted))
	}
	return nil
}

// String returns the wire-format name of the tracking status, e.g. "in_transit".
func (s TrackingStatus) String() string {
	if str, ok := getTrackingStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// TrackingStatusFromString parses a wire-format tracking status name.
func TrackingStatusFromString(s string) (TrackingStatus, error) {
	for status, str := range getValidTrackingStatusStrings() {
		if str == s {
			return status, nil
		}
	}
	return TrackingUnknown, errs.NewValueIsInvalidError("tracking status " + s)
}

// Accept transitions the tracking status to Accepted. Only valid from Pending.
func (s TrackingStatus) Accept() (TrackingStatus, error) {
	if s != TrackingPending {
		return 0, errs.NewInvalidTransitionError(s.String(), TrackingAccepted.String())
	}
	return TrackingAccepted, nil
}

// Transit transitions the tracking status to InTransit. Only valid from Accepted.
func (s TrackingStatus) Transit() (TrackingStatus, error) {
	if s != TrackingAccepted {
		return 0, errs.NewInvalidTransitionError(s.String(), TrackingInTransit.String())
	}
	return TrackingInTransit, nil
}

// Complete transitions the tracking status to Completed. Only valid from InTransit.
func (s TrackingStatus) Complete() (TrackingStatus, error) {
	if s != TrackingInTransit {
		return 0, errs.NewInvalidTransitionError(s.String(), TrackingCompleted.String())
	}
	return TrackingCompleted, nil
}
