package order

import (
	"errors"
	"fmt"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"
)

// OrderNumberLength is the fixed length of the public order number.
const OrderNumberLength = 12

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created
	// through the NewOrder factory method.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrAgentAlreadyAssigned is returned when assigning an agent to an order
	// that already has one. Assignment is write-once: an order is never
	// reassigned, and a lost assignment race surfaces as this error.
	ErrAgentAlreadyAssigned = errors.New("agent already assigned to order")

	// ErrOrderAlreadyFinalized is returned when Finalize is called twice.
	ErrOrderAlreadyFinalized = errors.New("order is already finalized")
)

// Order is the aggregate root for a customer order. It owns the lifecycle
// state machine (Status × TrackingStatus), the write-once delivery snapshot,
// the write-once agent assignment, and the set-once transition timestamps.
//
// Invariants:
//   - The delivery snapshot is captured at creation and never mutated.
//   - agent id moves nil → value exactly once and never changes again.
//   - Each transition timestamp is set exactly once, on its transition.
//   - Both status axes advance together through well-defined transitions;
//     anything else fails with an InvalidTransitionError.
//
// An order is created unfinalized (base fields and snapshot only) and then
// finalized with items, total, and the public order number. The two steps
// mirror the storage layer's two-phase insert, which a single transaction
// makes atomic.
type Order struct {
	// id is the immutable internal identifier
	id kernel.UUID

	// orderNumber is the public 12-digit identifier, set once at finalize
	orderNumber string

	// customerID and restaurantID are immutable external references
	customerID   int64
	restaurantID int64

	// agentID is the assigned delivery agent (nil until assignment)
	agentID *int64

	// items and total are immutable after finalize
	items []Item
	total float64

	// snapshot is the write-once delivery target
	snapshot DeliverySnapshot

	paymentType       string
	estimatedDelivery string
	notes             string

	status         Status
	trackingStatus TrackingStatus

	agentAssignedAt *time.Time
	pickedUpAt      *time.Time
	deliveredAt     *time.Time

	// isConstructed ensures the order was created via NewOrder or RestoreOrder
	isConstructed bool
}

// NewOrder creates an unfinalized order in WaitingForAgent/Pending state.
// The delivery snapshot must already be resolved from the customer profile;
// customer and restaurant ids must be positive.
func NewOrder(
	id kernel.UUID,
	customerID int64,
	restaurantID int64,
	snapshot DeliverySnapshot,
	paymentType string,
	estimatedDelivery string,
	notes string,
) (*Order, error) {
	o := &Order{
		paymentType:       paymentType,
		estimatedDelivery: estimatedDelivery,
		notes:             notes,
		status:            WaitingForAgent,
		trackingStatus:    TrackingPending,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setSnapshot(snapshot),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an order from persistence.
// All invariants are revalidated, including the consistency between
// status and agent assignment.
func RestoreOrder(
	id kernel.UUID,
	orderNumber string,
	customerID int64,
	restaurantID int64,
	agentID *int64,
	items []Item,
	total float64,
	snapshot DeliverySnapshot,
	paymentType string,
	estimatedDelivery string,
	notes string,
	status Status,
	trackingStatus TrackingStatus,
	agentAssignedAt *time.Time,
	pickedUpAt *time.Time,
	deliveredAt *time.Time,
) (*Order, error) {
	o := &Order{
		paymentType:       paymentType,
		estimatedDelivery: estimatedDelivery,
		notes:             notes,
		agentAssignedAt:   agentAssignedAt,
		pickedUpAt:        pickedUpAt,
		deliveredAt:       deliveredAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setRestaurantID(restaurantID),
		o.setSnapshot(snapshot),
		status.Validate(),
		trackingStatus.Validate(),
		status.ValidateCanHaveAgent(agentID != nil),
	); err != nil {
		return nil, err
	}

	o.status = status
	o.trackingStatus = trackingStatus

	if agentID != nil {
		if *agentID <= 0 {
			return nil, errs.NewValueIsInvalidErrorWithCause("agent id",
				fmt.Errorf("%d is not greater than 0", *agentID))
		}
		value := *agentID
		o.agentID = &value
	}

	if orderNumber != "" {
		if err := o.finalize(orderNumber, items, total); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their internal identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the immutable internal identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// OrderNumber returns the public 12-digit identifier.
// Empty until the order is finalized.
func (o *Order) OrderNumber() string {
	return o.orderNumber
}

// CustomerID returns the ordering customer's identifier.
func (o *Order) CustomerID() int64 {
	return o.customerID
}

// RestaurantID returns the restaurant's identifier.
func (o *Order) RestaurantID() int64 {
	return o.restaurantID
}

// AgentID returns the assigned delivery agent's identifier.
// Returns nil if no agent is assigned yet.
func (o *Order) AgentID() *int64 {
	return o.agentID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Total returns the order total. Zero until the order is finalized.
func (o *Order) Total() float64 {
	return o.total
}

// Snapshot returns the write-once delivery snapshot.
func (o *Order) Snapshot() DeliverySnapshot {
	return o.snapshot
}

// PaymentType returns the payment type chosen at checkout.
func (o *Order) PaymentType() string {
	return o.paymentType
}

// EstimatedDelivery returns the estimated delivery window supplied at checkout.
func (o *Order) EstimatedDelivery() string {
	return o.estimatedDelivery
}

// Notes returns free-form order notes.
func (o *Order) Notes() string {
	return o.notes
}

// Status returns the customer-facing status.
func (o *Order) Status() Status {
	return o.status
}

// TrackingStatus returns the agent-facing status.
func (o *Order) TrackingStatus() TrackingStatus {
	return o.trackingStatus
}

// AgentAssignedAt returns when the agent accepted the order, nil before that.
func (o *Order) AgentAssignedAt() *time.Time {
	return o.agentAssignedAt
}

// PickedUpAt returns when the agent collected the order, nil before that.
func (o *Order) PickedUpAt() *time.Time {
	return o.pickedUpAt
}

// DeliveredAt returns when the order was delivered, nil before that.
func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// IsFinalized reports whether the second creation phase has run.
func (o *Order) IsFinalized() bool {
	return o.orderNumber != ""
}

// Finalize completes the second creation phase: it sets the public order
// number, the order lines, and the total, exactly once. The delivery
// snapshot is deliberately untouched.
func (o *Order) Finalize(orderNumber string, items []Item, total float64) error {
	return o.finalize(orderNumber, items, total)
}

// Assign assigns the order to a delivery agent.
//
// Assignment is write-once: a second assignment attempt fails with
// ErrAgentAlreadyAssigned regardless of the agent, and any status other
// than WaitingForAgent fails with an InvalidTransitionError. On success
// the status pair becomes AgentAssigned/Accepted and agentAssignedAt is
// recorded. The delivery snapshot is never modified.
func (o *Order) Assign(agentID int64, at time.Time) error {
	if agentID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("agent id",
			fmt.Errorf("%d is not greater than 0", agentID))
	}
	if o.agentID != nil {
		return ErrAgentAlreadyAssigned
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("assignment time")
	}

	newStatus, err := o.status.Assign()
	if err != nil {
		return err
	}
	newTracking, err := o.trackingStatus.Accept()
	if err != nil {
		return err
	}

	assignedAt := at.UTC()
	o.status = newStatus
	o.trackingStatus = newTracking
	o.agentID = &agentID
	o.agentAssignedAt = &assignedAt
	return nil
}

// MarkPickedUp records that the agent collected the order.
// Valid only from AgentAssigned/Accepted; sets pickedUpAt once.
func (o *Order) MarkPickedUp(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("pickup time")
	}

	newStatus, err := o.status.Pickup()
	if err != nil {
		return err
	}
	newTracking, err := o.trackingStatus.Transit()
	if err != nil {
		return err
	}

	pickedUpAt := at.UTC()
	o.status = newStatus
	o.trackingStatus = newTracking
	o.pickedUpAt = &pickedUpAt
	return nil
}

// MarkDelivered records the terminal delivery of the order.
// Valid only from PickedUp/InTransit; sets deliveredAt once.
func (o *Order) MarkDelivered(at time.Time) error {
	if at.IsZero() {
		return errs.NewValueIsRequiredError("delivery time")
	}

	newStatus, err := o.status.Deliver()
	if err != nil {
		return err
	}
	newTracking, err := o.trackingStatus.Complete()
	if err != nil {
		return err
	}

	deliveredAt := at.UTC()
	o.status = newStatus
	o.trackingStatus = newTracking
	o.deliveredAt = &deliveredAt
	return nil
}

// Cancel moves the order to the terminal Cancelled status.
// Permitted from WaitingForAgent or AgentAssigned only. The tracking
// status is frozen in place rather than rewound.
func (o *Order) Cancel() error {
	newStatus, err := o.status.Cancel()
	if err != nil {
		return err
	}

	o.status = newStatus
	return nil
}

func (o *Order) finalize(orderNumber string, items []Item, total float64) error {
	if o.orderNumber != "" {
		return ErrOrderAlreadyFinalized
	}
	if err := ValidateOrderNumber(orderNumber); err != nil {
		return err
	}
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("order items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	if total <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%v is not greater than 0", total))
	}

	o.orderNumber = orderNumber
	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID int64) error {
	if customerID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("customer id",
			fmt.Errorf("%d is not greater than 0", customerID))
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setRestaurantID(restaurantID int64) error {
	if restaurantID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("restaurant id",
			fmt.Errorf("%d is not greater than 0", restaurantID))
	}
	o.restaurantID = restaurantID
	return nil
}

func (o *Order) setSnapshot(snapshot DeliverySnapshot) error {
	if err := snapshot.Validate(); err != nil {
		return err
	}
	o.snapshot = snapshot
	return nil
}

// ValidateOrderNumber checks that a public order number is exactly 12
// numeric digits.
func ValidateOrderNumber(orderNumber string) error {
	if len(orderNumber) != OrderNumberLength {
		return errs.NewValueIsInvalidErrorWithCause("order number",
			fmt.Errorf("%q is not %d digits", orderNumber, OrderNumberLength))
	}
	for _, r := range orderNumber {
		if r < '0' || r > '9' {
			return errs.NewValueIsInvalidErrorWithCause("order number",
				fmt.Errorf("%q contains a non-digit character", orderNumber))
		}
	}
	return nil
}
