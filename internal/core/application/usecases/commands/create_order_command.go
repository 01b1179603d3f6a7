package commands

import (
	"errors"
	"fmt"
	"math"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderItemsAreRequired = errors.New("at least one order item is required")
)

// ItemInput is a single order line as submitted by the client: the menu
// item reference plus the price and quantity captured at checkout.
type ItemInput struct {
	MenuItemID int64
	Name       string
	Price      float64
	Quantity   int
}

// CreateOrderCommand represents a request to place a new order.
// The delivery address may be overridden per order; delivery coordinates
// are deliberately absent because they always come from the stored
// customer profile.
//
// The total is taken from the client, not recomputed from the lines: it
// carries delivery fees and discounts the items alone do not cover.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID           kernel.UUID
	customerID        int64
	restaurantID      int64
	items             []order.Item
	total             float64
	paymentType       string
	estimatedDelivery string
	notes             string
	addressOverride   string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to place a new order.
// Validates the order id, the customer and restaurant references, every
// order line, and the total. Returns an error if any validation fails.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customerID int64,
	restaurantID int64,
	items []ItemInput,
	total float64,
	paymentType string,
	estimatedDelivery string,
	notes string,
	addressOverride string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		paymentType:       paymentType,
		estimatedDelivery: estimatedDelivery,
		notes:             notes,
		addressOverride:   addressOverride,
		guard:             guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setRestaurantID(restaurantID),
		cmd.setItems(items),
		cmd.setTotal(total),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the internal identifier for the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// CustomerID returns the ordering customer's identifier.
func (c CreateOrderCommand) CustomerID() int64 {
	return c.customerID
}

// RestaurantID returns the restaurant's identifier.
func (c CreateOrderCommand) RestaurantID() int64 {
	return c.restaurantID
}

// Items returns the validated order lines.
func (c CreateOrderCommand) Items() []order.Item {
	items := make([]order.Item, len(c.items))
	copy(items, c.items)
	return items
}

// Total returns the client-submitted order total, fees included.
func (c CreateOrderCommand) Total() float64 {
	return c.total
}

// PaymentType returns the payment type chosen at checkout.
func (c CreateOrderCommand) PaymentType() string {
	return c.paymentType
}

// EstimatedDelivery returns the estimated delivery window, if supplied.
func (c CreateOrderCommand) EstimatedDelivery() string {
	return c.estimatedDelivery
}

// Notes returns free-form order notes.
func (c CreateOrderCommand) Notes() string {
	return c.notes
}

// AddressOverride returns the per-order delivery address, empty when the
// profile address should be used.
func (c CreateOrderCommand) AddressOverride() string {
	return c.addressOverride
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID int64) error {
	if customerID <= 0 {
		return errs.NewValueIsRequiredError("customer id")
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setRestaurantID(restaurantID int64) error {
	if restaurantID <= 0 {
		return errs.NewValueIsRequiredError("restaurant id")
	}

	c.restaurantID = restaurantID
	return nil
}

func (c *CreateOrderCommand) setItems(items []ItemInput) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	lines := make([]order.Item, 0, len(items))
	for _, input := range items {
		line, err := order.NewItem(input.MenuItemID, input.Name, input.Price, input.Quantity)
		if err != nil {
			return err
		}
		lines = append(lines, line)
	}

	c.items = lines
	return nil
}

func (c *CreateOrderCommand) setTotal(total float64) error {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("%v is not a finite number", total))
	}
	if total <= 0 {
		return errs.NewValueIsRequiredError("total")
	}

	c.total = total
	return nil
}
