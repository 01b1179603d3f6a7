package order

import (
	"errors"
	"fmt"

	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

// ErrItemIsNotConstructed is returned when an Item was not created via NewItem.
var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is a single menu line on an order: a menu item reference with the
// price and quantity captured at checkout. Items are immutable once the
// order is finalized.
type Item struct { //nolint:recvcheck //using for validation
	menuItemID int64
	name       string
	price      float64
	quantity   int

	guard guard.ConstructorGuard
}

// NewItem creates a validated order line.
// The menu item id must be positive, the name non-empty, the price
// non-negative, and the quantity positive.
func NewItem(menuItemID int64, name string, price float64, quantity int) (Item, error) {
	item := Item{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		item.setMenuItemID(menuItemID),
		item.setName(name),
		item.setPrice(price),
		item.setQuantity(quantity),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the Item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// MenuItemID returns the referenced menu item's identifier.
func (i Item) MenuItemID() int64 {
	return i.menuItemID
}

// Name returns the menu item name captured at checkout.
func (i Item) Name() string {
	return i.name
}

// Price returns the unit price captured at checkout.
func (i Item) Price() float64 {
	return i.price
}

// Quantity returns the ordered quantity.
func (i Item) Quantity() int {
	return i.quantity
}

// Subtotal returns price multiplied by quantity.
func (i Item) Subtotal() float64 {
	return i.price * float64(i.quantity)
}

func (i *Item) setMenuItemID(id int64) error {
	if id <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("menu item id",
			fmt.Errorf("%d is not greater than 0", id))
	}
	i.menuItemID = id
	return nil
}

func (i *Item) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setPrice(price float64) error {
	if price < 0 {
		return errs.NewValueIsInvalidErrorWithCause("item price",
			fmt.Errorf("%v is negative", price))
	}
	i.price = price
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("item quantity",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	i.quantity = quantity
	return nil
}
