package order

import (
	"errors"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

// ErrSnapshotIsNotConstructed is returned when a DeliverySnapshot was not
// created via NewDeliverySnapshot.
var ErrSnapshotIsNotConstructed = errors.New(
	"DeliverySnapshot must be created via NewDeliverySnapshot constructor")

// DeliverySnapshot is the write-once delivery target of an order: the
// customer's coordinates and address as they were at order-creation time,
// plus the denormalized contact phones. It is captured exactly once from
// the customer profile and never mutated by any later operation, so the
// delivery target reflects the customer's location at order time, not at
// delivery time.
//
// Coordinates always come from the authenticated profile; only the address
// may be overridden by the request.
type DeliverySnapshot struct { //nolint:recvcheck //using for validation
	location        kernel.GeoPoint
	address         string
	customerPhone   string
	restaurantPhone string

	guard guard.ConstructorGuard
}

// NewDeliverySnapshot creates a validated delivery snapshot.
// The location must be a properly constructed GeoPoint and the address
// must be non-empty. Phones are optional denormalized contact data.
func NewDeliverySnapshot(
	location kernel.GeoPoint,
	address string,
	customerPhone string,
	restaurantPhone string,
) (DeliverySnapshot, error) {
	snapshot := DeliverySnapshot{
		customerPhone:   customerPhone,
		restaurantPhone: restaurantPhone,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		snapshot.setLocation(location),
		snapshot.setAddress(address),
	); err != nil {
		return DeliverySnapshot{}, err
	}

	return snapshot, nil
}

// Validate ensures the snapshot was created through NewDeliverySnapshot.
func (s DeliverySnapshot) Validate() error {
	return s.guard.Validate(ErrSnapshotIsNotConstructed)
}

// Location returns the frozen delivery coordinates.
func (s DeliverySnapshot) Location() kernel.GeoPoint {
	return s.location
}

// Address returns the frozen delivery address.
func (s DeliverySnapshot) Address() string {
	return s.address
}

// CustomerPhone returns the customer contact phone captured at creation.
func (s DeliverySnapshot) CustomerPhone() string {
	return s.customerPhone
}

// RestaurantPhone returns the restaurant contact phone captured at creation.
func (s DeliverySnapshot) RestaurantPhone() string {
	return s.restaurantPhone
}

func (s *DeliverySnapshot) setLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	s.location = location
	return nil
}

func (s *DeliverySnapshot) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	s.address = address
	return nil
}
