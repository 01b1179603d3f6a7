package ports

import (
	"context"

	"tindo/internal/core/domain/model/kernel"
)

// CustomerProfile is the slice of the customer record the ordering core
// reads: the stored coordinates and address that seed the delivery
// snapshot, plus the contact phone.
type CustomerProfile struct {
	ID       int64
	Location kernel.GeoPoint
	Address  string
	Phone    string
}

// CustomerProfileRepository resolves customer profiles at order-creation
// time. It is the single source of delivery coordinates: clients can
// override the address but never the coordinates.
type CustomerProfileRepository interface {
	// Get returns the customer's profile.
	// Fails with an ObjectNotFoundError when no profile exists and with a
	// ValueIsInvalidError when the stored coordinates are absent or
	// non-finite.
	Get(ctx context.Context, customerID int64) (CustomerProfile, error)
}

// RestaurantDirectory resolves the restaurant contact data denormalized
// onto orders at creation.
type RestaurantDirectory interface {
	// GetPhone returns the restaurant's contact phone, or an empty string
	// when the restaurant has none on file.
	GetPhone(ctx context.Context, restaurantID int64) (string, error)
}
