package profilerepo

import (
	"context"
	"errors"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/ports"
	"tindo/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormCustomerProfileRepository implements CustomerProfileRepository using GORM.
type GormCustomerProfileRepository struct {
	db *gorm.DB
}

// NewGormCustomerProfileRepository creates a new GORM customer profile repository.
func NewGormCustomerProfileRepository(db *gorm.DB) *GormCustomerProfileRepository {
	return &GormCustomerProfileRepository{db: db}
}

// Get resolves the customer profile that seeds the delivery snapshot.
// A profile without usable coordinates fails with a ValueIsInvalidError:
// orders cannot be delivered to an unknown location, and the client is
// never allowed to supply coordinates itself.
func (r *GormCustomerProfileRepository) Get(ctx context.Context, customerID int64) (ports.CustomerProfile, error) {
	if customerID <= 0 {
		return ports.CustomerProfile{}, errs.NewValueIsRequiredError("customer id")
	}

	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CustomerProfile{}, errs.NewObjectNotFoundError("customer", customerID)
		}
		return ports.CustomerProfile{}, err
	}

	if dto.Lat == nil || dto.Lng == nil {
		return ports.CustomerProfile{}, errs.NewValueIsInvalidError("customer location")
	}

	location, err := kernel.NewGeoPoint(*dto.Lat, *dto.Lng)
	if err != nil {
		return ports.CustomerProfile{}, errs.NewValueIsInvalidErrorWithCause("customer location", err)
	}

	return ports.CustomerProfile{
		ID:       dto.ID,
		Location: location,
		Address:  dto.Address,
		Phone:    dto.Phone,
	}, nil
}

// GormRestaurantDirectory implements RestaurantDirectory using GORM.
type GormRestaurantDirectory struct {
	db *gorm.DB
}

// NewGormRestaurantDirectory creates a new GORM restaurant directory.
func NewGormRestaurantDirectory(db *gorm.DB) *GormRestaurantDirectory {
	return &GormRestaurantDirectory{db: db}
}

// GetPhone returns the restaurant's contact phone for denormalization onto
// orders. A missing restaurant is an error; a missing phone is not.
func (r *GormRestaurantDirectory) GetPhone(ctx context.Context, restaurantID int64) (string, error) {
	if restaurantID <= 0 {
		return "", errs.NewValueIsRequiredError("restaurant id")
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", restaurantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errs.NewObjectNotFoundError("restaurant", restaurantID)
		}
		return "", err
	}

	return dto.Phone, nil
}
