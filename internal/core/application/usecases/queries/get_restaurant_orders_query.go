package queries

import (
	"errors"
	"time"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

var ErrGetRestaurantOrdersQueryIsNotConstructed = errors.New(
	"GetRestaurantOrdersQuery must be created via NewGetRestaurantOrdersQuery constructor",
)

// GetRestaurantOrdersQuery lists a restaurant's orders, optionally filtered
// by customer-facing status.
type GetRestaurantOrdersQuery struct { //nolint:recvcheck //using for validation
	restaurantID int64
	status       order.Status

	guard guard.ConstructorGuard
}

// NewGetRestaurantOrdersQuery creates an order-listing query for a restaurant.
// An empty status string means no status filter.
func NewGetRestaurantOrdersQuery(restaurantID int64, status string) (GetRestaurantOrdersQuery, error) {
	q := GetRestaurantOrdersQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		q.setRestaurantID(restaurantID),
		q.setStatus(status),
	); err != nil {
		return GetRestaurantOrdersQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetRestaurantOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetRestaurantOrdersQueryIsNotConstructed)
}

// RestaurantID returns the restaurant whose orders are listed.
func (q GetRestaurantOrdersQuery) RestaurantID() int64 {
	return q.restaurantID
}

// Status returns the status filter, StatusUnknown when unfiltered.
func (q GetRestaurantOrdersQuery) Status() order.Status {
	return q.status
}

func (q *GetRestaurantOrdersQuery) setRestaurantID(restaurantID int64) error {
	if restaurantID <= 0 {
		return errs.NewValueIsRequiredError("restaurant id")
	}

	q.restaurantID = restaurantID
	return nil
}

func (q *GetRestaurantOrdersQuery) setStatus(status string) error {
	if status == "" {
		q.status = order.StatusUnknown
		return nil
	}

	parsed, err := order.StatusFromString(status)
	if err != nil {
		return err
	}

	q.status = parsed
	return nil
}

// GetRestaurantOrdersQueryResponse is one row of the restaurant order list.
type GetRestaurantOrdersQueryResponse struct {
	OrderID        string
	OrderNumber    string
	CustomerID     int64
	AgentID        *int64
	Status         string
	TrackingStatus string
	Total          float64
	PaymentType    string
	CreatedAt      time.Time
}
