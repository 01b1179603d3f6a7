// Package queries contains read-only operations in the CQRS architecture.
// Query handlers bypass the domain aggregates and read projection rows
// straight from storage.
package queries

import (
	"errors"
	"time"

	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/guard"
)

var ErrGetOrderTrackingQueryIsNotConstructed = errors.New(
	"GetOrderTrackingQuery must be created via NewGetOrderTrackingQuery constructor",
)

// GetOrderTrackingQuery retrieves the tracking view of one order by its
// public order number.
type GetOrderTrackingQuery struct { //nolint:recvcheck //using for validation
	orderNumber string

	guard guard.ConstructorGuard
}

// NewGetOrderTrackingQuery creates a tracking query for the given public
// order number. The number must be exactly 12 digits.
func NewGetOrderTrackingQuery(orderNumber string) (GetOrderTrackingQuery, error) {
	q := GetOrderTrackingQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := q.setOrderNumber(orderNumber); err != nil {
		return GetOrderTrackingQuery{}, err
	}

	return q, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderTrackingQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderTrackingQueryIsNotConstructed)
}

// OrderNumber returns the public order number being tracked.
func (q GetOrderTrackingQuery) OrderNumber() string {
	return q.orderNumber
}

func (q *GetOrderTrackingQuery) setOrderNumber(orderNumber string) error {
	if err := order.ValidateOrderNumber(orderNumber); err != nil {
		return err
	}

	q.orderNumber = orderNumber
	return nil
}

// LastKnownLocation is the most recent agent position reported for the
// order, when any exists.
type LastKnownLocation struct {
	Latitude   float64
	Longitude  float64
	Accuracy   float64
	Speed      float64
	Heading    float64
	RecordedAt time.Time
}

// GetOrderTrackingQueryResponse is the tracking projection of one order.
// The delivery location always comes from the write-once snapshot, never
// from live agent positions.
type GetOrderTrackingQueryResponse struct {
	OrderID         string
	OrderNumber     string
	Status          string
	TrackingStatus  string
	AgentID         *int64
	RestaurantID    int64
	DeliveryLat     float64
	DeliveryLng     float64
	DeliveryAddress string
	RestaurantPhone string
	AgentAssignedAt *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time

	// LastKnown is nil until the agent reports a first position.
	LastKnown *LastKnownLocation
}
