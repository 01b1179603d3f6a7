package queries

import (
	"errors"
	"time"

	"tindo/internal/pkg/guard"
)

var ErrGetWaitingOrdersQueryIsNotConstructed = errors.New(
	"GetWaitingOrdersQuery must be created via NewGetWaitingOrdersQuery constructor",
)

// GetWaitingOrdersQuery retrieves every order still waiting for an agent.
// This is the pool delivery agents pick from.
type GetWaitingOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetWaitingOrdersQuery creates a query for unassigned orders.
// This is a parameterless query.
func NewGetWaitingOrdersQuery() GetWaitingOrdersQuery {
	return GetWaitingOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetWaitingOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetWaitingOrdersQueryIsNotConstructed)
}

// GetWaitingOrdersQueryResponse is one unassigned order with the data an
// agent needs to decide whether to accept it.
type GetWaitingOrdersQueryResponse struct {
	OrderID         string
	OrderNumber     string
	RestaurantID    int64
	DeliveryLat     float64
	DeliveryLng     float64
	DeliveryAddress string
	Total           float64
	CreatedAt       time.Time
}
