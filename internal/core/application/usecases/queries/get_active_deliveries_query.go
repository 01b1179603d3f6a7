package queries

import (
	"errors"

	"tindo/internal/pkg/guard"
)

var ErrGetActiveDeliveriesQueryIsNotConstructed = errors.New(
	"GetActiveDeliveriesQuery must be created via NewGetActiveDeliveriesQuery constructor",
)

// GetActiveDeliveriesQuery retrieves every order an agent is currently
// working: accepted or in transit, not yet delivered or cancelled. The
// location simulator uses this feed to know which agents to move.
type GetActiveDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveDeliveriesQuery creates a query for orders with an active agent.
// This is a parameterless query.
func NewGetActiveDeliveriesQuery() GetActiveDeliveriesQuery {
	return GetActiveDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveDeliveriesQueryIsNotConstructed)
}

// GetActiveDeliveriesQueryResponse is one delivery in progress: the agent
// working it and the destination they are heading to.
type GetActiveDeliveriesQueryResponse struct {
	OrderID     string
	AgentID     int64
	DeliveryLat float64
	DeliveryLng float64
}
