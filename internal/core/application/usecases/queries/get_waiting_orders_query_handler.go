package queries

import (
	"context"

	"tindo/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetWaitingOrdersQueryHandler retrieves unassigned orders from the database.
// Only finalized orders appear: an order number is set in the second phase
// of creation, which the creating transaction makes atomic with the first.
type GetWaitingOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetWaitingOrdersQueryHandler creates a handler for unassigned order queries.
func NewGetWaitingOrdersQueryHandler(db *gorm.DB) GetWaitingOrdersQueryHandler {
	return GetWaitingOrdersQueryHandler{db: db}
}

// Handle executes the query, oldest orders first so they get picked up sooner.
func (h GetWaitingOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetWaitingOrdersQuery,
) ([]GetWaitingOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			restaurant_id,
			delivery_lat,
			delivery_lng,
			delivery_address,
			total,
			created_at
		FROM orders
		WHERE status = ? AND agent_id IS NULL
		ORDER BY created_at
	`, order.WaitingForAgent.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetWaitingOrdersQueryResponse, 0)

	for rows.Next() {
		var resp GetWaitingOrdersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.RestaurantID,
			&resp.DeliveryLat,
			&resp.DeliveryLng,
			&resp.DeliveryAddress,
			&resp.Total,
			&resp.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		resp.OrderID = id.String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
