package queries

import (
	"context"

	"tindo/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRestaurantOrdersQueryHandler lists a restaurant's orders from the
// database, newest first.
type GetRestaurantOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetRestaurantOrdersQueryHandler creates a handler for restaurant order listings.
// Requires a GORM database connection for query execution.
func NewGetRestaurantOrdersQueryHandler(db *gorm.DB) GetRestaurantOrdersQueryHandler {
	return GetRestaurantOrdersQueryHandler{db: db}
}

// Handle executes the listing query. An unfiltered query returns every
// order of the restaurant; a status filter narrows it to one status.
func (h GetRestaurantOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetRestaurantOrdersQuery,
) ([]GetRestaurantOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	sql := `
		SELECT
			id,
			order_number,
			customer_id,
			agent_id,
			status,
			tracking_status,
			total,
			payment_type,
			created_at
		FROM orders
		WHERE restaurant_id = ?
	`
	args := []any{query.RestaurantID()}

	if query.Status() != order.StatusUnknown {
		sql += " AND status = ?"
		args = append(args, query.Status().String())
	}
	sql += " ORDER BY created_at DESC"

	rows, err := h.db.WithContext(ctx).Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetRestaurantOrdersQueryResponse, 0)

	for rows.Next() {
		var resp GetRestaurantOrdersQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.OrderNumber,
			&resp.CustomerID,
			&resp.AgentID,
			&resp.Status,
			&resp.TrackingStatus,
			&resp.Total,
			&resp.PaymentType,
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
