package queries

import (
	"context"

	"tindo/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveDeliveriesQueryHandler retrieves in-progress deliveries from
// the database.
type GetActiveDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveDeliveriesQueryHandler creates a handler for active delivery queries.
func NewGetActiveDeliveriesQueryHandler(db *gorm.DB) GetActiveDeliveriesQueryHandler {
	return GetActiveDeliveriesQueryHandler{db: db}
}

// Handle executes the query. An order is active from agent acceptance
// until it reaches a terminal status.
func (h GetActiveDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetActiveDeliveriesQuery,
) ([]GetActiveDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			agent_id,
			delivery_lat,
			delivery_lng
		FROM orders
		WHERE status IN (?, ?) AND agent_id IS NOT NULL
		ORDER BY agent_assigned_at
	`, order.AgentAssigned.String(), order.PickedUp.String()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	deliveries := make([]GetActiveDeliveriesQueryResponse, 0)

	for rows.Next() {
		var resp GetActiveDeliveriesQueryResponse
		var id uuid.UUID

		err = rows.Scan(
			&id,
			&resp.AgentID,
			&resp.DeliveryLat,
			&resp.DeliveryLng,
		)
		if err != nil {
			return nil, err
		}

		resp.OrderID = id.String()
		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
