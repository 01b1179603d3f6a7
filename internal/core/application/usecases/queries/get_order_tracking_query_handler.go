package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LastLocationFinder resolves the most recent agent position for an order.
// The composition root wires a cache-first chain here, so a cache miss
// falls through to durable storage transparently.
type LastLocationFinder interface {
	GetLatestForOrder(ctx context.Context, orderID kernel.UUID) (agent.LocationSample, error)
}

// GetOrderTrackingQueryHandler reads the tracking projection of one order.
// The order row comes straight from the database; the last known agent
// position is resolved separately and its absence is not an error, since a
// freshly placed order has no positions yet.
type GetOrderTrackingQueryHandler struct {
	db     *gorm.DB
	finder LastLocationFinder
}

// NewGetOrderTrackingQueryHandler creates a handler for tracking queries.
func NewGetOrderTrackingQueryHandler(db *gorm.DB, finder LastLocationFinder) GetOrderTrackingQueryHandler {
	return GetOrderTrackingQueryHandler{db: db, finder: finder}
}

// Handle executes the tracking query.
// Returns an ObjectNotFoundError when no order has the given number.
func (h GetOrderTrackingQueryHandler) Handle(
	ctx context.Context,
	query GetOrderTrackingQuery,
) (GetOrderTrackingQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			order_number,
			status,
			tracking_status,
			agent_id,
			restaurant_id,
			delivery_lat,
			delivery_lng,
			delivery_address,
			restaurant_phone,
			agent_assigned_at,
			picked_up_at,
			delivered_at
		FROM orders
		WHERE order_number = ?
	`, query.OrderNumber()).Row()

	var resp GetOrderTrackingQueryResponse
	var id uuid.UUID
	var agentID *int64
	var assignedAt, pickedUpAt, deliveredAt *time.Time

	err := row.Scan(
		&id,
		&resp.OrderNumber,
		&resp.Status,
		&resp.TrackingStatus,
		&agentID,
		&resp.RestaurantID,
		&resp.DeliveryLat,
		&resp.DeliveryLng,
		&resp.DeliveryAddress,
		&resp.RestaurantPhone,
		&assignedAt,
		&pickedUpAt,
		&deliveredAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return GetOrderTrackingQueryResponse{}, errs.NewObjectNotFoundError("order number", query.OrderNumber())
		}
		return GetOrderTrackingQueryResponse{}, err
	}

	resp.OrderID = id.String()
	resp.AgentID = agentID
	resp.AgentAssignedAt = assignedAt
	resp.PickedUpAt = pickedUpAt
	resp.DeliveredAt = deliveredAt

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetOrderTrackingQueryResponse{}, err
	}

	sample, err := h.finder.GetLatestForOrder(ctx, orderID)
	switch {
	case err == nil:
		resp.LastKnown = &LastKnownLocation{
			Latitude:   sample.Position().Latitude(),
			Longitude:  sample.Position().Longitude(),
			Accuracy:   sample.Accuracy(),
			Speed:      sample.Speed(),
			Heading:    sample.Heading(),
			RecordedAt: sample.RecordedAt(),
		}
	case errors.Is(err, errs.ErrObjectNotFound):
		// No position reported yet.
	default:
		return GetOrderTrackingQueryResponse{}, err
	}

	return resp, nil
}
