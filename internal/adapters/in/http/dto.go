package http

import (
	"time"

	"tindo/internal/core/application/usecases/queries"
	"tindo/internal/core/domain/model/order"
)

// Error is the uniform error body for every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// CreateOrderRequest is the body for POST /api/v1/orders.
// Delivery coordinates are deliberately absent: they always come from the
// stored customer profile. Only the address may be overridden per order.
// The total is required and client-authoritative; delivery fees and
// discounts make it diverge from the sum of the line subtotals.
type CreateOrderRequest struct {
	CustomerID        int64              `json:"customerId"`
	RestaurantID      int64              `json:"restaurantId"`
	Items             []OrderItemRequest `json:"items"`
	Total             float64            `json:"total"`
	PaymentType       string             `json:"paymentType"`
	EstimatedDelivery string             `json:"estimatedDelivery,omitempty"`
	Notes             string             `json:"notes,omitempty"`
	DeliveryAddress   string             `json:"deliveryAddress,omitempty"`
}

// OrderItemRequest is one order line in a creation request.
type OrderItemRequest struct {
	MenuItemID int64   `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// AssignRequest is the body for POST /api/v1/orders/:id/assign.
// The agent id comes from the verified token, not the body; the body is
// currently empty and reserved.
type AssignRequest struct{}

// LocationRequest is the body for POST /api/v1/tracking/agent-location.
type LocationRequest struct {
	OrderID   string  `json:"orderId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Speed     float64 `json:"speed,omitempty"`
	Heading   float64 `json:"heading,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// OrderItemResponse is one order line in an order response.
type OrderItemResponse struct {
	MenuItemID int64   `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

// OrderResponse is the full representation of one order.
type OrderResponse struct {
	ID                string              `json:"id"`
	OrderNumber       string              `json:"orderNumber"`
	CustomerID        int64               `json:"customerId"`
	RestaurantID      int64               `json:"restaurantId"`
	AgentID           *int64              `json:"agentId,omitempty"`
	Items             []OrderItemResponse `json:"items"`
	Total             float64             `json:"total"`
	Status            string              `json:"status"`
	TrackingStatus    string              `json:"trackingStatus"`
	PaymentType       string              `json:"paymentType"`
	EstimatedDelivery string              `json:"estimatedDelivery,omitempty"`
	Notes             string              `json:"notes,omitempty"`
	DeliveryAddress   string              `json:"deliveryAddress"`
	DeliveryLat       float64             `json:"deliveryLat"`
	DeliveryLng       float64             `json:"deliveryLng"`
	CustomerPhone     string              `json:"customerPhone,omitempty"`
	RestaurantPhone   string              `json:"restaurantPhone,omitempty"`
	AgentAssignedAt   *time.Time          `json:"agentAssignedAt,omitempty"`
	PickedUpAt        *time.Time          `json:"pickedUpAt,omitempty"`
	DeliveredAt       *time.Time          `json:"deliveredAt,omitempty"`
}

// LastKnownLocationResponse is the freshest agent position in a tracking
// response.
type LastKnownLocationResponse struct {
	Lat        float64   `json:"lat"`
	Lng        float64   `json:"lng"`
	Accuracy   float64   `json:"accuracy,omitempty"`
	Speed      float64   `json:"speed,omitempty"`
	Heading    float64   `json:"heading,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
}

// TrackingResponse is the body for GET /api/v1/orders/:id/tracking.
type TrackingResponse struct {
	OrderID         string                     `json:"orderId"`
	OrderNumber     string                     `json:"orderNumber"`
	Status          string                     `json:"status"`
	TrackingStatus  string                     `json:"trackingStatus"`
	AgentID         *int64                     `json:"agentId,omitempty"`
	DeliveryLat     float64                    `json:"deliveryLat"`
	DeliveryLng     float64                    `json:"deliveryLng"`
	DeliveryAddress string                     `json:"deliveryAddress"`
	RestaurantPhone string                     `json:"restaurantPhone,omitempty"`
	AgentAssignedAt *time.Time                 `json:"agentAssignedAt,omitempty"`
	PickedUpAt      *time.Time                 `json:"pickedUpAt,omitempty"`
	DeliveredAt     *time.Time                 `json:"deliveredAt,omitempty"`
	LastKnown       *LastKnownLocationResponse `json:"lastKnownLocation,omitempty"`
}

// RestaurantOrderResponse is one row of a restaurant's order list.
type RestaurantOrderResponse struct {
	ID             string    `json:"id"`
	OrderNumber    string    `json:"orderNumber"`
	CustomerID     int64     `json:"customerId"`
	AgentID        *int64    `json:"agentId,omitempty"`
	Status         string    `json:"status"`
	TrackingStatus string    `json:"trackingStatus"`
	Total          float64   `json:"total"`
	PaymentType    string    `json:"paymentType"`
	CreatedAt      time.Time `json:"createdAt"`
}

// WaitingOrderResponse is one row of the unassigned order pool.
type WaitingOrderResponse struct {
	ID              string    `json:"id"`
	OrderNumber     string    `json:"orderNumber"`
	RestaurantID    int64     `json:"restaurantId"`
	DeliveryLat     float64   `json:"deliveryLat"`
	DeliveryLng     float64   `json:"deliveryLng"`
	DeliveryAddress string    `json:"deliveryAddress"`
	Total           float64   `json:"total"`
	CreatedAt       time.Time `json:"createdAt"`
}

func orderToResponse(aggregate *order.Order) OrderResponse {
	items := aggregate.Items()
	itemResponses := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		itemResponses = append(itemResponses, OrderItemResponse{
			MenuItemID: item.MenuItemID(),
			Name:       item.Name(),
			Price:      item.Price(),
			Quantity:   item.Quantity(),
			Subtotal:   item.Subtotal(),
		})
	}

	snapshot := aggregate.Snapshot()

	return OrderResponse{
		ID:                aggregate.ID().String(),
		OrderNumber:       aggregate.OrderNumber(),
		CustomerID:        aggregate.CustomerID(),
		RestaurantID:      aggregate.RestaurantID(),
		AgentID:           aggregate.AgentID(),
		Items:             itemResponses,
		Total:             aggregate.Total(),
		Status:            aggregate.Status().String(),
		TrackingStatus:    aggregate.TrackingStatus().String(),
		PaymentType:       aggregate.PaymentType(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		Notes:             aggregate.Notes(),
		DeliveryAddress:   snapshot.Address(),
		DeliveryLat:       snapshot.Location().Latitude(),
		DeliveryLng:       snapshot.Location().Longitude(),
		CustomerPhone:     snapshot.CustomerPhone(),
		RestaurantPhone:   snapshot.RestaurantPhone(),
		AgentAssignedAt:   aggregate.AgentAssignedAt(),
		PickedUpAt:        aggregate.PickedUpAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
	}
}

func trackingToResponse(resp queries.GetOrderTrackingQueryResponse) TrackingResponse {
	out := TrackingResponse{
		OrderID:         resp.OrderID,
		OrderNumber:     resp.OrderNumber,
		Status:          resp.Status,
		TrackingStatus:  resp.TrackingStatus,
		AgentID:         resp.AgentID,
		DeliveryLat:     resp.DeliveryLat,
		DeliveryLng:     resp.DeliveryLng,
		DeliveryAddress: resp.DeliveryAddress,
		RestaurantPhone: resp.RestaurantPhone,
		AgentAssignedAt: resp.AgentAssignedAt,
		PickedUpAt:      resp.PickedUpAt,
		DeliveredAt:     resp.DeliveredAt,
	}

	if resp.LastKnown != nil {
		out.LastKnown = &LastKnownLocationResponse{
			Lat:        resp.LastKnown.Latitude,
			Lng:        resp.LastKnown.Longitude,
			Accuracy:   resp.LastKnown.Accuracy,
			Speed:      resp.LastKnown.Speed,
			Heading:    resp.LastKnown.Heading,
			RecordedAt: resp.LastKnown.RecordedAt,
		}
	}

	return out
}
