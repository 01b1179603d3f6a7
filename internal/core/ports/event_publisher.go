package ports

import (
	"context"
	"fmt"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/order"
)

// Topic identifies a broadcast channel. Subscribers register interest in a
// topic; publishes to a topic with no subscribers are silently dropped.
type Topic string

// TopicNewOrder receives every freshly created order.
func TopicNewOrder() Topic {
	return "newOrder"
}

// TopicOrderForRestaurant scopes order events to one restaurant.
func TopicOrderForRestaurant(restaurantID int64) Topic {
	return Topic(fmt.Sprintf("orderForRestaurant_%d", restaurantID))
}

// TopicOrderForAgent scopes order events to one delivery agent.
func TopicOrderForAgent(agentID int64) Topic {
	return Topic(fmt.Sprintf("orderForAgent_%d", agentID))
}

// TopicTrackOrder scopes location updates to watchers of one order.
// The key is the internal order identifier as clients learn it from
// order payloads and the tracking endpoint.
func TopicTrackOrder(orderID string) Topic {
	return Topic(fmt.Sprintf("trackOrder_%s", orderID))
}

// TopicLocationUpdate receives every agent location update.
func TopicLocationUpdate() Topic {
	return "locationUpdate"
}

// OrderEvent is the broadcast payload for order lifecycle changes.
type OrderEvent struct {
	OrderID        string  `json:"orderId"`
	OrderNumber    string  `json:"orderNumber"`
	CustomerID     int64   `json:"customerId"`
	RestaurantID   int64   `json:"restaurantId"`
	AgentID        *int64  `json:"agentId,omitempty"`
	Status         string  `json:"status"`
	TrackingStatus string  `json:"trackingStatus"`
	Total          float64 `json:"total"`
}

// LocationEvent is the broadcast payload for an agent position sample.
type LocationEvent struct {
	AgentID    int64   `json:"agentId"`
	OrderID    string  `json:"orderId"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lng"`
	Accuracy   float64 `json:"accuracy,omitempty"`
	Speed      float64 `json:"speed,omitempty"`
	Heading    float64 `json:"heading,omitempty"`
	RecordedAt int64   `json:"timestamp"`
}

// NewOrderEvent builds the broadcast payload from an order aggregate.
func NewOrderEvent(aggregate *order.Order) OrderEvent {
	return OrderEvent{
		OrderID:        aggregate.ID().String(),
		OrderNumber:    aggregate.OrderNumber(),
		CustomerID:     aggregate.CustomerID(),
		RestaurantID:   aggregate.RestaurantID(),
		AgentID:        aggregate.AgentID(),
		Status:         aggregate.Status().String(),
		TrackingStatus: aggregate.TrackingStatus().String(),
		Total:          aggregate.Total(),
	}
}

// NewLocationEvent builds the broadcast payload from a location sample.
func NewLocationEvent(sample agent.LocationSample) LocationEvent {
	return LocationEvent{
		AgentID:    sample.AgentID(),
		OrderID:    sample.OrderID().String(),
		Latitude:   sample.Position().Latitude(),
		Longitude:  sample.Position().Longitude(),
		Accuracy:   sample.Accuracy(),
		Speed:      sample.Speed(),
		Heading:    sample.Heading(),
		RecordedAt: sample.RecordedAt().UnixMilli(),
	}
}

// EventPublisher fans events out to topic subscribers with at-most-once,
// fire-and-forget delivery. Publish never blocks the caller and never
// returns an error: a slow or absent subscriber drops the event, it does
// not fail the operation that produced it.
type EventPublisher interface {
	Publish(ctx context.Context, topic Topic, payload any)
}
