// Package ws implements the live broadcast channel over WebSocket.
// Clients subscribe to named topics; server-side code publishes events to
// topics with at-most-once, fire-and-forget delivery. A publish with no
// subscribers is dropped silently, and a slow subscriber loses events
// rather than slowing anyone else down.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"tindo/internal/core/ports"
)

// envelope is the wire format for every broadcast frame.
type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Hub routes published events to topic subscribers.
// It implements ports.EventPublisher.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[ports.Topic]map[*Client]struct{}
	logger      *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		subscribers: make(map[ports.Topic]map[*Client]struct{}),
		logger:      logger.With("component", "ws-hub"),
	}
}

// Publish fans the payload out to every subscriber of the topic.
// It never blocks: a subscriber whose send buffer is full loses this event.
func (h *Hub) Publish(ctx context.Context, topic ports.Topic, payload any) {
	frame, err := json.Marshal(envelope{Event: string(topic), Data: payload})
	if err != nil {
		h.logger.ErrorContext(ctx, "marshal broadcast frame", "topic", topic, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.subscribers[topic] {
		select {
		case client.send <- frame:
		default:
			h.logger.DebugContext(ctx, "dropping frame for slow subscriber", "topic", topic, "client", client.id)
		}
	}
}

// Subscribe registers the client's interest in a topic.
func (h *Hub) Subscribe(client *Client, topic ports.Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subscribers[topic] == nil {
		h.subscribers[topic] = make(map[*Client]struct{})
	}
	h.subscribers[topic][client] = struct{}{}
}

// Unsubscribe removes the client's interest in a topic.
func (h *Hub) Unsubscribe(client *Client, topic ports.Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client, topic)
}

// Detach removes the client from every topic. Called when the connection
// closes.
func (h *Hub) Detach(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for topic := range h.subscribers {
		h.removeLocked(client, topic)
	}
}

// SubscriberCount reports how many clients are subscribed to a topic.
func (h *Hub) SubscriberCount(topic ports.Topic) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[topic])
}

func (h *Hub) removeLocked(client *Client, topic ports.Topic) {
	if subs, ok := h.subscribers[topic]; ok {
		delete(subs, client)
		if len(subs) == 0 {
			delete(h.subscribers, topic)
		}
	}
}
