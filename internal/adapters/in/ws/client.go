package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"tindo/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 64
)

// controlMessage is what clients send to manage their subscriptions.
type controlMessage struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// Client is one WebSocket connection attached to the hub.
type Client struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	logger *slog.Logger
}

// NewClient wraps an upgraded connection. The caller must start Run.
func NewClient(id string, hub *Hub, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		logger: logger.With("component", "ws-client", "client", id),
	}
}

// Run services the connection until it closes, then detaches the client
// from the hub. It blocks, callers run it in the connection's goroutine.
func (c *Client) Run() {
	done := make(chan struct{})
	go c.writePump(done)
	c.readPump()
	close(done)
	c.hub.Detach(c)
}

// readPump consumes subscription control messages until the peer goes away.
func (c *Client) readPump() {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("unexpected close", "error", err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug("ignoring malformed control message", "error", err)
			continue
		}

		switch msg.Action {
		case "subscribe":
			c.hub.Subscribe(c, ports.Topic(msg.Topic))
		case "unsubscribe":
			c.hub.Unsubscribe(c, ports.Topic(msg.Topic))
		default:
			c.logger.Debug("ignoring unknown action", "action", msg.Action)
		}
	}
}

// writePump forwards broadcast frames and keeps the connection alive with
// pings.
func (c *Client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
