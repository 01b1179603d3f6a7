package ws

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser apps connect from their own origins; topic access control
	// happens at the API layer, not here.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler upgrades HTTP requests to hub-attached WebSocket connections.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a WebSocket upgrade handler over the hub.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{hub: hub, logger: logger}
}

// Serve handles one upgrade request and services the connection until it
// closes. The session from the query string seeds the initial topic set;
// clients can adjust it later with subscribe/unsubscribe control messages.
func (h *Handler) Serve(c echo.Context) error {
	session, err := SessionFromQuery(c.QueryParams())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(uuid.NewString(), h.hub, conn, h.logger)
	for _, topic := range session.Topics() {
		h.hub.Subscribe(client, topic)
	}
	client.Run()
	return nil
}
