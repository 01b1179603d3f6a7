// Package http exposes the order lifecycle and tracking operations over a
// REST API, plus the WebSocket upgrade endpoint for live event streams.
package http

import (
	"errors"
	"net/http"
	"time"

	"tindo/internal/adapters/in/ws"
	"tindo/internal/core/application/usecases/commands"
	"tindo/internal/core/application/usecases/queries"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/pkg/auth"
	"tindo/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires command and query handlers to HTTP routes.
type Server struct {
	createOrder    *commands.CreateOrderCommandHandler
	assignAgent    *commands.AssignAgentCommandHandler
	markPickedUp   *commands.MarkPickedUpCommandHandler
	markDelivered  *commands.MarkDeliveredCommandHandler
	cancelOrder    *commands.CancelOrderCommandHandler
	submitLocation *commands.SubmitAgentLocationCommandHandler

	getTracking         queries.GetOrderTrackingQueryHandler
	getRestaurantOrders queries.GetRestaurantOrdersQueryHandler
	getWaitingOrders    queries.GetWaitingOrdersQueryHandler

	wsHandler *ws.Handler
	verifier  auth.TokenVerifier
}

// NewServer creates the HTTP server over its use case handlers.
func NewServer(
	createOrder *commands.CreateOrderCommandHandler,
	assignAgent *commands.AssignAgentCommandHandler,
	markPickedUp *commands.MarkPickedUpCommandHandler,
	markDelivered *commands.MarkDeliveredCommandHandler,
	cancelOrder *commands.CancelOrderCommandHandler,
	submitLocation *commands.SubmitAgentLocationCommandHandler,
	getTracking queries.GetOrderTrackingQueryHandler,
	getRestaurantOrders queries.GetRestaurantOrdersQueryHandler,
	getWaitingOrders queries.GetWaitingOrdersQueryHandler,
	wsHandler *ws.Handler,
	verifier auth.TokenVerifier,
) *Server {
	return &Server{
		createOrder:         createOrder,
		assignAgent:         assignAgent,
		markPickedUp:        markPickedUp,
		markDelivered:       markDelivered,
		cancelOrder:         cancelOrder,
		submitLocation:      submitLocation,
		getTracking:         getTracking,
		getRestaurantOrders: getRestaurantOrders,
		getWaitingOrders:    getWaitingOrders,
		wsHandler:           wsHandler,
		verifier:            verifier,
	}
}

// RegisterRoutes mounts every route on the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	agentAuth := AgentAuth(s.verifier)

	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders/waiting", s.GetWaitingOrders)
	api.POST("/orders/:id/assign", s.AssignAgent, agentAuth)
	api.POST("/orders/:id/pickup", s.MarkPickedUp, agentAuth)
	api.POST("/orders/:id/deliver", s.MarkDelivered, agentAuth)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.GET("/orders/:id/tracking", s.GetTracking)
	api.POST("/tracking/agent-location", s.SubmitLocation, agentAuth)
	api.GET("/restaurants/:id/orders", s.GetRestaurantOrders)

	e.GET("/health", s.Health)
	e.GET("/ws", s.wsHandler.Serve)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	items := make([]commands.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, commands.ItemInput{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   item.Quantity,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		req.CustomerID,
		req.RestaurantID,
		items,
		req.Total,
		req.PaymentType,
		req.EstimatedDelivery,
		req.Notes,
		req.DeliveryAddress,
	)
	if err != nil {
		return problem(c, err)
	}

	created, err := s.createOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusCreated, orderToResponse(created))
}

// AssignAgent handles POST /api/v1/orders/:id/assign. The agent identity
// comes from the verified bearer token.
func (s *Server) AssignAgent(c echo.Context) error {
	claims, ok := agentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	cmd, err := commands.NewAssignAgentCommand(orderID, claims.AgentID)
	if err != nil {
		return problem(c, err)
	}

	assigned, err := s.assignAgent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusOK, orderToResponse(assigned))
}

// MarkPickedUp handles POST /api/v1/orders/:id/pickup.
func (s *Server) MarkPickedUp(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	cmd, err := commands.NewMarkPickedUpCommand(orderID)
	if err != nil {
		return problem(c, err)
	}

	updated, err := s.markPickedUp.Handle(c.Request().Context(), cmd)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusOK, orderToResponse(updated))
}

// MarkDelivered handles POST /api/v1/orders/:id/deliver.
func (s *Server) MarkDelivered(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	cmd, err := commands.NewMarkDeliveredCommand(orderID)
	if err != nil {
		return problem(c, err)
	}

	updated, err := s.markDelivered.Handle(c.Request().Context(), cmd)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusOK, orderToResponse(updated))
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	orderID, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID)
	if err != nil {
		return problem(c, err)
	}

	cancelled, err := s.cancelOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusOK, orderToResponse(cancelled))
}

// SubmitLocation handles POST /api/v1/tracking/agent-location.
// Broadcast happens regardless of storage success, so the only failure a
// caller can see is a rejected sample.
func (s *Server) SubmitLocation(c echo.Context) error {
	claims, ok := agentClaims(c)
	if !ok {
		return unauthorized(c)
	}

	var req LocationRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "malformed request body")
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return badRequest(c, "invalid order id")
	}

	position, err := kernel.NewGeoPoint(req.Lat, req.Lng)
	if err != nil {
		return problem(c, err)
	}

	recordedAt := time.Now()
	if req.Timestamp > 0 {
		recordedAt = time.UnixMilli(req.Timestamp)
	}

	cmd, err := commands.NewSubmitAgentLocationCommand(
		claims.AgentID,
		orderID,
		position,
		req.Accuracy,
		req.Speed,
		req.Heading,
		recordedAt,
	)
	if err != nil {
		return problem(c, err)
	}

	if err := s.submitLocation.Handle(c.Request().Context(), cmd); err != nil {
		return problem(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetTracking handles GET /api/v1/orders/:id/tracking. The id here is the
// public 12-digit order number, the only identifier customers ever see.
func (s *Server) GetTracking(c echo.Context) error {
	query, err := queries.NewGetOrderTrackingQuery(c.Param("id"))
	if err != nil {
		return problem(c, err)
	}

	resp, err := s.getTracking.Handle(c.Request().Context(), query)
	if err != nil {
		return problem(c, err)
	}

	return c.JSON(http.StatusOK, trackingToResponse(resp))
}

// GetRestaurantOrders handles GET /api/v1/restaurants/:id/orders.
func (s *Server) GetRestaurantOrders(c echo.Context) error {
	var restaurantID int64
	if err := echo.PathParamsBinder(c).Int64("id", &restaurantID).BindError(); err != nil {
		return badRequest(c, "invalid restaurant id")
	}

	query, err := queries.NewGetRestaurantOrdersQuery(restaurantID, c.QueryParam("status"))
	if err != nil {
		return problem(c, err)
	}

	rows, err := s.getRestaurantOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return problem(c, err)
	}

	out := make([]RestaurantOrderResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, RestaurantOrderResponse{
			ID:             row.OrderID,
			OrderNumber:    row.OrderNumber,
			CustomerID:     row.CustomerID,
			AgentID:        row.AgentID,
			Status:         row.Status,
			TrackingStatus: row.TrackingStatus,
			Total:          row.Total,
			PaymentType:    row.PaymentType,
			CreatedAt:      row.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, out)
}

// GetWaitingOrders handles GET /api/v1/orders/waiting.
func (s *Server) GetWaitingOrders(c echo.Context) error {
	rows, err := s.getWaitingOrders.Handle(c.Request().Context(), queries.NewGetWaitingOrdersQuery())
	if err != nil {
		return problem(c, err)
	}

	out := make([]WaitingOrderResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, WaitingOrderResponse{
			ID:              row.OrderID,
			OrderNumber:     row.OrderNumber,
			RestaurantID:    row.RestaurantID,
			DeliveryLat:     row.DeliveryLat,
			DeliveryLng:     row.DeliveryLng,
			DeliveryAddress: row.DeliveryAddress,
			Total:           row.Total,
			CreatedAt:       row.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, out)
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// problem maps a use case error to an HTTP response.
func problem(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return c.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, order.ErrAgentAlreadyAssigned):
		return c.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: "order already has an agent",
		})
	case errors.Is(err, errs.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, Error{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrOrderItemsAreRequired):
		return badRequest(c, err.Error())
	default:
		return c.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "internal server error",
		})
	}
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, Error{
		Code:    http.StatusUnauthorized,
		Message: "invalid token",
	})
}
