package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	httpadapter "tindo/internal/adapters/in/http"
	"tindo/internal/adapters/in/ws"
	"tindo/internal/adapters/out/postgres"
	"tindo/internal/adapters/out/postgres/locationrepo"
	"tindo/internal/adapters/out/rediscache/locationcache"
	"tindo/internal/core/application/usecases/commands"
	"tindo/internal/core/application/usecases/queries"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/services"
	"tindo/internal/jobs"
	"tindo/internal/pkg/auth"
	"tindo/internal/tracking"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// simulatorTokenTTL bounds the credential each simulated agent posts
// locations with. Generous, since a token outlives its run anyway.
const simulatorTokenTTL = 24 * time.Hour

type CompositionRoot struct {
	config           Config
	gormDB           *gorm.DB
	uowFactory       *postgres.GormUnitOfWorkFactory
	cachedUoWFactory *locationcache.UnitOfWorkFactory
	locationCache    *locationcache.Cache
	hub              *ws.Hub
	allocator        services.OrderNumberAllocator
	verifier         auth.TokenVerifier
	logger           *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) CompositionRoot {
	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	cache := locationcache.NewCache(redisClient, locationcache.DefaultTTL)

	return CompositionRoot{
		config:           config,
		gormDB:           gormDB,
		uowFactory:       uowFactory,
		cachedUoWFactory: locationcache.NewUnitOfWorkFactory(uowFactory, cache, logger),
		locationCache:    cache,
		hub:              ws.NewHub(logger),
		allocator:        services.NewOrderNumberAllocator(),
		verifier:         auth.NewTokenVerifier(config.JWTSecret),
		logger:           logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.allocator, c.hub)
}

func (c *CompositionRoot) CreateAssignAgentCommandHandler() commands.AssignAgentCommandHandler {
	return commands.NewAssignAgentCommandHandler(c.orderUoWFactory(), c.hub)
}

func (c *CompositionRoot) CreateMarkPickedUpCommandHandler() commands.MarkPickedUpCommandHandler {
	return commands.NewMarkPickedUpCommandHandler(c.orderUoWFactory(), c.hub)
}

func (c *CompositionRoot) CreateMarkDeliveredCommandHandler() commands.MarkDeliveredCommandHandler {
	return commands.NewMarkDeliveredCommandHandler(c.orderUoWFactory(), c.hub)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	return commands.NewCancelOrderCommandHandler(c.orderUoWFactory(), c.hub)
}

func (c *CompositionRoot) CreateSubmitAgentLocationCommandHandler() commands.SubmitAgentLocationCommandHandler {
	var f commands.LocationUoWFactory = FuncLocationUoWFactory(func() commands.LocationUoW {
		return c.cachedUoWFactory.Create()
	})
	return commands.NewSubmitAgentLocationCommandHandler(f, c.hub)
}

func (c *CompositionRoot) CreateGetOrderTrackingQueryHandler() queries.GetOrderTrackingQueryHandler {
	finder := locationcache.NewCachedLocationRepository(
		c.locationCache,
		locationrepo.NewGormLocationRepository(c.gormDB),
		c.logger,
	)
	return queries.NewGetOrderTrackingQueryHandler(c.gormDB, finder)
}

func (c *CompositionRoot) CreateGetRestaurantOrdersQueryHandler() queries.GetRestaurantOrdersQueryHandler {
	return queries.NewGetRestaurantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetWaitingOrdersQueryHandler() queries.GetWaitingOrdersQueryHandler {
	return queries.NewGetWaitingOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		locationrepo.NewGormLocationRepository(c.gormDB),
		c.activeDeliveryLister(),
		c.trackingPublisherFactory(),
		c.logger,
	)
}

// activeDeliveryLister adapts the active-deliveries query into the feed
// the agent simulator polls.
func (c *CompositionRoot) activeDeliveryLister() jobs.ActiveDeliveryLister {
	handler := queries.NewGetActiveDeliveriesQueryHandler(c.gormDB)

	return FuncActiveDeliveryLister(func(ctx context.Context) ([]jobs.ActiveDelivery, error) {
		rows, err := handler.Handle(ctx, queries.NewGetActiveDeliveriesQuery())
		if err != nil {
			return nil, err
		}

		deliveries := make([]jobs.ActiveDelivery, 0, len(rows))
		for _, row := range rows {
			orderID, err := kernel.UUIDFromString(row.OrderID)
			if err != nil {
				return nil, err
			}
			destination, err := kernel.NewGeoPoint(row.DeliveryLat, row.DeliveryLng)
			if err != nil {
				return nil, err
			}
			deliveries = append(deliveries, jobs.ActiveDelivery{
				OrderID:     orderID,
				AgentID:     row.AgentID,
				Destination: destination,
			})
		}
		return deliveries, nil
	})
}

// trackingPublisherFactory builds publishers for simulated agents. Each
// publisher broadcasts to the live hub and also posts to the service's
// own location endpoint with a bearer token, exercising the same path a
// real agent device would. Interval and movement threshold come from
// config; unset or unparsable values fall back to the tracking defaults.
func (c *CompositionRoot) trackingPublisherFactory() jobs.PublisherFactory {
	interval, minMovement := c.trackingSettings()
	issuer := auth.NewTokenIssuer(c.config.JWTSecret, simulatorTokenTTL)
	client := &http.Client{}
	url := fmt.Sprintf("http://127.0.0.1:%s/api/v1/tracking/agent-location", c.config.HTTPPort)

	return func(agentID int64, orderID kernel.UUID, watch <-chan tracking.Fix) jobs.LocationPublisher {
		sinks := []tracking.Sink{tracking.NewBroadcastSink(c.hub)}

		token, err := issuer.Issue(agentID, auth.RoleAgent)
		if err != nil {
			c.logger.Warn("Failed to issue simulator token, broadcasting only",
				"agent", agentID, "error", err)
		} else {
			sinks = append(sinks, tracking.NewRestSink(client, url, token, 10*time.Second))
		}

		return tracking.NewPublisher(agentID, orderID, watch, sinks, interval, minMovement, c.logger)
	}
}

func (c *CompositionRoot) trackingSettings() (time.Duration, float64) {
	interval := tracking.DefaultInterval
	if seconds, err := strconv.Atoi(c.config.TrackingInterval); err == nil && seconds > 0 {
		interval = time.Duration(seconds) * time.Second
	}

	minMovement := tracking.DefaultMinMovement
	if meters, err := strconv.ParseFloat(c.config.TrackingMinMovement, 64); err == nil && meters > 0 {
		minMovement = meters
	}

	return interval, minMovement
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	createOrder := c.CreateCreateOrderCommandHandler()
	assignAgent := c.CreateAssignAgentCommandHandler()
	markPickedUp := c.CreateMarkPickedUpCommandHandler()
	markDelivered := c.CreateMarkDeliveredCommandHandler()
	cancelOrder := c.CreateCancelOrderCommandHandler()
	submitLocation := c.CreateSubmitAgentLocationCommandHandler()

	return httpadapter.NewServer(
		&createOrder,
		&assignAgent,
		&markPickedUp,
		&markDelivered,
		&cancelOrder,
		&submitLocation,
		c.CreateGetOrderTrackingQueryHandler(),
		c.CreateGetRestaurantOrdersQueryHandler(),
		c.CreateGetWaitingOrdersQueryHandler(),
		ws.NewHandler(c.hub, c.logger),
		c.verifier,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncLocationUoWFactory func() commands.LocationUoW

func (f FuncLocationUoWFactory) Create() commands.LocationUoW {
	return f()
}

type FuncActiveDeliveryLister func(ctx context.Context) ([]jobs.ActiveDelivery, error)

func (f FuncActiveDeliveryLister) ListActiveDeliveries(ctx context.Context) ([]jobs.ActiveDelivery, error) {
	return f(ctx)
}
