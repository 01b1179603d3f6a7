package jobs

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/tracking"

	"github.com/robfig/cron/v3"
)

const (
	// simulatorStepMeters is how far a simulated agent travels per tick.
	// The job ticks every second, so this is also the reported speed.
	simulatorStepMeters = 10.0

	// Simulated runs start about a kilometer northeast of the drop-off.
	simulatorStartOffsetLat = 0.008
	simulatorStartOffsetLng = -0.006

	simulatorAccuracy  = 8.0
	simulatorFixBuffer = 8
)

// ActiveDelivery is one order an agent is currently working, as seen by
// the simulator: who is carrying it and where it must end up.
type ActiveDelivery struct {
	OrderID     kernel.UUID
	AgentID     int64
	Destination kernel.GeoPoint
}

// ActiveDeliveryLister lists the deliveries currently in progress.
type ActiveDeliveryLister interface {
	ListActiveDeliveries(ctx context.Context) ([]ActiveDelivery, error)
}

// LocationPublisher is the part of the tracking publisher the simulator
// drives.
type LocationPublisher interface {
	Start(ctx context.Context)
	Stop()
}

// PublisherFactory builds a tracking publisher for one agent working one
// order, consuming fixes from the given watch channel.
type PublisherFactory func(agentID int64, orderID kernel.UUID, watch <-chan tracking.Fix) LocationPublisher

// AgentSimulatorJob manages the simulated movement of delivery agents.
// Runs every second: for each active delivery it keeps a run that steps
// the agent toward the drop-off point and feeds the resulting GPS fixes
// into a tracking publisher. Runs end when their delivery leaves the
// active set.
type AgentSimulatorJob struct {
	lister       ActiveDeliveryLister
	newPublisher PublisherFactory
	cron         *cron.Cron
	logger       *slog.Logger

	mu   sync.Mutex
	runs map[string]*simulatedRun
}

// simulatedRun is one agent in motion: current position, the watch
// channel their fixes go out on, and the publisher consuming it.
type simulatedRun struct {
	delivery  ActiveDelivery
	position  kernel.GeoPoint
	watch     chan tracking.Fix
	publisher LocationPublisher
}

// NewAgentSimulatorJob creates a new job simulating agent movement.
func NewAgentSimulatorJob(
	lister ActiveDeliveryLister,
	newPublisher PublisherFactory,
	logger *slog.Logger,
) *AgentSimulatorJob {
	return &AgentSimulatorJob{
		lister:       lister,
		newPublisher: newPublisher,
		cron:         cron.New(cron.WithSeconds()),
		logger:       logger.With("component", "agent_simulator_job"),
		runs:         make(map[string]*simulatedRun),
	}
}

// Start begins the agent simulator job to run every second.
func (j *AgentSimulatorJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		j.tick(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Agent simulator job started (running every second)")
	return nil
}

// Stop stops the agent simulator job and every run it is driving.
func (j *AgentSimulatorJob) Stop() {
	j.cron.Stop()

	j.mu.Lock()
	defer j.mu.Unlock()
	for key, run := range j.runs {
		run.publisher.Stop()
		delete(j.runs, key)
	}

	j.logger.InfoContext(context.Background(), "Agent simulator job stopped")
}

func (j *AgentSimulatorJob) tick(ctx context.Context) {
	deliveries, err := j.lister.ListActiveDeliveries(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Agent simulator job failed", "error", err)
		return
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	active := make(map[string]struct{}, len(deliveries))

	for _, delivery := range deliveries {
		key := delivery.OrderID.String()
		active[key] = struct{}{}

		run, ok := j.runs[key]
		if !ok {
			run, err = j.startRun(ctx, delivery)
			if err != nil {
				j.logger.ErrorContext(ctx, "Failed to start simulated run", "order", key, "error", err)
				continue
			}
			j.runs[key] = run
			continue
		}

		j.advanceRun(ctx, run)
	}

	// Deliveries that reached a terminal status take their run with them.
	for key, run := range j.runs {
		if _, ok := active[key]; ok {
			continue
		}
		run.publisher.Stop()
		delete(j.runs, key)
		j.logger.InfoContext(ctx, "Simulated run finished", "order", key)
	}
}

func (j *AgentSimulatorJob) startRun(ctx context.Context, delivery ActiveDelivery) (*simulatedRun, error) {
	start, err := kernel.NewGeoPoint(
		delivery.Destination.Latitude()+simulatorStartOffsetLat,
		delivery.Destination.Longitude()+simulatorStartOffsetLng,
	)
	if err != nil {
		return nil, err
	}

	watch := make(chan tracking.Fix, simulatorFixBuffer)
	run := &simulatedRun{
		delivery:  delivery,
		position:  start,
		watch:     watch,
		publisher: j.newPublisher(delivery.AgentID, delivery.OrderID, watch),
	}

	run.publisher.Start(ctx)
	j.pushFix(ctx, run)

	j.logger.InfoContext(ctx, "Simulated run started",
		"order", delivery.OrderID.String(), "agent", delivery.AgentID)
	return run, nil
}

func (j *AgentSimulatorJob) advanceRun(ctx context.Context, run *simulatedRun) {
	next, err := stepToward(run.position, run.delivery.Destination, simulatorStepMeters)
	if err != nil {
		j.logger.WarnContext(ctx, "Simulated step failed",
			"order", run.delivery.OrderID.String(), "error", err)
		return
	}

	run.position = next
	j.pushFix(ctx, run)
}

// pushFix hands the run's current position to its publisher. The send
// never blocks the tick; when the publisher lags the fix is dropped and
// the next tick produces a fresher one anyway.
func (j *AgentSimulatorJob) pushFix(ctx context.Context, run *simulatedRun) {
	fix := tracking.Fix{
		Position: run.position,
		Accuracy: simulatorAccuracy,
		Speed:    simulatorStepMeters,
		Heading:  bearingDegrees(run.position, run.delivery.Destination),
		At:       time.Now(),
	}

	select {
	case run.watch <- fix:
	default:
		j.logger.WarnContext(ctx, "Dropping fix, watch buffer full",
			"order", run.delivery.OrderID.String())
	}
}

// stepToward moves from toward to by the given distance, pinning at the
// target once it is within one step.
func stepToward(from, to kernel.GeoPoint, meters float64) (kernel.GeoPoint, error) {
	distance, err := from.DistanceMeters(to)
	if err != nil {
		return kernel.GeoPoint{}, err
	}
	if distance <= meters {
		return to, nil
	}

	fraction := meters / distance
	return kernel.NewGeoPoint(
		from.Latitude()+(to.Latitude()-from.Latitude())*fraction,
		from.Longitude()+(to.Longitude()-from.Longitude())*fraction,
	)
}

// bearingDegrees is the initial great-circle bearing from from to to,
// normalized to [0, 360).
func bearingDegrees(from, to kernel.GeoPoint) float64 {
	const degToRad = math.Pi / 180

	lat1 := from.Latitude() * degToRad
	lat2 := to.Latitude() * degToRad
	dLng := (to.Longitude() - from.Longitude()) * degToRad

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return math.Mod(math.Atan2(y, x)/degToRad+360, 360)
}
