// Package tracking implements the agent-device side of live tracking: a
// publisher that consumes GPS fixes from a position watch, filters out
// stationary noise, and pushes the surviving samples to its sinks.
package tracking

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
)

const (
	// DefaultInterval is the backstop publish period. Even a stationary
	// agent reports at this cadence so subscribers can tell "not moving"
	// from "gone dark".
	DefaultInterval = 5 * time.Second

	// DefaultMinMovement is the haversine distance a fix must put between
	// itself and the last published position to be forwarded immediately.
	DefaultMinMovement = 5.0
)

// ErrUnauthorized is returned by a sink when the agent credential was
// rejected. The publisher treats it as fatal and stops itself: retrying
// with the same expired token would only produce more rejections.
var ErrUnauthorized = errors.New("agent credential rejected")

// Fix is one raw reading from the device's position watch.
type Fix struct {
	Position kernel.GeoPoint
	Accuracy float64
	Speed    float64
	Heading  float64
	At       time.Time
}

// Sink receives published location samples. Sinks are independent: a
// failure in one never prevents delivery to another.
type Sink interface {
	Send(ctx context.Context, sample agent.LocationSample) error
}

// Publisher forwards an agent's position fixes to its sinks while a
// delivery is active.
//
// A single goroutine selects over the watch channel and a backstop
// ticker. A fix from the watch is forwarded only when it has moved at
// least minMovement meters from the last published position; the ticker
// republishes the latest fix unconditionally. Start and Stop are
// idempotent.
type Publisher struct {
	agentID     int64
	orderID     kernel.UUID
	watch       <-chan Fix
	sinks       []Sink
	interval    time.Duration
	minMovement float64
	logger      *slog.Logger

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewPublisher creates a publisher for one agent working one order.
// Zero interval or minMovement fall back to the defaults.
func NewPublisher(
	agentID int64,
	orderID kernel.UUID,
	watch <-chan Fix,
	sinks []Sink,
	interval time.Duration,
	minMovement float64,
	logger *slog.Logger,
) *Publisher {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if minMovement <= 0 {
		minMovement = DefaultMinMovement
	}

	return &Publisher{
		agentID:     agentID,
		orderID:     orderID,
		watch:       watch,
		sinks:       sinks,
		interval:    interval,
		minMovement: minMovement,
		logger:      logger.With("component", "tracking-publisher", "agent", agentID),
	}
}

// Start launches the publishing loop. Calling Start on a running
// publisher logs a warning and does nothing else.
func (p *Publisher) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		p.logger.WarnContext(ctx, "publisher already running, ignoring Start")
		return
	}
	p.running = true
	p.stop = make(chan struct{})
	p.done = make(chan struct{})

	go p.run(ctx, p.stop, p.done)
}

// Stop halts the publishing loop and waits for it to exit. Calling Stop
// on a stopped publisher is a no-op.
func (p *Publisher) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	stop, done := p.stop, p.done
	p.mu.Unlock()

	close(stop)
	<-done
}

func (p *Publisher) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer p.markStopped()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var latest *Fix
	var lastPublished *kernel.GeoPoint

	for {
		select {
		case fix, ok := <-p.watch:
			if !ok {
				return
			}
			latest = &fix

			if lastPublished != nil {
				distance, err := fix.Position.DistanceMeters(*lastPublished)
				if err == nil && distance < p.minMovement {
					continue
				}
			}

			delivered, fatal := p.publish(ctx, fix)
			if fatal {
				return
			}
			if delivered {
				position := fix.Position
				lastPublished = &position
			}

		case <-ticker.C:
			if latest == nil {
				continue
			}
			delivered, fatal := p.publish(ctx, *latest)
			if fatal {
				return
			}
			if delivered {
				position := latest.Position
				lastPublished = &position
			}

		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// publish delivers the fix to every sink. An invalid fix is dropped
// without delivery; an authorization failure is fatal and stops the loop.
func (p *Publisher) publish(ctx context.Context, fix Fix) (delivered, fatal bool) {
	sample, err := agent.NewLocationSample(
		p.agentID, p.orderID, fix.Position, fix.Accuracy, fix.Speed, fix.Heading, fix.At,
	)
	if err != nil {
		p.logger.WarnContext(ctx, "dropping invalid fix", "error", err)
		return false, false
	}

	for _, sink := range p.sinks {
		if err := sink.Send(ctx, sample); err != nil {
			if errors.Is(err, ErrUnauthorized) {
				p.logger.WarnContext(ctx, "credential rejected, stopping publisher")
				return false, true
			}
			p.logger.WarnContext(ctx, "sink rejected sample", "error", err)
		}
	}
	return true, false
}

// markStopped flips the running flag on loop exit, so a later Start
// works and a later Stop does not block.
func (p *Publisher) markStopped() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}
