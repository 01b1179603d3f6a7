// Package agent provides the delivery-agent side of the tracking domain:
// the LocationSample value object emitted while a delivery is active.
package agent

import (
	"errors"
	"fmt"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"
	"tindo/internal/pkg/guard"
)

// ErrSampleIsNotConstructed is returned when a LocationSample was not created
// via NewLocationSample.
var ErrSampleIsNotConstructed = errors.New(
	"LocationSample must be created via NewLocationSample constructor")

// LocationSample is one GPS reading from an agent's device during an active
// delivery. Samples are ephemeral: each new sample supersedes the previous
// one, and every sample is a full-state snapshot, never a delta, so
// out-of-order arrival at a subscriber is harmless.
//
// Accuracy, speed, and heading are rounded to two decimals at construction,
// matching what the device submission carries on the wire.
type LocationSample struct { //nolint:recvcheck //using for validation
	agentID    int64
	orderID    kernel.UUID
	position   kernel.GeoPoint
	accuracy   float64
	speed      float64
	heading    float64
	recordedAt time.Time

	guard guard.ConstructorGuard
}

// NewLocationSample creates a validated location sample.
// The agent id must be positive, the order id and position properly
// constructed, accuracy and speed non-negative, heading within [0, 360),
// and the timestamp non-zero.
func NewLocationSample(
	agentID int64,
	orderID kernel.UUID,
	position kernel.GeoPoint,
	accuracy float64,
	speed float64,
	heading float64,
	recordedAt time.Time,
) (LocationSample, error) {
	sample := LocationSample{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		sample.setAgentID(agentID),
		sample.setOrderID(orderID),
		sample.setPosition(position),
		sample.setAccuracy(accuracy),
		sample.setSpeed(speed),
		sample.setHeading(heading),
		sample.setRecordedAt(recordedAt),
	); err != nil {
		return LocationSample{}, err
	}

	return sample, nil
}

// Validate ensures the sample was created through NewLocationSample.
func (s LocationSample) Validate() error {
	return s.guard.Validate(ErrSampleIsNotConstructed)
}

// AgentID returns the reporting agent's identifier.
func (s LocationSample) AgentID() int64 {
	return s.agentID
}

// OrderID returns the order the agent is currently delivering.
func (s LocationSample) OrderID() kernel.UUID {
	return s.orderID
}

// Position returns the sampled coordinates.
func (s LocationSample) Position() kernel.GeoPoint {
	return s.position
}

// Accuracy returns the reported GPS accuracy in meters.
func (s LocationSample) Accuracy() float64 {
	return s.accuracy
}

// Speed returns the reported ground speed in meters per second.
func (s LocationSample) Speed() float64 {
	return s.speed
}

// Heading returns the reported heading in degrees from true north.
func (s LocationSample) Heading() float64 {
	return s.heading
}

// RecordedAt returns when the device captured the reading.
func (s LocationSample) RecordedAt() time.Time {
	return s.recordedAt
}

func (s *LocationSample) setAgentID(agentID int64) error {
	if agentID <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("agent id",
			fmt.Errorf("%d is not greater than 0", agentID))
	}
	s.agentID = agentID
	return nil
}

func (s *LocationSample) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	s.orderID = orderID
	return nil
}

func (s *LocationSample) setPosition(position kernel.GeoPoint) error {
	if err := position.Validate(); err != nil {
		return err
	}
	s.position = position
	return nil
}

func (s *LocationSample) setAccuracy(accuracy float64) error {
	if accuracy < 0 {
		return errs.NewValueIsInvalidErrorWithCause("accuracy",
			fmt.Errorf("%v is negative", accuracy))
	}
	s.accuracy = roundTwoDecimals(accuracy)
	return nil
}

func (s *LocationSample) setSpeed(speed float64) error {
	if speed < 0 {
		return errs.NewValueIsInvalidErrorWithCause("speed",
			fmt.Errorf("%v is negative", speed))
	}
	s.speed = roundTwoDecimals(speed)
	return nil
}

func (s *LocationSample) setHeading(heading float64) error {
	// Round before the range check so a reading like 359.999 cannot
	// round up into an out-of-range stored value.
	rounded := roundTwoDecimals(heading)
	if rounded < 0 || rounded >= 360 {
		return errs.NewValueIsOutOfRangeError("heading", heading, 0, 360)
	}
	s.heading = rounded
	return nil
}

func (s *LocationSample) setRecordedAt(recordedAt time.Time) error {
	if recordedAt.IsZero() {
		return errs.NewValueIsRequiredError("recorded at")
	}
	s.recordedAt = recordedAt.UTC()
	return nil
}

func roundTwoDecimals(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
