package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/ports"
)

// BroadcastSink pushes samples straight onto the live event channel so
// watchers see movement even when the durable write lags or fails.
type BroadcastSink struct {
	publisher ports.EventPublisher
}

// NewBroadcastSink creates a sink over the event publisher.
func NewBroadcastSink(publisher ports.EventPublisher) BroadcastSink {
	return BroadcastSink{publisher: publisher}
}

// Send broadcasts the sample to the location topics. Broadcast is
// fire-and-forget, so Send never fails.
func (s BroadcastSink) Send(ctx context.Context, sample agent.LocationSample) error {
	event := ports.NewLocationEvent(sample)
	s.publisher.Publish(ctx, ports.TopicLocationUpdate(), event)
	s.publisher.Publish(ctx, ports.TopicTrackOrder(sample.OrderID().String()), event)
	return nil
}

// RestSink posts samples to the location-submission endpoint with a
// bounded timeout, so a slow backend cannot stall the publishing loop.
type RestSink struct {
	client  *http.Client
	url     string
	token   string
	timeout time.Duration
}

// NewRestSink creates a sink posting to the given endpoint URL with the
// agent's bearer token.
func NewRestSink(client *http.Client, url, token string, timeout time.Duration) RestSink {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return RestSink{client: client, url: url, token: token, timeout: timeout}
}

type locationSubmission struct {
	OrderID   string  `json:"orderId"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Accuracy  float64 `json:"accuracy,omitempty"`
	Speed     float64 `json:"speed,omitempty"`
	Heading   float64 `json:"heading,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// Send posts the sample. A 401 response means the credential expired and
// maps to ErrUnauthorized; other non-2xx responses are plain errors the
// caller may log and outlive.
func (s RestSink) Send(ctx context.Context, sample agent.LocationSample) error {
	body, err := json.Marshal(locationSubmission{
		OrderID:   sample.OrderID().String(),
		Lat:       sample.Position().Latitude(),
		Lng:       sample.Position().Longitude(),
		Accuracy:  sample.Accuracy(),
		Speed:     sample.Speed(),
		Heading:   sample.Heading(),
		Timestamp: sample.RecordedAt().UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("marshal location submission: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build location request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("post location: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode >= 300:
		return fmt.Errorf("post location: unexpected status %d", resp.StatusCode)
	}

	return nil
}
