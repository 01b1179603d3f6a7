package tracking

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePublisher struct {
	mu     sync.Mutex
	topics []ports.Topic
	events []any
}

func (p *fakePublisher) Publish(_ context.Context, topic ports.Topic, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, payload)
}

func newTestSample(t *testing.T) agent.LocationSample {
	t.Helper()

	orderID := kernel.NewUUID()
	sample, err := agent.NewLocationSample(
		7, orderID, mustGeoPoint(t, 12.9716, 77.5946), 8, 4.2, 90, time.Now(),
	)
	require.NoError(t, err)
	return sample
}

func TestBroadcastSink_PublishesBothLocationTopics(t *testing.T) {
	publisher := &fakePublisher{}
	sink := NewBroadcastSink(publisher)
	sample := newTestSample(t)

	require.NoError(t, sink.Send(t.Context(), sample))

	require.Len(t, publisher.topics, 2)
	assert.Equal(t, ports.TopicLocationUpdate(), publisher.topics[0])
	assert.Equal(t, ports.TopicTrackOrder(sample.OrderID().String()), publisher.topics[1])
}

func TestRestSink_PostsSample(t *testing.T) {
	var got locationSubmission
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	sink := NewRestSink(server.Client(), server.URL, "agent-token", time.Second)
	sample := newTestSample(t)

	require.NoError(t, sink.Send(t.Context(), sample))

	assert.Equal(t, "Bearer agent-token", authHeader)
	assert.Equal(t, sample.OrderID().String(), got.OrderID)
	assert.InDelta(t, 12.9716, got.Lat, 1e-9)
	assert.InDelta(t, 77.5946, got.Lng, 1e-9)
}

func TestRestSink_UnauthorizedIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	sink := NewRestSink(server.Client(), server.URL, "expired", time.Second)

	err := sink.Send(t.Context(), newTestSample(t))
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRestSink_ServerErrorIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	sink := NewRestSink(server.Client(), server.URL, "agent-token", time.Second)

	err := sink.Send(t.Context(), newTestSample(t))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}
