// Package locationcache keeps the latest agent position per order in Redis.
// Live tracking reads hit this cache first; durable storage is only
// consulted on a miss. Entries expire on their own, a stale position is
// worse than none.
package locationcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"

	"github.com/go-redis/redis/v8"
)

// DefaultTTL is how long a cached position stays valid without a refresh.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "loc:order:"

// entry is the cached JSON document for one position.
type entry struct {
	AgentID    int64   `json:"agentId"`
	OrderID    string  `json:"orderId"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Accuracy   float64 `json:"accuracy"`
	Speed      float64 `json:"speed"`
	Heading    float64 `json:"heading"`
	RecordedAt int64   `json:"recordedAt"`
}

// Cache stores the latest position per order in Redis with a TTL.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache creates a position cache over an existing Redis client.
// A non-positive ttl falls back to DefaultTTL.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

// Put stores the sample as the latest position for its order.
func (c *Cache) Put(ctx context.Context, sample agent.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	doc, err := json.Marshal(entry{
		AgentID:    sample.AgentID(),
		OrderID:    sample.OrderID().String(),
		Lat:        sample.Position().Latitude(),
		Lng:        sample.Position().Longitude(),
		Accuracy:   sample.Accuracy(),
		Speed:      sample.Speed(),
		Heading:    sample.Heading(),
		RecordedAt: sample.RecordedAt().UnixMilli(),
	})
	if err != nil {
		return err
	}

	return c.client.Set(ctx, keyFor(sample.OrderID()), doc, c.ttl).Err()
}

// Get returns the cached latest position for an order.
// A missing or expired entry fails with an ObjectNotFoundError.
func (c *Cache) Get(ctx context.Context, orderID kernel.UUID) (agent.LocationSample, error) {
	if err := orderID.Validate(); err != nil {
		return agent.LocationSample{}, err
	}

	raw, err := c.client.Get(ctx, keyFor(orderID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return agent.LocationSample{}, errs.NewObjectNotFoundError("agent location", orderID.String())
		}
		return agent.LocationSample{}, err
	}

	var doc entry
	if err = json.Unmarshal(raw, &doc); err != nil {
		return agent.LocationSample{}, err
	}

	position, err := kernel.NewGeoPoint(doc.Lat, doc.Lng)
	if err != nil {
		return agent.LocationSample{}, err
	}

	return agent.NewLocationSample(
		doc.AgentID,
		orderID,
		position,
		doc.Accuracy,
		doc.Speed,
		doc.Heading,
		time.UnixMilli(doc.RecordedAt).UTC(),
	)
}

func keyFor(orderID kernel.UUID) string {
	return fmt.Sprintf("%s%s", keyPrefix, orderID.String())
}
