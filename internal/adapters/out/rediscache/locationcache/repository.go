package locationcache

import (
	"context"
	"errors"
	"log/slog"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/ports"
	"tindo/internal/pkg/errs"
)

// CachedLocationRepository layers the Redis cache over a durable
// LocationRepository. Writes go to both; reads prefer the cache and fall
// back to durable storage on a miss. Cache failures are logged and
// swallowed, the cache must never take the durable path down with it.
type CachedLocationRepository struct {
	cache  *Cache
	inner  ports.LocationRepository
	logger *slog.Logger
}

// NewCachedLocationRepository wraps a durable repository with the cache.
func NewCachedLocationRepository(cache *Cache, inner ports.LocationRepository, logger *slog.Logger) *CachedLocationRepository {
	return &CachedLocationRepository{
		cache:  cache,
		inner:  inner,
		logger: logger.With("component", "locationcache"),
	}
}

// SaveLatest refreshes the cache and writes through to durable storage.
// Only the durable write can fail the call.
func (r *CachedLocationRepository) SaveLatest(ctx context.Context, sample agent.LocationSample) error {
	if err := r.cache.Put(ctx, sample); err != nil {
		r.logger.WarnContext(ctx, "cache put failed", "order_id", sample.OrderID().String(), "error", err)
	}

	return r.inner.SaveLatest(ctx, sample)
}

// GetLatestForOrder reads the cache first and falls back to durable
// storage, repopulating the cache on a fallback hit.
func (r *CachedLocationRepository) GetLatestForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (agent.LocationSample, error) {
	sample, err := r.cache.Get(ctx, orderID)
	if err == nil {
		return sample, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		r.logger.WarnContext(ctx, "cache get failed", "order_id", orderID.String(), "error", err)
	}

	sample, err = r.inner.GetLatestForOrder(ctx, orderID)
	if err != nil {
		return agent.LocationSample{}, err
	}

	if putErr := r.cache.Put(ctx, sample); putErr != nil {
		r.logger.WarnContext(ctx, "cache repopulate failed", "order_id", orderID.String(), "error", putErr)
	}

	return sample, nil
}

// DeleteSuperseded delegates to durable storage; cache entries expire on
// their own TTL.
func (r *CachedLocationRepository) DeleteSuperseded(ctx context.Context) (int64, error) {
	return r.inner.DeleteSuperseded(ctx)
}
