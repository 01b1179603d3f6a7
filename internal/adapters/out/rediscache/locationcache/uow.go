package locationcache

import (
	"context"
	"log/slog"

	"tindo/internal/core/ports"
)

// UnitOfWork decorates a database unit of work so that location writes made
// through it also refresh the cache. Transaction control passes straight
// through to the inner unit of work.
//
// The cache is refreshed at write time, not at commit. A rolled back
// transaction can therefore leave a cache entry briefly ahead of durable
// storage; the TTL bounds how long that lasts, and positions are
// self-correcting on the next report.
type UnitOfWork struct {
	inner  ports.UnitOfWork
	cache  *Cache
	logger *slog.Logger
}

// Begin starts the inner transaction.
func (uow *UnitOfWork) Begin(ctx context.Context) error {
	return uow.inner.Begin(ctx)
}

// Commit commits the inner transaction.
func (uow *UnitOfWork) Commit(ctx context.Context) error {
	return uow.inner.Commit(ctx)
}

// Rollback rolls back the inner transaction.
func (uow *UnitOfWork) Rollback(ctx context.Context) error {
	return uow.inner.Rollback(ctx)
}

// LocationRepository returns the cached repository over the inner one.
func (uow *UnitOfWork) LocationRepository() ports.LocationRepository {
	return NewCachedLocationRepository(uow.cache, uow.inner.LocationRepository(), uow.logger)
}

// UnitOfWorkFactory produces cache-decorated units of work.
type UnitOfWorkFactory struct {
	inner  ports.UnitOfWorkFactory
	cache  *Cache
	logger *slog.Logger
}

// NewUnitOfWorkFactory wraps a database unit of work factory with the cache.
func NewUnitOfWorkFactory(inner ports.UnitOfWorkFactory, cache *Cache, logger *slog.Logger) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		inner:  inner,
		cache:  cache,
		logger: logger,
	}
}

// Create returns a cache-decorated unit of work.
func (f *UnitOfWorkFactory) Create() *UnitOfWork {
	return &UnitOfWork{
		inner:  f.inner.Create(),
		cache:  f.cache,
		logger: f.logger,
	}
}
