package ports

import (
	"context"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
)

// LocationRepository is the durable side of location submission: it keeps
// the latest sample per agent for last-known-location reads. Each write
// supersedes the previous one; there is no retention requirement beyond
// the most recent sample.
type LocationRepository interface {
	// SaveLatest upserts the agent's most recent sample.
	SaveLatest(ctx context.Context, sample agent.LocationSample) error

	// GetLatestForOrder returns the most recent sample reported for an
	// order, or an ObjectNotFoundError when none was ever reported.
	GetLatestForOrder(ctx context.Context, orderID kernel.UUID) (agent.LocationSample, error)

	// DeleteSuperseded removes samples older than the retention window,
	// keeping at least the latest per agent.
	DeleteSuperseded(ctx context.Context) (int64, error)
}
