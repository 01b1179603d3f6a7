package locationrepo

import (
	"context"
	"errors"
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultRetention is how long a stale position row survives after its
// agent stops reporting.
const DefaultRetention = 24 * time.Hour

// GormLocationRepository implements LocationRepository using GORM.
type GormLocationRepository struct {
	db        *gorm.DB
	retention time.Duration
}

// NewGormLocationRepository creates a new GORM location repository with the
// default retention window.
func NewGormLocationRepository(db *gorm.DB) *GormLocationRepository {
	return &GormLocationRepository{
		db:        db,
		retention: DefaultRetention,
	}
}

// SaveLatest upserts the agent's most recent position. The agent id is the
// primary key, so each report replaces the previous one.
func (r *GormLocationRepository) SaveLatest(ctx context.Context, sample agent.LocationSample) error {
	if err := sample.Validate(); err != nil {
		return err
	}

	dto := fromDomain(sample)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agent_id"}},
			UpdateAll: true,
		}).
		Create(&dto).Error
}

// GetLatestForOrder returns the freshest position reported for an order.
func (r *GormLocationRepository) GetLatestForOrder(
	ctx context.Context,
	orderID kernel.UUID,
) (agent.LocationSample, error) {
	if err := orderID.Validate(); err != nil {
		return agent.LocationSample{}, err
	}

	var dto AgentLocationDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("recorded_at DESC").
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return agent.LocationSample{}, errs.NewObjectNotFoundError("agent location", orderID.String())
		}
		return agent.LocationSample{}, err
	}

	return toDomain(dto)
}

// DeleteSuperseded removes rows whose agents have not reported within the
// retention window. Returns the number of rows deleted.
func (r *GormLocationRepository) DeleteSuperseded(ctx context.Context) (int64, error) {
	cutoff := time.Now().UTC().Add(-r.retention)
	result := r.db.WithContext(ctx).
		Where("recorded_at < ?", cutoff).
		Delete(&AgentLocationDTO{})
	return result.RowsAffected, result.Error
}
