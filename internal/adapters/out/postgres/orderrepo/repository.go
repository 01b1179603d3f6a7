package orderrepo

import (
	"context"
	"errors"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"
	"tindo/internal/core/ports"
	"tindo/internal/pkg/errs"

	"gorm.io/gorm"
)

// statusColumns is the update set for lifecycle transitions. Snapshot,
// items, and total columns are deliberately absent: they are write-once.
var statusColumns = []string{
	"status",
	"tracking_status",
	"agent_id",
	"agent_assigned_at",
	"picked_up_at",
	"delivered_at",
}

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a freshly created order. The first creation phase: base fields
// and the delivery snapshot, no order number yet.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Finalize writes the second creation phase: order number, items, total.
func (r *GormOrderRepository) Finalize(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.IsFinalized() {
		return errs.NewValueIsRequiredError("order number")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select("order_number", "items", "total").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update persists a lifecycle transition. Only status columns are written;
// the delivery snapshot can never change through this path.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", dto.ID).
		Select(statusColumns).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// AssignAgent performs the conditional assignment write. The predicate
// "agent_id IS NULL" makes the row itself the arbiter of racing accepts:
// exactly one update affects a row, every other one affects zero.
func (r *GormOrderRepository) AssignAgent(
	ctx context.Context,
	id kernel.UUID,
	agentID int64,
	at time.Time,
) (ports.AssignOutcome, error) {
	if err := id.Validate(); err != nil {
		return ports.AssignOutcomeUnknown, err
	}

	assignedAt := at.UTC()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND agent_id IS NULL AND status = ?", id.Bytes(), order.WaitingForAgent.String()).
		Updates(map[string]any{
			"agent_id":          agentID,
			"agent_assigned_at": assignedAt,
			"status":            order.AgentAssigned.String(),
			"tracking_status":   order.TrackingAccepted.String(),
		})
	if result.Error != nil {
		return ports.AssignOutcomeUnknown, result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).
			Model(&OrderDTO{}).
			Where("id = ?", id.Bytes()).
			Count(&count).Error; err != nil {
			return ports.AssignOutcomeUnknown, err
		}
		if count == 0 {
			return ports.AssignOutcomeUnknown, errs.NewObjectNotFoundError("order", id.String())
		}
		return ports.AssignOutcomeAlreadyAssigned, nil
	}

	return ports.AssignOutcomeAssigned, nil
}

// Get retrieves an order by its internal identifier.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByOrderNumber retrieves an order by its public 12-digit number.
func (r *GormOrderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	if err := order.ValidateOrderNumber(orderNumber); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_number = ?", orderNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order number", orderNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// IsOrderNumberTaken reports whether a public order number is already issued.
func (r *GormOrderRepository) IsOrderNumberTaken(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
