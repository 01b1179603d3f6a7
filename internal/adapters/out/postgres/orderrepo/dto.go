// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"tindo/internal/core/domain/model/kernel"
	"tindo/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Statuses are stored as their wire strings so raw reporting queries stay
// readable. The order number is nullable: it is written in the second
// creation phase, and the creating transaction guarantees no committed row
// ever has it unset.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderNumber *string   `gorm:"type:varchar(12);uniqueIndex"`

	CustomerID   int64  `gorm:"index"`
	RestaurantID int64  `gorm:"index"`
	AgentID      *int64 `gorm:"index"`

	Items ItemsJSON `gorm:"type:jsonb"`
	Total float64

	DeliveryLat     float64
	DeliveryLng     float64
	DeliveryAddress string
	CustomerPhone   string
	RestaurantPhone string

	PaymentType       string
	EstimatedDelivery string
	Notes             string

	Status         string `gorm:"type:varchar(32);index"`
	TrackingStatus string `gorm:"type:varchar(32)"`

	AgentAssignedAt *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line inside the items JSON document.
type ItemDTO struct {
	MenuItemID int64   `json:"menuItemId"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
}

// ItemsJSON stores order lines as a single jsonb document. The lines are
// immutable after finalize, so a document beats a child table here.
type ItemsJSON []ItemDTO

// Value implements driver.Valuer for jsonb storage.
func (j ItemsJSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner for jsonb retrieval.
func (j *ItemsJSON) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported items column type %T", value)
	}
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	var orderNumber *string
	if aggregate.IsFinalized() {
		number := aggregate.OrderNumber()
		orderNumber = &number
	}

	items := aggregate.Items()
	var itemsJSON ItemsJSON
	if len(items) > 0 {
		itemsJSON = make(ItemsJSON, 0, len(items))
		for _, item := range items {
			itemsJSON = append(itemsJSON, ItemDTO{
				MenuItemID: item.MenuItemID(),
				Name:       item.Name(),
				Price:      item.Price(),
				Quantity:   item.Quantity(),
			})
		}
	}

	snapshot := aggregate.Snapshot()

	return OrderDTO{
		ID:                aggregate.ID().Bytes(),
		OrderNumber:       orderNumber,
		CustomerID:        aggregate.CustomerID(),
		RestaurantID:      aggregate.RestaurantID(),
		AgentID:           aggregate.AgentID(),
		Items:             itemsJSON,
		Total:             aggregate.Total(),
		DeliveryLat:       snapshot.Location().Latitude(),
		DeliveryLng:       snapshot.Location().Longitude(),
		DeliveryAddress:   snapshot.Address(),
		CustomerPhone:     snapshot.CustomerPhone(),
		RestaurantPhone:   snapshot.RestaurantPhone(),
		PaymentType:       aggregate.PaymentType(),
		EstimatedDelivery: aggregate.EstimatedDelivery(),
		Notes:             aggregate.Notes(),
		Status:            aggregate.Status().String(),
		TrackingStatus:    aggregate.TrackingStatus().String(),
		AgentAssignedAt:   aggregate.AgentAssignedAt(),
		PickedUpAt:        aggregate.PickedUpAt(),
		DeliveredAt:       aggregate.DeliveredAt(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate using RestoreOrder, which revalidates
// every invariant on the way in.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	location, err := kernel.NewGeoPoint(dto.DeliveryLat, dto.DeliveryLng)
	if err != nil {
		return nil, err
	}

	snapshot, err := order.NewDeliverySnapshot(location, dto.DeliveryAddress, dto.CustomerPhone, dto.RestaurantPhone)
	if err != nil {
		return nil, err
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	trackingStatus, err := order.TrackingStatusFromString(dto.TrackingStatus)
	if err != nil {
		return nil, err
	}

	var orderNumber string
	if dto.OrderNumber != nil {
		orderNumber = *dto.OrderNumber
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := order.NewItem(itemDTO.MenuItemID, itemDTO.Name, itemDTO.Price, itemDTO.Quantity)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(
		id,
		orderNumber,
		dto.CustomerID,
		dto.RestaurantID,
		dto.AgentID,
		items,
		dto.Total,
		snapshot,
		dto.PaymentType,
		dto.EstimatedDelivery,
		dto.Notes,
		status,
		trackingStatus,
		dto.AgentAssignedAt,
		dto.PickedUpAt,
		dto.DeliveredAt,
	)
}
