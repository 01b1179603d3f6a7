// Package locationrepo persists the latest reported position per delivery
// agent. One row per agent, upserted on every report.
package locationrepo

import (
	"time"

	"tindo/internal/core/domain/model/agent"
	"tindo/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// AgentLocationDTO is the latest position row for one agent.
type AgentLocationDTO struct {
	AgentID    int64     `gorm:"primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index"`
	Lat        float64
	Lng        float64
	Accuracy   float64
	Speed      float64
	Heading    float64
	RecordedAt time.Time `gorm:"index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName overrides GORM's default naming to use "agent_locations".
func (AgentLocationDTO) TableName() string {
	return "agent_locations"
}

func fromDomain(sample agent.LocationSample) AgentLocationDTO {
	return AgentLocationDTO{
		AgentID:    sample.AgentID(),
		OrderID:    sample.OrderID().Bytes(),
		Lat:        sample.Position().Latitude(),
		Lng:        sample.Position().Longitude(),
		Accuracy:   sample.Accuracy(),
		Speed:      sample.Speed(),
		Heading:    sample.Heading(),
		RecordedAt: sample.RecordedAt(),
	}
}

func toDomain(dto AgentLocationDTO) (agent.LocationSample, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return agent.LocationSample{}, err
	}

	position, err := kernel.NewGeoPoint(dto.Lat, dto.Lng)
	if err != nil {
		return agent.LocationSample{}, err
	}

	return agent.NewLocationSample(
		dto.AgentID,
		orderID,
		position,
		dto.Accuracy,
		dto.Speed,
		dto.Heading,
		dto.RecordedAt,
	)
}
