package entity

import (
	"time"

	"github.com/google/uuid"
)

type MovementType string

const (
	MovementEntry MovementType = "entry"
	MovementExit  MovementType = "exit"
)

func (m MovementType) Valid() bool {
	return m == MovementEntry || m == MovementExit
}

// VehicleMovement is an append-only gate event. Presence is derived from the
// latest row per vehicle, never stored on the vehicle itself.
type VehicleMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	VehicleID uuid.UUID `gorm:"type:uuid;not null;index"`
	Vehicle   Vehicle   `gorm:"constraint:OnDelete:CASCADE"`

	MovementType MovementType `gorm:"type:varchar(10);not null"`
	Mileage      float64      `gorm:"not null"`
	DriverName   string       `gorm:"type:varchar(100);not null"`
	Destination  *string      `gorm:"type:varchar(255)"`

	RecordedAt   time.Time  `gorm:"not null;index"`
	RecordedByID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
}
