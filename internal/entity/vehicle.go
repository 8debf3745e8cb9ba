package entity

import (
	"time"

	"github.com/google/uuid"
)

type VehicleStatus string

const (
	VehicleStatusActive      VehicleStatus = "active"
	VehicleStatusInactive    VehicleStatus = "inactive"
	VehicleStatusMaintenance VehicleStatus = "maintenance"
	VehicleStatusRetired     VehicleStatus = "retired"
)

type Vehicle struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	LicensePlate string        `gorm:"type:varchar(20);uniqueIndex;not null"`
	Type         string        `gorm:"type:varchar(50)"`
	Status       VehicleStatus `gorm:"type:varchar(20);default:'active';not null"`
	IsActive     bool          `gorm:"default:true;not null"`

	// CurrentMileage is a high-water mark. Movement records only ever advance
	// it; an out-of-order lower reading leaves it untouched.
	CurrentMileage *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}
