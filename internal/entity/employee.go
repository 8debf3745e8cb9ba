package entity

import (
	"time"

	"github.com/google/uuid"
)

// Employee is a host directory entry. Approval tokens are derived from its
// stable attributes and never stored.
type Employee struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EmployeeID string    `gorm:"type:varchar(50);uniqueIndex;not null"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Department string    `gorm:"type:varchar(100)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
