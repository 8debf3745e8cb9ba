package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin         UserRole = "admin"
	UserRoleSecurityGuard UserRole = "security_guard"
	UserRoleReceptionist  UserRole = "receptionist"
	UserRoleVisitor       UserRole = "visitor"
)

func (r UserRole) Valid() bool {
	switch r {
	case UserRoleAdmin, UserRoleSecurityGuard, UserRoleReceptionist, UserRoleVisitor:
		return true
	}
	return false
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Phone        string     `gorm:"type:varchar(30)"`
	PasswordHash string     `gorm:"type:text;not null"`
	Role         UserRole   `gorm:"type:varchar(20);default:'receptionist';not null"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active';not null"`

	LoginAttempts         int `gorm:"default:0;not null"`
	LockUntil             *time.Time
	LastLogin             *time.Time
	RequirePasswordChange bool `gorm:"default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time

	MFASecret *MFASecret
}

// Locked reports whether the lockout window is still open at the given instant.
func (u *User) Locked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}
