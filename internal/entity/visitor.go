package entity

import (
	"time"

	"github.com/google/uuid"
)

type VisitorStatus string

const (
	VisitorStatusPending    VisitorStatus = "pending"
	VisitorStatusApproved   VisitorStatus = "approved"
	VisitorStatusRejected   VisitorStatus = "rejected"
	VisitorStatusCheckedIn  VisitorStatus = "checked_in"
	VisitorStatusCheckedOut VisitorStatus = "checked_out"
	VisitorStatusExpired    VisitorStatus = "expired"
)

type Visitor struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name  string    `gorm:"type:varchar(100);not null"`
	Email string    `gorm:"type:varchar(255);index;not null"`
	Phone string    `gorm:"type:varchar(30)"`

	// HostEmployee holds whatever the visitor gave at creation, either the
	// host's email or their display name.
	HostEmployee string `gorm:"type:varchar(255);index;not null"`
	Department   string `gorm:"type:varchar(100)"`
	Purpose      string `gorm:"type:varchar(255)"`

	ExpectedDate time.Time `gorm:"type:date;not null"`
	ExpectedTime string    `gorm:"type:varchar(10)"`

	Status          VisitorStatus `gorm:"type:varchar(20);default:'pending';not null;index"`
	QRCode          *string       `gorm:"type:text"`
	ApprovedByID    *uuid.UUID    `gorm:"type:uuid"`
	RejectionReason *string       `gorm:"type:text"`

	ActualCheckIn  *time.Time
	ActualCheckOut *time.Time

	CreatedByID *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus applies lazy expiry: a visitor still waiting or approved
// past end-of-day on the expected date reads as expired. Nothing is swept
// eagerly; the stored row keeps its last transition.
func (v *Visitor) EffectiveStatus(now time.Time) VisitorStatus {
	if v.Status != VisitorStatusPending && v.Status != VisitorStatusApproved {
		return v.Status
	}
	endOfDay := time.Date(
		v.ExpectedDate.Year(), v.ExpectedDate.Month(), v.ExpectedDate.Day(),
		23, 59, 59, 0, now.Location(),
	)
	if now.After(endOfDay) {
		return VisitorStatusExpired
	}
	return v.Status
}

// VisitDuration returns the completed visit length rounded down to whole
// minutes, or zero when the visit is not complete.
func (v *Visitor) VisitDuration() time.Duration {
	if v.ActualCheckIn == nil || v.ActualCheckOut == nil {
		return 0
	}
	return v.ActualCheckOut.Sub(*v.ActualCheckIn).Truncate(time.Minute)
}
