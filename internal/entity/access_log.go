package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AccessAction string

const (
	AccessCheckIn     AccessAction = "check_in"
	AccessCheckOut    AccessAction = "check_out"
	AccessLogin       AccessAction = "login"
	AccessLoginFailed AccessAction = "login_failed"
	AccessDenied      AccessAction = "access_denied"
)

// AccessLog is an append-only event row. Rows are only ever inserted by
// operations that change physical presence or an authentication outcome.
type AccessLog struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`

	Action AccessAction `gorm:"type:varchar(20);not null;index"`

	GuardID    *uuid.UUID `gorm:"type:uuid;index"`
	VisitorID  *uuid.UUID `gorm:"type:uuid;index"`
	EmployeeID *uuid.UUID `gorm:"type:uuid"`

	Location string `gorm:"type:varchar(100)"`
	Note     string `gorm:"type:text"`

	Metadata datatypes.JSON

	CreatedAt time.Time
}
