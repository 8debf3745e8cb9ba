package dto

import (
	"time"

	"sitepass/internal/entity"
)

type CreateVisitorRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"omitempty,email"`
	Phone        string `json:"phone" validate:"omitempty"`
	HostEmployee string `json:"host_employee" validate:"required"`
	Department   string `json:"department" validate:"omitempty"`
	Purpose      string `json:"purpose" validate:"required"`
	ExpectedDate string `json:"expected_date" validate:"required,datetime=2006-01-02"`
	ExpectedTime string `json:"expected_time" validate:"omitempty"`
}

type RejectVisitorRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type CheckRequest struct {
	Location string `json:"location" validate:"omitempty"`
}

type VisitorResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	HostEmployee    string     `json:"host_employee"`
	Department      string     `json:"department,omitempty"`
	Purpose         string     `json:"purpose,omitempty"`
	ExpectedDate    string     `json:"expected_date"`
	ExpectedTime    string     `json:"expected_time,omitempty"`
	Status          string     `json:"status"`
	HasQRCode       bool       `json:"has_qr_code"`
	ApprovedByID    *string    `json:"approved_by_id,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	ActualCheckIn   *time.Time `json:"actual_check_in,omitempty"`
	ActualCheckOut  *time.Time `json:"actual_check_out,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// VisitorResponseFromEntity reports the effective status, so a stale pending
// or approved row past its expected date reads as expired.
func VisitorResponseFromEntity(visitor *entity.Visitor, now time.Time) VisitorResponse {
	response := VisitorResponse{
		ID:              visitor.ID.String(),
		Name:            visitor.Name,
		Email:           visitor.Email,
		Phone:           visitor.Phone,
		HostEmployee:    visitor.HostEmployee,
		Department:      visitor.Department,
		Purpose:         visitor.Purpose,
		ExpectedDate:    visitor.ExpectedDate.Format("2006-01-02"),
		ExpectedTime:    visitor.ExpectedTime,
		Status:          string(visitor.EffectiveStatus(now)),
		HasQRCode:       visitor.QRCode != nil,
		RejectionReason: visitor.RejectionReason,
		ActualCheckIn:   visitor.ActualCheckIn,
		ActualCheckOut:  visitor.ActualCheckOut,
		CreatedAt:       visitor.CreatedAt,
	}
	if visitor.ApprovedByID != nil {
		id := visitor.ApprovedByID.String()
		response.ApprovedByID = &id
	}
	if visitor.ActualCheckIn != nil && visitor.ActualCheckOut != nil {
		minutes := int64(visitor.VisitDuration().Minutes())
		response.DurationMinutes = &minutes
	}
	return response
}

func VisitorResponsesFromEntities(visitors []entity.Visitor, now time.Time) []VisitorResponse {
	responses := make([]VisitorResponse, 0, len(visitors))
	for i := range visitors {
		responses = append(responses, VisitorResponseFromEntity(&visitors[i], now))
	}
	return responses
}
