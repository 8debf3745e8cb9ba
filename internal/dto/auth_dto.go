package dto

import (
	"time"

	"sitepass/internal/entity"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginMFARequest struct {
	MFAToken string `json:"mfa_token" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken           string `json:"access_token,omitempty"`
	ExpiresIn             int64  `json:"expires_in,omitempty"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	RefreshExpiresIn      int64  `json:"refresh_expires_in,omitempty"`
	RequirePasswordChange bool   `json:"require_password_change,omitempty"`
	MFARequired           bool   `json:"mfa_required,omitempty"`
	MFAToken              string `json:"mfa_token,omitempty"`
	MFATokenExpiresIn     int64  `json:"mfa_token_expires_in,omitempty"`
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty"`
	Role     string `json:"role" validate:"required,oneof=admin security_guard receptionist visitor"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

type MFAEnableResponse struct {
	QRCode string `json:"qr_code"`
}

type MFAVerifyRequest struct {
	Code string `json:"code" validate:"required"`
}

type UserResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	Phone                 string     `json:"phone,omitempty"`
	Role                  string     `json:"role"`
	Status                string     `json:"status"`
	LastLogin             *time.Time `json:"last_login,omitempty"`
	RequirePasswordChange bool       `json:"require_password_change"`
	CreatedAt             time.Time  `json:"created_at"`
}

func UserResponseFromEntity(user *entity.User) UserResponse {
	return UserResponse{
		ID:                    user.ID.String(),
		Name:                  user.Name,
		Email:                 user.Email,
		Phone:                 user.Phone,
		Role:                  string(user.Role),
		Status:                string(user.Status),
		LastLogin:             user.LastLogin,
		RequirePasswordChange: user.RequirePasswordChange,
		CreatedAt:             user.CreatedAt,
	}
}

func UserResponsesFromEntities(users []entity.User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, UserResponseFromEntity(&users[i]))
	}
	return responses
}

type AccessLogResponse struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	GuardID   *string   `json:"guard_id,omitempty"`
	VisitorID *string   `json:"visitor_id,omitempty"`
	Location  string    `json:"location,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func AccessLogResponsesFromEntities(logs []entity.AccessLog) []AccessLogResponse {
	responses := make([]AccessLogResponse, 0, len(logs))
	for _, log := range logs {
		response := AccessLogResponse{
			ID:        log.ID.String(),
			Action:    string(log.Action),
			Location:  log.Location,
			Note:      log.Note,
			CreatedAt: log.CreatedAt,
		}
		if log.GuardID != nil {
			id := log.GuardID.String()
			response.GuardID = &id
		}
		if log.VisitorID != nil {
			id := log.VisitorID.String()
			response.VisitorID = &id
		}
		responses = append(responses, response)
	}
	return responses
}
