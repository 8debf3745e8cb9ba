package dto

import (
	"time"

	"sitepass/internal/entity"
)

type CreateVehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required"`
	Type         string `json:"type" validate:"omitempty"`
}

type RecordMovementRequest struct {
	MovementType string  `json:"movement_type" validate:"required,oneof=entry exit"`
	Mileage      float64 `json:"mileage" validate:"gte=0"`
	DriverName   string  `json:"driver_name" validate:"required"`
	Destination  string  `json:"destination" validate:"omitempty"`
}

type VehicleResponse struct {
	ID             string   `json:"id"`
	LicensePlate   string   `json:"license_plate"`
	Type           string   `json:"type,omitempty"`
	Status         string   `json:"status"`
	IsActive       bool     `json:"is_active"`
	CurrentMileage *float64 `json:"current_mileage,omitempty"`
}

func VehicleResponseFromEntity(vehicle *entity.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:             vehicle.ID.String(),
		LicensePlate:   vehicle.LicensePlate,
		Type:           vehicle.Type,
		Status:         string(vehicle.Status),
		IsActive:       vehicle.IsActive,
		CurrentMileage: vehicle.CurrentMileage,
	}
}

func VehicleResponsesFromEntities(vehicles []entity.Vehicle) []VehicleResponse {
	responses := make([]VehicleResponse, 0, len(vehicles))
	for i := range vehicles {
		responses = append(responses, VehicleResponseFromEntity(&vehicles[i]))
	}
	return responses
}

type MovementResponse struct {
	ID           string    `json:"id"`
	VehicleID    string    `json:"vehicle_id"`
	MovementType string    `json:"movement_type"`
	Mileage      float64   `json:"mileage"`
	DriverName   string    `json:"driver_name"`
	Destination  *string   `json:"destination,omitempty"`
	RecordedAt   time.Time `json:"recorded_at"`
}

func MovementResponseFromEntity(movement *entity.VehicleMovement) MovementResponse {
	return MovementResponse{
		ID:           movement.ID.String(),
		VehicleID:    movement.VehicleID.String(),
		MovementType: string(movement.MovementType),
		Mileage:      movement.Mileage,
		DriverName:   movement.DriverName,
		Destination:  movement.Destination,
		RecordedAt:   movement.RecordedAt,
	}
}

func MovementResponsesFromEntities(movements []entity.VehicleMovement) []MovementResponse {
	responses := make([]MovementResponse, 0, len(movements))
	for i := range movements {
		responses = append(responses, MovementResponseFromEntity(&movements[i]))
	}
	return responses
}

type PresenceResponse struct {
	VehicleID string `json:"vehicle_id"`
	OnSite    bool   `json:"on_site"`
}

type PresenceSummaryResponse struct {
	OnSite    int `json:"on_site"`
	OffSite   int `json:"off_site"`
	FleetSize int `json:"fleet_size"`
}
