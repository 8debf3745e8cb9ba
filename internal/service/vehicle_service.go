package service

import (
	"context"
	"strings"
	"time"

	"sitepass/internal/entity"
	"sitepass/internal/repository"
	"sitepass/internal/utils"

	"github.com/google/uuid"
)

type VehicleService struct {
	vehicles  repository.VehicleRepository
	movements repository.VehicleMovementRepository
	clock     Clock
}

func NewVehicleService(
	vehicles repository.VehicleRepository,
	movements repository.VehicleMovementRepository,
	clock Clock,
) *VehicleService {
	return &VehicleService{
		vehicles:  vehicles,
		movements: movements,
		clock:     clock,
	}
}

type RegisterVehicleInput struct {
	LicensePlate string
	Type         string
}

func (s *VehicleService) Register(ctx context.Context, input RegisterVehicleInput) (*entity.Vehicle, error) {
	plate := utils.NormalizePlate(input.LicensePlate)
	if plate == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.vehicles.FindByPlate(ctx, plate)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrPlateTaken
	}

	vehicle := &entity.Vehicle{
		LicensePlate: plate,
		Type:         strings.TrimSpace(input.Type),
		Status:       entity.VehicleStatusActive,
		IsActive:     true,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, vehicleID uuid.UUID) (*entity.Vehicle, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	return vehicle, nil
}

func (s *VehicleService) List(ctx context.Context, limit, offset int) ([]entity.Vehicle, error) {
	return s.vehicles.List(ctx, limit, offset)
}

type RecordMovementInput struct {
	VehicleID    uuid.UUID
	MovementType entity.MovementType
	Mileage      float64
	DriverName   string
	Destination  string
	RecordedByID *uuid.UUID
}

// RecordMovement appends a gate event and advances the vehicle's mileage
// high-water mark. A reading below the stored mark is kept on the movement
// row but never regresses the vehicle.
func (s *VehicleService) RecordMovement(ctx context.Context, input RecordMovementInput) (*entity.VehicleMovement, error) {
	if !input.MovementType.Valid() {
		return nil, ErrInvalidInput
	}
	if input.Mileage < 0 {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(input.DriverName) == "" {
		return nil, ErrInvalidInput
	}

	vehicle, err := s.vehicles.FindByID(ctx, input.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	if !vehicle.IsActive {
		return nil, ErrVehicleInactive
	}

	movement := &entity.VehicleMovement{
		VehicleID:    vehicle.ID,
		MovementType: input.MovementType,
		Mileage:      input.Mileage,
		DriverName:   strings.TrimSpace(input.DriverName),
		Destination:  normalizeDestination(input.Destination),
		RecordedAt:   s.now(),
		RecordedByID: input.RecordedByID,
	}
	if err := s.movements.Create(ctx, movement); err != nil {
		return nil, err
	}

	if _, err := s.vehicles.AdvanceMileage(ctx, vehicle.ID, input.Mileage); err != nil {
		return nil, err
	}
	return movement, nil
}

// Presence derives on-site status from the latest movement. A vehicle with
// no movements is off-site.
func (s *VehicleService) Presence(ctx context.Context, vehicleID uuid.UUID) (bool, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	if vehicle == nil {
		return false, ErrNotFound
	}

	latest, err := s.movements.LatestByVehicle(ctx, vehicleID)
	if err != nil {
		return false, err
	}
	return latest != nil && latest.MovementType == entity.MovementEntry, nil
}

type PresenceSummary struct {
	OnSite    int
	OffSite   int
	FleetSize int
}

// Summary folds the latest event per vehicle over the active, non-retired
// fleet. OnSite and OffSite always sum to FleetSize.
func (s *VehicleService) Summary(ctx context.Context) (*PresenceSummary, error) {
	fleet, err := s.vehicles.ActiveFleet(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.movements.LatestPerVehicle(ctx)
	if err != nil {
		return nil, err
	}

	latestByVehicle := make(map[uuid.UUID]entity.MovementType, len(latest))
	for _, movement := range latest {
		latestByVehicle[movement.VehicleID] = movement.MovementType
	}

	summary := &PresenceSummary{FleetSize: len(fleet)}
	for _, vehicle := range fleet {
		if latestByVehicle[vehicle.ID] == entity.MovementEntry {
			summary.OnSite++
		} else {
			summary.OffSite++
		}
	}
	return summary, nil
}

func (s *VehicleService) Movements(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]entity.VehicleMovement, error) {
	vehicle, err := s.vehicles.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle == nil {
		return nil, ErrNotFound
	}
	return s.movements.ListByVehicle(ctx, vehicleID, limit, offset)
}

func normalizeDestination(destination string) *string {
	trimmed := strings.TrimSpace(destination)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func (s *VehicleService) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock.Now()
}
