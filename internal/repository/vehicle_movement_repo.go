package repository

import (
	"context"
	"errors"

	"sitepass/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleMovementRepository is append-only. Presence is always derived from
// the latest row per vehicle; there is no stored status to drift from the log.
type VehicleMovementRepository interface {
	Create(ctx context.Context, movement *entity.VehicleMovement) error

	// LatestByVehicle returns the newest movement by recorded_at, insertion
	// order breaking ties, or nil for a vehicle with no movements.
	LatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entity.VehicleMovement, error)

	// LatestPerVehicle is the windowed form of LatestByVehicle across the
	// whole log, one row per vehicle.
	LatestPerVehicle(ctx context.Context) ([]entity.VehicleMovement, error)

	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]entity.VehicleMovement, error)
}

type vehicleMovementRepository struct {
	db *gorm.DB
}

func NewVehicleMovementRepository(db *gorm.DB) VehicleMovementRepository {
	return &vehicleMovementRepository{db: db}
}

func (r *vehicleMovementRepository) Create(ctx context.Context, movement *entity.VehicleMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *vehicleMovementRepository) LatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (*entity.VehicleMovement, error) {
	var movement entity.VehicleMovement
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("recorded_at DESC, created_at DESC").
		First(&movement).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &movement, nil
}

func (r *vehicleMovementRepository) LatestPerVehicle(ctx context.Context) ([]entity.VehicleMovement, error) {
	var movements []entity.VehicleMovement
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (vehicle_id) *
		     FROM vehicle_movements
		     ORDER BY vehicle_id, recorded_at DESC, created_at DESC`).
		Scan(&movements).Error
	if err != nil {
		return nil, err
	}
	return movements, nil
}

func (r *vehicleMovementRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, limit, offset int) ([]entity.VehicleMovement, error) {
	var movements []entity.VehicleMovement
	query := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Order("recorded_at DESC, created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}
