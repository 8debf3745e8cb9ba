package repository

import (
	"context"
	"errors"

	"sitepass/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error)
	FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error)
	List(ctx context.Context, limit, offset int) ([]entity.Vehicle, error)

	// ActiveFleet is the population presence summaries are computed over.
	ActiveFleet(ctx context.Context) ([]entity.Vehicle, error)

	// AdvanceMileage moves the high-water mark only when the reading is
	// larger than the stored value; a stale reading is a no-op.
	AdvanceMileage(ctx context.Context, id uuid.UUID, mileage float64) (bool, error)
}

type vehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *entity.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *vehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Vehicle, error) {
	var vehicle entity.Vehicle
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&vehicle).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) FindByPlate(ctx context.Context, plate string) (*entity.Vehicle, error) {
	var vehicle entity.Vehicle
	err := r.db.WithContext(ctx).
		Where("license_plate = ?", plate).
		First(&vehicle).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vehicle, nil
}

func (r *vehicleRepository) List(ctx context.Context, limit, offset int) ([]entity.Vehicle, error) {
	var vehicles []entity.Vehicle
	query := r.db.WithContext(ctx).Order("license_plate ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) ActiveFleet(ctx context.Context) ([]entity.Vehicle, error) {
	var vehicles []entity.Vehicle
	err := r.db.WithContext(ctx).
		Where("is_active = true AND status <> ?", entity.VehicleStatusRetired).
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *vehicleRepository) AdvanceMileage(ctx context.Context, id uuid.UUID, mileage float64) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Vehicle{}).
		Where("id = ? AND (current_mileage IS NULL OR current_mileage < ?)", id, mileage).
		Update("current_mileage", mileage)
	return result.RowsAffected > 0, result.Error
}
