package repository

import (
	"context"
	"errors"
	"time"

	"sitepass/internal/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VisitorRepository expresses every state transition as a conditional update
// guarded on the current status. The affected-row count is the concurrency
// contract: when two callers race, exactly one sees true.
type VisitorRepository interface {
	Create(ctx context.Context, visitor *entity.Visitor) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Visitor, error)
	List(ctx context.Context, status entity.VisitorStatus, limit, offset int) ([]entity.Visitor, error)

	// LatestPendingByHost finds the most recently created pending visitor
	// whose host field matches the employee's email or display name.
	// Rows expected before onOrAfter are lapsed and never candidates, so a
	// stale pending visit cannot shadow a still-valid one.
	LatestPendingByHost(ctx context.Context, email, name string, onOrAfter time.Time) (*entity.Visitor, error)

	MarkApproved(ctx context.Context, id, approverID uuid.UUID) (bool, error)
	MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error)
	MarkCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// SetQRCodeIfAbsent writes the code only when none exists, so repeated
	// approvals never rotate an issued pass.
	SetQRCodeIfAbsent(ctx context.Context, id uuid.UUID, code string) error

	DeleteIfNotCheckedIn(ctx context.Context, id uuid.UUID) (bool, error)
}

type visitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) VisitorRepository {
	return &visitorRepository{db: db}
}

func (r *visitorRepository) Create(ctx context.Context, visitor *entity.Visitor) error {
	return r.db.WithContext(ctx).Create(visitor).Error
}

func (r *visitorRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Visitor, error) {
	var visitor entity.Visitor
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&visitor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *visitorRepository) List(ctx context.Context, status entity.VisitorStatus, limit, offset int) ([]entity.Visitor, error) {
	var visitors []entity.Visitor
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&visitors).Error; err != nil {
		return nil, err
	}
	return visitors, nil
}

func (r *visitorRepository) LatestPendingByHost(ctx context.Context, email, name string, onOrAfter time.Time) (*entity.Visitor, error) {
	var visitor entity.Visitor
	err := r.db.WithContext(ctx).
		Where("status = ?", entity.VisitorStatusPending).
		Where("expected_date >= ?", onOrAfter).
		Where("LOWER(host_employee) = LOWER(?) OR host_employee = ?", email, name).
		Order("created_at DESC").
		First(&visitor).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &visitor, nil
}

func (r *visitorRepository) MarkApproved(ctx context.Context, id, approverID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Visitor{}).
		Where("id = ? AND status = ?", id, entity.VisitorStatusPending).
		Updates(map[string]any{
			"status":           entity.VisitorStatusApproved,
			"approved_by_id":   approverID,
			"rejection_reason": nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *visitorRepository) MarkRejected(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Visitor{}).
		Where("id = ? AND status = ?", id, entity.VisitorStatusPending).
		Updates(map[string]any{
			"status":           entity.VisitorStatusRejected,
			"rejection_reason": reason,
			"approved_by_id":   nil,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *visitorRepository) MarkCheckedIn(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Visitor{}).
		Where("id = ? AND status = ?", id, entity.VisitorStatusApproved).
		Updates(map[string]any{
			"status":          entity.VisitorStatusCheckedIn,
			"actual_check_in": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *visitorRepository) MarkCheckedOut(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.Visitor{}).
		Where("id = ? AND status = ?", id, entity.VisitorStatusCheckedIn).
		Updates(map[string]any{
			"status":           entity.VisitorStatusCheckedOut,
			"actual_check_out": at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *visitorRepository) SetQRCodeIfAbsent(ctx context.Context, id uuid.UUID, code string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Visitor{}).
		Where("id = ? AND qr_code IS NULL", id).
		Update("qr_code", code).
		Error
}

func (r *visitorRepository) DeleteIfNotCheckedIn(ctx context.Context, id uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND status <> ?", id, entity.VisitorStatusCheckedIn).
		Delete(&entity.Visitor{})
	return result.RowsAffected > 0, result.Error
}
