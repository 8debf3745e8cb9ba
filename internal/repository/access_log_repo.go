package repository

import (
	"context"

	"sitepass/internal/entity"

	"gorm.io/gorm"
)

// AccessLogRepository is insert-only; rows are never updated or deleted.
type AccessLogRepository interface {
	Append(ctx context.Context, log *entity.AccessLog) error
	List(ctx context.Context, limit, offset int) ([]entity.AccessLog, error)
}

type accessLogRepository struct {
	db *gorm.DB
}

func NewAccessLogRepository(db *gorm.DB) AccessLogRepository {
	return &accessLogRepository{db: db}
}

func (r *accessLogRepository) Append(ctx context.Context, log *entity.AccessLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *accessLogRepository) List(ctx context.Context, limit, offset int) ([]entity.AccessLog, error) {
	var logs []entity.AccessLog
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
