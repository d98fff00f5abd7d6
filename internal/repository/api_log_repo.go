package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"payflow/internal/models"
)

// APILogRepository handles request log database operations.
type APILogRepository struct {
	db *gorm.DB
}

func NewAPILogRepository(db *gorm.DB) *APILogRepository {
	return &APILogRepository{db: db}
}

// Create stores a request log.
func (r *APILogRepository) Create(ctx context.Context, entry *models.APILog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// CountSince counts request logs created after since.
func (r *APILogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.APILog{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// DeleteOlderThan removes request logs created before cutoff.
func (r *APILogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.APILog{})
	return res.RowsAffected, res.Error
}
