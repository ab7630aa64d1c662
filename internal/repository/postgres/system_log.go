package postgres

import (
	"context"

	"gym_checkin/internal/model"

	"gorm.io/gorm"
)

type SystemLogRepository struct {
	DB *gorm.DB
}

func NewSystemLogRepository(db *gorm.DB) *SystemLogRepository {
	return &SystemLogRepository{DB: db}
}

func (r *SystemLogRepository) InsertSystemLog(ctx context.Context, entry *model.SystemLog) error {
	return r.DB.WithContext(ctx).Create(entry).Error
}

func (r *SystemLogRepository) ListSystemLogsAfter(ctx context.Context, afterID uint, limit int) ([]model.SystemLog, error) {
	var entries []model.SystemLog
	err := r.DB.WithContext(ctx).Where("id > ?", afterID).Order("id ASC").Limit(limit).Find(&entries).Error
	return entries, err
}
