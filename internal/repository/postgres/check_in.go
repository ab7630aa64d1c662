package postgres

import (
	"context"
	"fmt"
	"time"

	"gym_checkin/internal/model"

	"gorm.io/gorm"
)

type CheckInRepository struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{DB: db, now: time.Now}
}

// RecordCheckIn сохраняет проход и возвращает запись с id и временем
func (r *CheckInRepository) RecordCheckIn(ctx context.Context, customerID, name, phone, membershipType, locationID string) (*model.CheckIn, error) {
	checkIn := &model.CheckIn{
		CustomerID:     customerID,
		CustomerName:   name,
		PhoneNumber:    phone,
		MembershipType: membershipType,
		LocationID:     locationID,
		CheckInTime:    r.now().UTC(),
	}
	if err := r.DB.WithContext(ctx).Create(checkIn).Error; err != nil {
		return nil, fmt.Errorf("record check-in for %s: %w", customerID, err)
	}
	return checkIn, nil
}

func (r *CheckInRepository) ListRecentCheckIns(ctx context.Context, limit int) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.DB.WithContext(ctx).Order("check_in_time DESC, id DESC").Limit(limit).Find(&checkIns).Error
	return checkIns, err
}

// Получение проходов с SheetIsSynced=false, старые первыми
func (r *CheckInRepository) GetUnsyncedCheckIns(ctx context.Context, limit int) ([]model.CheckIn, error) {
	var checkIns []model.CheckIn
	err := r.DB.WithContext(ctx).Where("sheet_is_synced = ?", false).Order("id ASC").Limit(limit).Find(&checkIns).Error
	return checkIns, err
}

// Обновление поля SheetIsSynced по id
func (r *CheckInRepository) UpdateSheetIsSynced(ctx context.Context, id uint, synced bool) error {
	return r.DB.WithContext(ctx).Model(&model.CheckIn{}).Where("id = ?", id).Update("sheet_is_synced", synced).Error
}
