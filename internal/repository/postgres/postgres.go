package postgres

import (
	"gym_checkin/internal/model"

	"gorm.io/gorm"
)

// Migrate создает/обновляет таблицы сервиса
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.Customer{}, &model.CheckIn{}, &model.SystemLog{})
}
