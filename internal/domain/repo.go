package domain

import (
	"context"

	"gym_checkin/internal/model"
)

type CustomerRepo interface {
	// Создание или перезапись клиента по идентификатору (last-write-wins)
	UpsertCustomer(ctx context.Context, id, name, phone, membershipType string) (*model.Customer, error)

	GetCustomer(ctx context.Context, id string) (*model.Customer, error)
}

type CheckInRepo interface {
	// Запись прохода. Вызывается только после успешной проверки абонемента.
	RecordCheckIn(ctx context.Context, customerID, name, phone, membershipType, locationID string) (*model.CheckIn, error)

	// Последние проходы для админки
	ListRecentCheckIns(ctx context.Context, limit int) ([]model.CheckIn, error)

	// Получение проходов с SheetIsSynced=false
	GetUnsyncedCheckIns(ctx context.Context, limit int) ([]model.CheckIn, error)

	// Обновление поля SheetIsSynced по id
	UpdateSheetIsSynced(ctx context.Context, id uint, synced bool) error
}

type SystemLogRepo interface {
	InsertSystemLog(ctx context.Context, entry *model.SystemLog) error

	// Записи с id > afterID в порядке вставки
	ListSystemLogsAfter(ctx context.Context, afterID uint, limit int) ([]model.SystemLog, error)
}
