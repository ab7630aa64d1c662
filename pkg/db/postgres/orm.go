package postgres

import (
	"database/sql"
	"fmt"

	"gym_checkin/internal/config"

	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewGormConnection создает пулинговое соединение с базой данных через GORM
func NewGormConnection(cfg config.DBConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: cfg.URL,
		// pgbouncer в режиме транзакций не держит prepared statements
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open pooled connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

// NewDirectConnection открывает прямое соединение для миграций через lib/pq.
// Закрыть его должен вызывающий.
func NewDirectConnection(cfg config.DBConfig) (*gorm.DB, *sql.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.MigrationURL())
	if err != nil {
		return nil, nil, fmt.Errorf("open direct connection: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("ping direct connection: %w", err)
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	if err != nil {
		sqlDB.Close()
		return nil, nil, fmt.Errorf("wrap direct connection: %w", err)
	}
	return db, sqlDB, nil
}
