package domain

import (
	"context"

	"gym_checkin/internal/model"
)

// MembershipVerifier проверяет абонемент по нормализованному номеру телефона.
// Ошибка означает сбой транспорта или API, а не отсутствие абонемента.
type MembershipVerifier interface {
	Verify(ctx context.Context, phone string) (*model.Verdict, error)
}

type SystemLogger interface {
	Append(ctx context.Context, message, eventType, severity string, details map[string]any) error
}

// Notifier: внешний канал оповещений (Telegram и т.п.)
type Notifier interface {
	Notify(ctx context.Context, severity, message string) error
}
