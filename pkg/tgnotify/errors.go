package tgnotify

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrNoChats      = errors.New("no chats to notify")
	ErrTelegramInit = errors.New("failed to init telegram api")
)

// ValidationError ошибка конфигурации нотификатора с деталями
type ValidationError struct {
	Err    error
	Detail any
}

func NewValidationError(err error, detail any) *ValidationError {
	return &ValidationError{Err: err, Detail: detail}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %v", e.Err, e.Detail)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
