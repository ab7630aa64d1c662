package utils

import (
	"go.uber.org/zap"
)

// HandleFatalError завершает процесс через logger.Fatal, если err не nil.
// Если логгер nil, вызывает panic.
func HandleFatalError(err error, logger *zap.Logger, msg string) {
	if logger == nil {
		panic("logger is nil")
	}
	if err != nil {
		logger.Fatal(msg, zap.Error(err))
	}
}
