package system_log

import (
	"context"
	"fmt"

	"gym_checkin/internal/domain"
	"gym_checkin/internal/model"

	"go.uber.org/zap"
)

const defaultPollLimit = 100

var severityRank = map[string]int{
	model.SeverityInfo:    0,
	model.SeverityWarning: 1,
	model.SeverityError:   2,
}

// Service пишет журнал событий, который опрашивает админка.
// Запись синхронная: Append возвращается только после вставки в базу.
type Service struct {
	repo     domain.SystemLogRepo
	notifier domain.Notifier
	minAlert string
	logger   *zap.Logger
}

// NewService: notifier может быть nil, тогда оповещений нет
func NewService(repo domain.SystemLogRepo, notifier domain.Notifier, minAlert string, logger *zap.Logger) *Service {
	if _, ok := severityRank[minAlert]; !ok {
		minAlert = model.SeverityError
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		minAlert: minAlert,
		logger:   logger,
	}
}

func (s *Service) Append(ctx context.Context, message, eventType, severity string, details map[string]any) error {
	entry := &model.SystemLog{
		Message:   message,
		EventType: eventType,
		Severity:  severity,
		Details:   details,
	}
	if err := s.repo.InsertSystemLog(ctx, entry); err != nil {
		return fmt.Errorf("insert system log %q: %w", eventType, err)
	}

	if s.notifier != nil && severityRank[severity] >= severityRank[s.minAlert] {
		if err := s.notifier.Notify(ctx, severity, message); err != nil {
			s.logger.Error("error sending system log alert",
				zap.Error(err),
				zap.Uint("log_id", entry.ID),
				zap.String("severity", severity),
			)
		}
	}
	return nil
}

// Poll возвращает записи после afterID, старые первыми
func (s *Service) Poll(ctx context.Context, afterID uint, limit int) ([]model.SystemLog, error) {
	if limit <= 0 || limit > defaultPollLimit {
		limit = defaultPollLimit
	}
	return s.repo.ListSystemLogsAfter(ctx, afterID, limit)
}
