package tgnotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Config структура для конфигурации нотификатора
type Config struct {
	Token    string        // Токен бота
	Chats    []int64       // Чаты, куда уходят оповещения
	Endpoint string        // Адрес Bot API, по умолчанию api.telegram.org
	Client   *http.Client  // HTTP клиент, по умолчанию клиент с Timeout
	Timeout  time.Duration // Таймаут запроса, если Client не задан, по умолчанию 5s
}

const defaultTimeout = 5 * time.Second

// Notifier рассылает короткие оповещения персоналу в телеграм
type Notifier struct {
	api    *tgbotapi.BotAPI
	chats  []int64
	logger *zap.Logger
}

// New конструктор нотификатора.
// logger - необязательный параметр, без него логирование отключено
func New(cfg Config, logger ...*zap.Logger) (*Notifier, error) {
	if cfg.Token == "" {
		return nil, ErrInvalidToken
	}
	if len(cfg.Chats) == 0 {
		return nil, ErrNoChats
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = tgbotapi.APIEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	// Bot API не принимает ctx, поэтому время ограничивается только клиентом
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: cfg.Timeout}
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, cfg.Endpoint, cfg.Client)
	if err != nil {
		return nil, NewValidationError(ErrTelegramInit, err)
	}

	zapLogger := zap.NewNop()
	if len(logger) > 0 && logger[0] != nil {
		zapLogger = logger[0]
	}

	return &Notifier{
		api:    api,
		chats:  cfg.Chats,
		logger: zapLogger,
	}, nil
}

// Notify отправляет "[severity] message" во все чаты.
// Ошибка отправки в один чат не останавливает рассылку в остальные.
func (n *Notifier) Notify(ctx context.Context, severity, message string) error {
	text := FormatMessage(severity, message)

	var errs []error
	for _, chatID := range n.chats {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := n.api.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
			n.logger.Error("failed to send alert", zap.Int64("chat_id", chatID), zap.Error(err))
			errs = append(errs, fmt.Errorf("chat %d: %w", chatID, err))
			continue
		}
		n.logger.Debug("alert sent", zap.Int64("chat_id", chatID), zap.String("severity", severity))
	}
	return errors.Join(errs...)
}

func FormatMessage(severity, message string) string {
	return fmt.Sprintf("[%s] %s", severity, message)
}
