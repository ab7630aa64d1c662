package config

import "time"

type Config struct {
	AppConfig
	HTTPConfig
	DBConfig
	SquareConfig
	AdminConfig
	GoogleSheetConfig
	TelegramConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// Часовой пояс зала для таблицы посещений
	TimeZone string `envconfig:"TIME_ZONE" default:"UTC"`
}

// IsProduction сообщает, запущено ли приложение в проде
func (c AppConfig) IsProduction() bool {
	return c.Env == "production"
}

type HTTPConfig struct {
	Addr            string        `envconfig:"HTTP_ADDR" default:":8080"`
	ShutdownTimeout time.Duration `envconfig:"HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

// DBConfig: URL для пулингового подключения (pgbouncer и т.п.), DirectURL прямое, для миграций.
type DBConfig struct {
	URL             string        `envconfig:"DATABASE_URL" required:"true" masked:"true"`
	DirectURL       string        `envconfig:"DATABASE_DIRECT_URL" masked:"true"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

// MigrationURL возвращает строку подключения для миграций
func (c DBConfig) MigrationURL() string {
	if c.DirectURL != "" {
		return c.DirectURL
	}
	return c.URL
}

type SquareConfig struct {
	AccessToken string        `envconfig:"SQUARE_ACCESS_TOKEN" masked:"true"`
	LocationID  string        `envconfig:"SQUARE_LOCATION_ID"`
	Environment string        `envconfig:"SQUARE_ENVIRONMENT" default:"sandbox"`
	BaseURL     string        `envconfig:"SQUARE_BASE_URL"`
	APIVersion  string        `envconfig:"SQUARE_API_VERSION" default:"2024-10-17"`
	Timeout     time.Duration `envconfig:"SQUARE_TIMEOUT" default:"5s"`
}

// Configured: есть ли у нас живые креды Square
func (c SquareConfig) Configured() bool {
	return c.AccessToken != ""
}

// Endpoint возвращает базовый адрес API с учетом окружения
func (c SquareConfig) Endpoint() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.Environment == "production" {
		return "https://connect.squareup.com"
	}
	return "https://connect.squareupsandbox.com"
}

// Location: идентификатор зала для записей чекина
func (c SquareConfig) Location() string {
	if c.LocationID == "" {
		return "default-location"
	}
	return c.LocationID
}

type AdminConfig struct {
	SessionSecret     string        `envconfig:"SESSION_SECRET" masked:"true"`
	PasswordHash      string        `envconfig:"ADMIN_PASSWORD_HASH" masked:"true"`
	SessionTTL        time.Duration `envconfig:"SESSION_TTL" default:"720h"`
	SessionCookieName string        `envconfig:"SESSION_COOKIE_NAME" default:"gym_admin_session"`
}

// Secret возвращает секрет подписи сессий, для разработки есть запасной
func (c AdminConfig) Secret() string {
	if c.SessionSecret == "" {
		return "fallback-secret-for-development-only"
	}
	return c.SessionSecret
}

// GoogleSheetConfig: выгрузка посещений в таблицу. Без кредов выгрузка отключена.
type GoogleSheetConfig struct {
	SheetID           string        `envconfig:"SHEET_ID" masked:"true"`
	AttendanceListID  string        `envconfig:"ATTENDANCE_LIST_ID" masked:"true"`
	CredentialsBase64 string        `envconfig:"CREDENTIALS_BASE64" masked:"true"`
	PauseMs           int           `envconfig:"SHEET_PAUSE_MS" default:"1000"`
	SyncInterval      time.Duration `envconfig:"SHEET_SYNC_INTERVAL" default:"10m"`
}

func (c GoogleSheetConfig) Enabled() bool {
	return c.SheetID != "" && c.AttendanceListID != "" && c.CredentialsBase64 != ""
}

// TelegramConfig: оповещения персонала о проблемных чекинах
type TelegramConfig struct {
	BotToken    string        `envconfig:"BOT_TOKEN" masked:"true"`
	AlertChats  []int64       `envconfig:"TELEGRAM_ALERT_CHATS"`
	MinSeverity string        `envconfig:"TELEGRAM_MIN_SEVERITY" default:"error"`
	Timeout     time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"5s"`
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && len(c.AlertChats) > 0
}
