package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigFile: путь к .env файлу и указатель на структуру с тегами envconfig.
type ConfigFile struct {
	// Путь к файлу. Пустой путь: только переменные окружения.
	Path string
	// Optional: отсутствие файла не ошибка (локальный .env, в проде его нет).
	Optional bool
	// Конфигурация - указатель на структуру.
	Config interface{}
}

// LoadConfigFiles загружает .env файлы и разбирает окружение в структуры.
// Уже заданные переменные окружения файлом не перетираются.
func LoadConfigFiles(configFiles ...*ConfigFile) error {
	for _, configFile := range configFiles {
		if configFile.Path != "" {
			err := godotenv.Load(configFile.Path)
			switch {
			case err == nil:
			case configFile.Optional && errors.Is(err, fs.ErrNotExist):
			default:
				return fmt.Errorf("load env file %s: %w", configFile.Path, err)
			}
		}

		if err := envconfig.Process("", configFile.Config); err != nil {
			return fmt.Errorf("process env: %w", err)
		}
	}
	return nil
}

// LoadConfigs разбирает переменные окружения в несколько структур
func LoadConfigs(config ...interface{}) error {
	for _, cfg := range config {
		if err := envconfig.Process("", cfg); err != nil {
			return fmt.Errorf("process env: %w", err)
		}
	}
	return nil
}
