package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config contains application configuration parameters.
type Config struct {
	LogLevel    int         `env:"LOG_LEVEL" envDefault:"0"`
	Database    Database    `envPrefix:"DB_"`
	Preferences Preferences `envPrefix:"PREFS_"`
	Telegram    Telegram    `envPrefix:"TELEGRAM_"`
	ViewModel   ViewModel   `envPrefix:"VIEWMODEL_"`
}

// Database contains user database parameters.
type Database struct {
	Path string `env:"PATH" envDefault:"users.db"`
}

// Preferences contains settings store parameters.
type Preferences struct {
	Path      string `env:"PATH" envDefault:"preferences.db"`
	Namespace string `env:"NAMESPACE" envDefault:"app_shared_prefs"`
}

// Telegram contains bot parameters.
type Telegram struct {
	BotToken string `env:"BOT_TOKEN"`
	Debug    bool   `env:"DEBUG" envDefault:"false"`
}

// ViewModel contains view-model tuning parameters.
type ViewModel struct {
	StopTimeout time.Duration `env:"STOP_TIMEOUT" envDefault:"5s"`
}

// NewConfig loads configuration from environment variables.
// Variables from the given dotenv files are loaded first without overriding
// the ones already set; missing files are ignored.
func NewConfig(dotenvFiles ...string) (*Config, error) {
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
