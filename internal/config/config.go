package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config holds server configuration, loaded from the environment
type Config struct {
	Port        int    `env:"TAGBANK_PORT" envDefault:"8080"`
	StorageType string `env:"TAGBANK_STORAGE" envDefault:"memory"`
	RedisURL    string `env:"TAGBANK_REDIS_URL"`
	HistoryCap  int    `env:"TAGBANK_HISTORY_CAP" envDefault:"50"`
	LogLevel    string `env:"TAGBANK_LOG_LEVEL" envDefault:"info"`
	StaticDir   string `env:"TAGBANK_STATIC_DIR"`
}

// Load reads configuration from the environment
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog level
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
