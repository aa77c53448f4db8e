package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds runtime configuration parsed from environment variables.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	CatalogURL      string        `env:"CATALOG_URL" envDefault:"https://dummyjson.com/products"`
	CatalogTimeout  time.Duration `env:"CATALOG_TIMEOUT" envDefault:"0s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	DBConnString    string        `env:"DB_DSN"`
	RedisAddr       string        `env:"REDIS_ADDR"`
	CatalogCacheTTL time.Duration `env:"CATALOG_CACHE_TTL" envDefault:"1m"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
}

// FromEnv builds Config with defaults, overridden by environment variables.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// NewLogger builds a production zap logger at the configured level, named
// after the binary that uses it.
func (c Config) NewLogger(name string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", c.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Named(name), nil
}
