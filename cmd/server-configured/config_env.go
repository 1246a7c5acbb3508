package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/simple-frontend/pkg/simplefrontend/config"
)

// EnvConfig holds server-only settings. Cache and content model settings are read
// by config.WithEnv.
type EnvConfig struct {
	ContentAPIURL   string        `env:"CONTENT_API_URL" env-description:"Base URL of the headless CMS API"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" env-default:"1048576"`
	CacheMaxAge     time.Duration `env:"HTTP_CACHE_MAX_AGE" env-default:"0s"`
}

// loadConfigFromEnv reads the server settings and the library configuration from
// the process environment.
func loadConfigFromEnv() (*EnvConfig, *config.Config, error) {
	var env EnvConfig
	if err := cleanenv.ReadEnv(&env); err != nil {
		return nil, nil, fmt.Errorf("failed to read server environment: %w", err)
	}

	cfg, err := config.Load(config.WithEnv(""))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &env, cfg, nil
}

func (e *EnvConfig) slogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(e.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
