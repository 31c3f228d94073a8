// Package config loads fairdice settings from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"

	"github.com/f3rmion/fairdice/commit"
)

// Config holds runtime settings. Command-line flags override these.
type Config struct {
	Scheme       string        `env:"FAIRDICE_SCHEME" envDefault:"hmac-sha256"`
	RoundTimeout time.Duration `env:"FAIRDICE_ROUND_TIMEOUT" envDefault:"5m"`
	MaxAttempts  int           `env:"FAIRDICE_MAX_ATTEMPTS" envDefault:"5"`
	LogLevel     string        `env:"FAIRDICE_LOG_LEVEL" envDefault:"info"`
}

// Parse loads configuration from environment variables.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if _, err := commit.SchemeByName(c.Scheme); err != nil {
		return err
	}
	if c.RoundTimeout <= 0 {
		return errors.New("round timeout must be positive")
	}
	if c.MaxAttempts <= 0 {
		return errors.New("max attempts must be positive")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// CommitScheme resolves the configured scheme.
func (c Config) CommitScheme() (commit.Scheme, error) {
	return commit.SchemeByName(c.Scheme)
}

// Level resolves the configured log level.
func (c Config) Level() (zerolog.Level, error) {
	return zerolog.ParseLevel(c.LogLevel)
}
