// Package config loads process-wide configuration from the
// environment once at startup. Values are injected into constructors
// and never mutated afterwards.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds every runtime setting of the API process.
type Config struct {
	HTTPAddr    string `env:"ACERVO_HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"ACERVO_PG_DSN"`

	TokenSecret   string        `env:"ACERVO_TOKEN_SECRET"`
	TokenIssuer   string        `env:"ACERVO_TOKEN_ISSUER" envDefault:"acervo-api"`
	TokenAudience string        `env:"ACERVO_TOKEN_AUDIENCE" envDefault:"acervo-clients"`
	TokenTTL      time.Duration `env:"ACERVO_TOKEN_TTL" envDefault:"24h"`

	RateBurst    int   `env:"ACERVO_RATE_BURST" envDefault:"20"`
	RatePerSec   int   `env:"ACERVO_RATE_PER_SEC" envDefault:"10"`
	MaxBodyBytes int64 `env:"ACERVO_MAX_BODY_BYTES" envDefault:"1048576"`
}

// Load parses the environment and validates the settings the token
// issuer depends on.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if strings.TrimSpace(cfg.TokenSecret) == "" {
		return Config{}, errors.New("ACERVO_TOKEN_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return Config{}, errors.New("ACERVO_TOKEN_TTL must be positive")
	}
	return cfg, nil
}
