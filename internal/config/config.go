package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Values come from the environment and
// may be overridden by command line flags in main.
type Config struct {
	Addr      string `env:"VIBECADE_ADDR" envDefault:":8080"`
	Debug     bool   `env:"VIBECADE_DEBUG"`
	LogFormat string `env:"VIBECADE_LOG_FORMAT" envDefault:"text"`

	StorageDriver string `env:"VIBECADE_STORAGE" envDefault:"auto"`
	StorageDSN    string `env:"VIBECADE_STORAGE_DSN" envDefault:"data/vibecade.db"`
	StorageKey    string `env:"VIBECADE_STORAGE_KEY" envDefault:"vibecade-games"`

	GenAIProvider string        `env:"VIBECADE_GENAI_PROVIDER" envDefault:"gemini"`
	GenAIAPIKey   string        `env:"API_KEY"`
	GenAIModel    string        `env:"VIBECADE_GENAI_MODEL"`
	GenAIEndpoint string        `env:"VIBECADE_GENAI_ENDPOINT"`
	GenAITimeout  time.Duration `env:"VIBECADE_GENAI_TIMEOUT" envDefault:"2m"`

	StudioTTL time.Duration `env:"VIBECADE_STUDIO_TTL" envDefault:"24h"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate normalises enumerated values and rejects unusable settings.
func (c *Config) Validate() error {
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}

	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case "", "auto":
		c.StorageDriver = "auto"
	case "sqlite", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	if strings.TrimSpace(c.StorageKey) == "" {
		return errors.New("storage key is required")
	}

	c.GenAIProvider = strings.ToLower(strings.TrimSpace(c.GenAIProvider))
	switch c.GenAIProvider {
	case "gemini", "openai":
	case "":
		c.GenAIProvider = "gemini"
	default:
		return fmt.Errorf("unknown genai provider %q", c.GenAIProvider)
	}
	if c.GenAITimeout <= 0 {
		c.GenAITimeout = 2 * time.Minute
	}
	if c.StudioTTL <= 0 {
		c.StudioTTL = 24 * time.Hour
	}
	return nil
}
