// Package config loads the intake settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every environment variable, e.g. INTAKE_HTTP_ADDR.
const Prefix = "INTAKE"

// Environment names the deployment stage.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// Decode implements envconfig.Decoder.
func (e *Environment) Decode(value string) error {
	env, err := ParseEnvironment(value)
	if err != nil {
		return err
	}
	*e = env
	return nil
}

// ParseEnvironment accepts the stage names and their short forms (dev, prod).
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dev", "development":
		return Development, nil
	case "stage", "staging":
		return Staging, nil
	case "test", "testing":
		return Testing, nil
	case "prod", "production":
		return Production, nil
	}
	return "", fmt.Errorf("unknown environment %q", s)
}

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config holds every runtime setting.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	Store       string `envconfig:"STORE" default:"memory"`
	RedisURL    string `envconfig:"REDIS_URL"`
	RedisPrefix string `envconfig:"REDIS_PREFIX" default:"intake:"`

	SharedContextTTL time.Duration `envconfig:"SHARED_CONTEXT_TTL" default:"6h"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" default:"100"`
	MaxInputSize     int           `envconfig:"MAX_INPUT_SIZE" default:"4096"`

	// GraphsDir holds YAML graphs that override built-ins by service name.
	GraphsDir string `envconfig:"GRAPHS_DIR"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile  string `envconfig:"LOG_FILE"`
}

// Load reads an optional .env file from the working directory, then the environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles is Load with explicit dotenv files. Missing files are ignored.
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings envconfig cannot express.
func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s_REDIS_URL is required when %s_STORE=redis", Prefix, Prefix)
		}
	default:
		return fmt.Errorf("unknown store %q (want memory or redis)", c.Store)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("%s_HISTORY_LIMIT must be positive", Prefix)
	}
	if c.MaxInputSize <= 0 {
		return fmt.Errorf("%s_MAX_INPUT_SIZE must be positive", Prefix)
	}
	if c.SharedContextTTL <= 0 {
		return fmt.Errorf("%s_SHARED_CONTEXT_TTL must be positive", Prefix)
	}
	return nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}
