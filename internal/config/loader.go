package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "JOURNAL_"
	envConfigPath = "JOURNAL_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if JOURNAL_CONFIG is set
//  3. env (prefix JOURNAL_, "__" separates nested keys)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigPath); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// JOURNAL_BACKEND__BASE_URL -> backend.base_url
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}
	// The config path itself is not a field.
	k.Delete("config")

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Backend.Mode {
	case BackendRemote:
		if c.Backend.BaseURL == "" {
			return fmt.Errorf("%w: backend.base_url is required in remote mode", ErrInvalidConfig)
		}
	case BackendSQLite, BackendPostgres:
		if c.Backend.DSN == "" {
			return fmt.Errorf("%w: backend.dsn is required in %s mode", ErrInvalidConfig, c.Backend.Mode)
		}
	default:
		return fmt.Errorf("%w: unknown backend mode %q", ErrInvalidConfig, c.Backend.Mode)
	}
	switch c.Blob.Driver {
	case "memory", "fs":
	case "s3":
		if c.Blob.Bucket == "" {
			return fmt.Errorf("%w: blob.bucket is required for the s3 driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown blob driver %q", ErrInvalidConfig, c.Blob.Driver)
	}
	switch c.Email.Provider {
	case "noop":
	case "resend":
		if c.Email.APIKey == "" {
			return fmt.Errorf("%w: email.api_key is required for resend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown email provider %q", ErrInvalidConfig, c.Email.Provider)
	}
	if c.CSRFKey != "" && len(c.CSRFKey) != 32 {
		return fmt.Errorf("%w: csrf_key must be 32 bytes", ErrInvalidConfig)
	}
	return nil
}
