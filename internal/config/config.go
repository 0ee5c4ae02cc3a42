// Package config loads the slipgen YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/slipgen/internal/draft"
	"github.com/erazemk/slipgen/internal/identity"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig        `yaml:"server"`
	Policy    draft.Policy        `yaml:"policy"`
	Encoder   EncoderConfig       `yaml:"encoder"`
	Identity  IdentityConfig      `yaml:"identity"`
	Reference model.ReferenceData `yaml:"reference"`

	// Catalog seeds the known item names on first start.
	Catalog []string `yaml:"catalog"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	DB          string        `yaml:"db"`
	SessionIdle time.Duration `yaml:"session_idle"`
}

// EncoderConfig selects the payload schema.
type EncoderConfig struct {
	Version int `yaml:"version"`
}

// IdentityConfig controls slip numbers and the rendered creation time.
type IdentityConfig struct {
	Prefix string `yaml:"prefix"`
	Digits int    `yaml:"digits"`
	Layout string `yaml:"layout"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			DB:          "slipgen.sqlite3",
			SessionIdle: 2 * time.Hour,
		},
		Policy:  draft.DefaultPolicy(),
		Encoder: EncoderConfig{Version: int(slip.Latest)},
		Identity: IdentityConfig{
			Prefix: identity.DefaultPrefix,
			Digits: identity.DefaultDigits,
			Layout: identity.DefaultLayout,
		},
		Reference: model.DefaultReference(),
		Catalog:   []string{"Keyboard", "Mouse", "Monitor", "Laptop", "Charger", "Headset"},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise produce undecodable payloads.
func (c *Config) Validate() error {
	if _, err := slip.ParseVersion(c.Encoder.Version); err != nil {
		return err
	}
	if err := c.Reference.Validate(); err != nil {
		return fmt.Errorf("reference: %w", err)
	}
	if strings.Contains(c.Identity.Prefix, ",") {
		return fmt.Errorf("identity.prefix must not contain a comma")
	}
	if c.Identity.Digits < 1 || c.Identity.Digits > 13 {
		return fmt.Errorf("identity.digits must be between 1 and 13, got %d", c.Identity.Digits)
	}
	// The rendered time is a top-level payload field.
	if c.Identity.Layout == "" || strings.Contains(c.Identity.Layout, ",") {
		return fmt.Errorf("identity.layout must be non-empty and must not contain a comma")
	}
	if c.Server.SessionIdle < 0 {
		return fmt.Errorf("server.session_idle must not be negative")
	}
	return nil
}

// Clock returns the identity provider described by the configuration.
func (c *Config) Clock() *identity.Clock {
	return &identity.Clock{
		Now:    time.Now,
		Prefix: c.Identity.Prefix,
		Digits: c.Identity.Digits,
		Layout: c.Identity.Layout,
	}
}

// SlipEncoder returns the encoder for the configured payload version.
// Validate has already rejected unknown versions.
func (c *Config) SlipEncoder() slip.Encoder {
	v, err := slip.ParseVersion(c.Encoder.Version)
	if err != nil {
		v = slip.Latest
	}
	return slip.Encoder{Version: v}
}
