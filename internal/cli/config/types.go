// Package config loads dbdeck configuration from file, environment, and
// flags, in that order of increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/dbdeck-io/dbdeck/pkg/core"
	"github.com/dbdeck-io/dbdeck/pkg/driver"
)

// Default configuration values.
const (
	DefaultListen   = ":8951"
	DefaultPageSize = 50
)

// PageSizePresets are the page sizes offered by interactive surfaces. Any
// size >= 1 is accepted; these are just the advertised choices.
var PageSizePresets = []int{10, 20, 50, 100}

// TargetConfig holds the database target connection parameters.
type TargetConfig struct {
	Type string `koanf:"type"` // postgres, mysql, sqlite, duckdb

	// File-based databases (SQLite, DuckDB)
	Path string `koanf:"path"`

	// Network databases
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`

	// Common
	Schema string `koanf:"schema"`

	// Driver-specific options (e.g. sslmode)
	Options map[string]string `koanf:"options"`
}

// Config holds all dbdeck configuration.
type Config struct {
	Target   TargetConfig `koanf:"target"`
	Listen   string       `koanf:"listen"`
	PageSize int          `koanf:"page_size"`
	Verbose  bool         `koanf:"verbose"`
}

// ToConnConfig converts the target block into the driver-facing form.
func (t *TargetConfig) ToConnConfig() core.ConnConfig {
	return core.ConnConfig{
		Type:     strings.ToLower(t.Type),
		Path:     t.Path,
		Host:     t.Host,
		Port:     t.Port,
		Username: t.User,
		Password: t.Password,
		Database: t.Database,
		Schema:   t.Schema,
		Options:  t.Options,
	}
}

// fileBased reports whether the driver type connects to a file path rather
// than a network endpoint.
func (t *TargetConfig) fileBased() bool {
	switch strings.ToLower(t.Type) {
	case "sqlite", "sqlite3", "duckdb":
		return true
	default:
		return false
	}
}

// Validate checks that the target is usable. A missing required connection
// parameter is fatal at startup, before any operation runs.
func (t *TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !driver.IsRegistered(strings.ToLower(t.Type)) {
		return &driver.UnknownDriverError{Type: t.Type, Available: driver.List()}
	}
	if t.fileBased() {
		// Empty path means an in-memory database; nothing else is required.
		return nil
	}

	var missing []string
	if t.Host == "" {
		missing = append(missing, "host")
	}
	if t.User == "" {
		missing = append(missing, "user")
	}
	if t.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required target parameters for %s: %s", t.Type, strings.Join(missing, ", "))
	}
	return nil
}

// ToConnConfig converts the configured target into the driver-facing form.
func (c *Config) ToConnConfig() core.ConnConfig {
	return c.Target.ToConnConfig()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return err
	}
	if c.PageSize < 1 {
		return fmt.Errorf("page_size must be >= 1, got %d", c.PageSize)
	}
	return nil
}

// DefaultSchema returns the configured schema, or the driver's conventional
// default when unset.
func (c *Config) DefaultSchema() string {
	if c.Target.Schema != "" {
		return c.Target.Schema
	}
	switch strings.ToLower(c.Target.Type) {
	case "postgres", "postgresql":
		return "public"
	case "mysql", "mariadb":
		return c.Target.Database
	default:
		return "main"
	}
}
