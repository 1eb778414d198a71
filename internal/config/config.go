// Package config provides configuration loading for taskd.
//
// Configuration is read from an optional YAML file with environment
// variable overrides and hardcoded defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fyrsmithlabs/taskd/internal/activity"
)

// Config holds the complete taskd configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Store     StoreConfig     `koanf:"store"`
	Activity  ActivityConfig  `koanf:"activity"`
	Templates TemplatesConfig `koanf:"templates"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// StoreConfig holds project document store configuration.
type StoreConfig struct {
	// BaseDir is the root directory holding the active/ and completed/
	// project document directories.
	BaseDir string `koanf:"base_dir"`
}

// ActivityConfig holds activity log configuration.
type ActivityConfig struct {
	// Path is the JSON file backing the activity log. Defaults to
	// activity.json under the store base directory.
	Path         string `koanf:"path"`
	RetentionCap int    `koanf:"retention_cap"`
}

// TemplatesConfig holds template catalog configuration.
type TemplatesConfig struct {
	// Path is an optional YAML catalog replacing the built-in templates.
	Path string `koanf:"path"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // json or console
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8787
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Store.BaseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		cfg.Store.BaseDir = filepath.Join(home, "dev", "projects")
	}

	if cfg.Activity.Path == "" {
		cfg.Activity.Path = filepath.Join(cfg.Store.BaseDir, "activity.json")
	}
	if cfg.Activity.RetentionCap == 0 {
		cfg.Activity.RetentionCap = activity.DefaultRetentionCap
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Store.BaseDir == "" {
		return errors.New("store base directory is required")
	}
	if c.Activity.RetentionCap < 1 {
		return errors.New("activity retention cap must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid logging format: %q (must be json or console)", c.Logging.Format)
	}
	return nil
}
