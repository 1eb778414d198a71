package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces taskd environment variables.
const envPrefix = "TASKD_"

// LoadWithFile loads configuration from a YAML file, then overrides with
// environment variables.
//
// Precedence (highest to lowest):
//  1. Environment variables (TASKD_SERVER_PORT, TASKD_STORE_BASE_DIR, ...)
//  2. YAML config file (default ~/.config/taskd/config.yaml)
//  3. Hardcoded defaults
//
// A missing file is not an error; defaults and environment apply.
func LoadWithFile(configPath string) (*Config, error) {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "taskd", "config.yaml")
	}

	content, err := os.ReadFile(configPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	return load(content)
}

// Load returns the configuration from defaults and environment only.
func Load() (*Config, error) {
	return load(nil)
}

func load(fileContent []byte) (*Config, error) {
	k := koanf.New(".")

	if len(fileContent) > 0 {
		if err := k.Load(rawbytes.Provider(fileContent), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Environment variables map to config keys by splitting on the first
	// underscore after the prefix: TASKD_SERVER_PORT -> server.port,
	// TASKD_ACTIVITY_RETENTION_CAP -> activity.retention_cap.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}
