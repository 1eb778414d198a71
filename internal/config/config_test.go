package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8787, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.NotEmpty(t, cfg.Store.BaseDir)
	assert.NotEmpty(t, cfg.Activity.Path)
	assert.Equal(t, 500, cfg.Activity.RetentionCap)
	assert.Empty(t, cfg.Templates.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("TASKD_SERVER_PORT", "9000")
	t.Setenv("TASKD_SERVER_HOST", "0.0.0.0")
	t.Setenv("TASKD_STORE_BASE_DIR", "/srv/projects")
	t.Setenv("TASKD_ACTIVITY_RETENTION_CAP", "100")
	t.Setenv("TASKD_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "/srv/projects", cfg.Store.BaseDir)
	assert.Equal(t, 100, cfg.Activity.RetentionCap)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// The activity path default follows the overridden base directory.
	assert.Equal(t, "/srv/projects/activity.json", cfg.Activity.Path)
}

func TestLoadInvalidEnvValue(t *testing.T) {
	t.Setenv("TASKD_SERVER_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid server port")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Host: "localhost", Port: 8787, ShutdownTimeout: time.Second},
			Store:  StoreConfig{BaseDir: "/tmp/projects"},
			Activity: ActivityConfig{
				Path:         "/tmp/projects/activity.json",
				RetentionCap: 500,
			},
			Logging: LoggingConfig{Level: "info", Format: "json"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 99999 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = 0 },
			wantErr: "shutdown timeout",
		},
		{
			name:    "missing base dir",
			mutate:  func(c *Config) { c.Store.BaseDir = "" },
			wantErr: "base directory",
		},
		{
			name:    "zero retention cap",
			mutate:  func(c *Config) { c.Activity.RetentionCap = 0 },
			wantErr: "retention cap",
		},
		{
			name:    "bad logging format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
