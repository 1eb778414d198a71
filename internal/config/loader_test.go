package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadWithFile(t *testing.T) {
	path := writeConfigFile(t, `server:
  host: 127.0.0.1
  port: 9090
store:
  base_dir: /data/projects
activity:
  retention_cap: 50
logging:
  level: warn
  format: console
`)

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "/data/projects", cfg.Store.BaseDir)
	assert.Equal(t, 50, cfg.Activity.RetentionCap)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadWithFileEnvWins(t *testing.T) {
	path := writeConfigFile(t, `server:
  port: 9090
`)
	t.Setenv("TASKD_SERVER_PORT", "9999")

	cfg, err := LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestLoadWithMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8787, cfg.Server.Port)
}

func TestLoadWithMalformedFile(t *testing.T) {
	path := writeConfigFile(t, "server: [not a map\n")
	_, err := LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}
