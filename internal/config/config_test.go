package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  path: storage/students.json
http_server:
  address: localhost:8082
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, DriverJSON, cfg.Storage.Driver)
	assert.Equal(t, "storage/students.json", cfg.Storage.Path)
	assert.False(t, cfg.Storage.AtomicWrites)
	assert.Equal(t, "localhost:8082", cfg.HTTPServer.Addr)
	assert.Equal(t, 10*time.Second, cfg.HTTPServer.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
env: dev
storage:
  driver: json
  path: storage/students.json
http_server:
  address: localhost:8082
`)
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("STORAGE_PATH", "/tmp/students.db")
	t.Setenv("HTTP_SERVER_WRITE_TIMEOUT", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/students.db", cfg.Storage.Path)
	assert.Equal(t, 3*time.Second, cfg.HTTPServer.WriteTimeout)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "does not exist")
	})

	t.Run("unknown driver", func(t *testing.T) {
		path := writeConfig(t, `
env: dev
storage:
  driver: postgres
  path: x
http_server:
  address: localhost:8082
`)
		_, err := Load(path)
		assert.ErrorContains(t, err, "unknown storage driver")
	})

	t.Run("missing required value", func(t *testing.T) {
		path := writeConfig(t, `
env: dev
http_server:
  address: localhost:8082
`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}
