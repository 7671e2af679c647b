package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", true)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 30*time.Second, cfg.Reports.FetchTimeout)
	assert.Equal(t, 30*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, 30*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":9090"
store:
  driver: postgres
db:
  dsn: postgres://localhost/insurance
  query_timeout: 5s
reports:
  fetch_timeout: 2s
`), 0o600))
	t.Setenv("IA_LOG_LEVEL", "debug")

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/insurance", cfg.DB.DSN)
	assert.Equal(t, 5*time.Second, cfg.DB.QueryTimeout)
	assert.Equal(t, 2*time.Second, cfg.Reports.FetchTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadRejectsIncompleteStore(t *testing.T) {
	t.Setenv("IA_STORE_DRIVER", "postgres")
	_, err := Load("", true)
	assert.ErrorContains(t, err, "db.dsn is required")

	t.Setenv("IA_STORE_DRIVER", "sqlite")
	_, err = Load("", true)
	assert.ErrorContains(t, err, `unknown store.driver "sqlite"`)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), false)
	assert.Error(t, err)
}
