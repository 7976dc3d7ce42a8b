package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  super_admin_id: 42
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, BackendJSON, cfg.Storage.Backend)
	require.Equal(t, "data", cfg.Storage.DataDir)
	require.EqualValues(t, 5000, cfg.Limits.MinTopup)
	require.EqualValues(t, 10000, cfg.Limits.MinWithdraw)
	require.Equal(t, ":8080", cfg.HTTP.Addr)
	require.True(t, cfg.Metrics.Enabled)
}

func TestLoadRequiresToken(t *testing.T) {
	path := writeConfig(t, `
telegram:
  super_admin_id: 42
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadPostgresRequiresDSN(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  super_admin_id: 42
storage:
  backend: postgres
`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadUnknownBackend(t *testing.T) {
	path := writeConfig(t, `
telegram:
  token: "123:abc"
  super_admin_id: 42
storage:
  backend: sqlite
`)
	_, err := Load(path)
	require.Error(t, err)
}
