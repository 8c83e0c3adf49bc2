package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests in this file mutate the process environment and must not run in parallel.

func TestLoad_Defaults(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "preload.yaml", s.ConfigPath)
	assert.Equal(t, "sqlite", s.Driver)
	assert.Equal(t, ":memory:", s.DSN)
	assert.Equal(t, "info", s.LogLevel)
	assert.False(t, s.DryRun)
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("PRELOAD_DSN", "file:app.db")
	t.Setenv("PRELOAD_LOG_LEVEL", "debug")
	t.Setenv("PRELOAD_DRY_RUN", "true")
	s, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "file:app.db", s.DSN)
	assert.Equal(t, "debug", s.LogLevel)
	assert.True(t, s.DryRun)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRELOAD_DRIVER=sqlite3\n"), 0600))
	t.Cleanup(func() { _ = os.Unsetenv("PRELOAD_DRIVER") })

	s, err := Load("", path, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", s.Driver)
}

func TestLoad_SettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "preload.settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dsn: file:from-file.db\nlog_level: warn\ntrace: true\n"), 0600))
	t.Setenv("PRELOAD_LOG_LEVEL", "error")

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file:from-file.db", s.DSN)
	assert.Equal(t, "error", s.LogLevel, "environment overrides the file")
	assert.True(t, s.Trace)
	assert.Equal(t, "sqlite", s.Driver)
}

func TestLoad_MissingSettingsFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":memory:", s.DSN)
}

func TestLoad_InvalidSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("dsn: [unclosed\n"), 0600))
	_, err := Load(path)
	require.Error(t, err)
}
