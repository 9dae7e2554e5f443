package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultPaths, cfg.DefaultPaths)
	assert.Equal(t, DefaultThreads, cfg.Threads)
	assert.True(t, cfg.FollowLinks)
	assert.True(t, cfg.Estimate)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "10MB", cfg.Logging.Rotation.MaxSize)
	assert.Equal(t, "info", cfg.Logging.Components["warmer"])
}

func TestLoad_FromFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "warm")
	require.NoError(t, os.MkdirAll(configDir, 0o755))

	configContent := `
default_paths:
  - /var/lib/postgresql
  - /srv/data
threads: 32
follow_links: false
estimate: false
output: json
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0o644))

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"/var/lib/postgresql", "/srv/data"}, cfg.DefaultPaths)
	assert.Equal(t, 32, cfg.Threads)
	assert.False(t, cfg.FollowLinks)
	assert.False(t, cfg.Estimate)
	assert.Equal(t, "json", cfg.Output)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_XDGConfigHome(t *testing.T) {
	tempDir := t.TempDir()
	xdgConfigDir := filepath.Join(tempDir, "xdg-config", "warm")
	require.NoError(t, os.MkdirAll(xdgConfigDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(xdgConfigDir, "config.yaml"), []byte("threads: 7\n"), 0o644))

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "xdg-config"))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Threads)
}

func TestLoad_EnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("WARM_THREADS", "12")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Threads)
}

func TestLoad_InvalidFile(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, ".config", "warm")
	require.NoError(t, os.MkdirAll(configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte("threads: [unclosed\n"), 0o644))

	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)
	t.Setenv("XDG_CONFIG_HOME", "")

	require.NoError(t, WriteDefault())

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, ".config", "warm", "config.yaml"), path)

	// The written file must round-trip through Load.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultThreads, cfg.Threads)
	assert.Equal(t, []string{DefaultPath}, cfg.DefaultPaths)

	// A second call leaves an existing file alone.
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\n"), 0o644))
	require.NoError(t, WriteDefault())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "threads: 3\n", string(data))
}

func TestExpandPath(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("HOME", tempDir)

	got, err := ExpandPath("~/data")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "data"), got)

	got, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestDefaultLogPath(t *testing.T) {
	assert.Equal(t, "warm.log", filepath.Base(DefaultLogPath()))
	assert.Equal(t, StateDir(), filepath.Dir(DefaultLogPath()))
}
