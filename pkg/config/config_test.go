package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte(`[System]
Port = 9000
Debug = true

[Database]
Type = postgres
Host = db.internal
`), 0644))

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.GetInt(KeyServerPort))
	assert.True(t, cfg.GetBool(KeyServerDebug))
	assert.Equal(t, "postgres", cfg.GetString(KeyDBType))
	assert.Equal(t, "db.internal", cfg.GetString(KeyDBHost))
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.ini")
	require.NoError(t, os.WriteFile(path, []byte("[Database]\nHost = from-file\n"), 0644))

	t.Setenv("INKWELL_DATABASE_HOST", "from-env")
	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GetString(KeyDBHost))
}

func TestMissingFileCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "conf.ini")

	cfg, err := NewFromFile(path)
	require.NoError(t, err)
	assert.FileExists(t, path)
	assert.Equal(t, 8080, cfg.GetInt(KeyServerPort))
	assert.Equal(t, "sqlite", cfg.GetString(KeyDBType))
	assert.Equal(t, "local", cfg.GetString(KeyStorageType))
}

func TestSetOverrides(t *testing.T) {
	cfg, err := NewFromFile(filepath.Join(t.TempDir(), "conf.ini"))
	require.NoError(t, err)

	cfg.Set(KeyJWTSecret, "abc123")
	assert.Equal(t, "abc123", cfg.GetString(KeyJWTSecret))
}
