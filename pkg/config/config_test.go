package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Logger   Logger   `mapstructure:"logger"`
	Database Database `mapstructure:"database"`
	API      API      `mapstructure:"api"`
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileWithEnvOverride(t *testing.T) {
	path := writeFile(t, `
logger:
  level: "debug"
database:
  host: "localhost"
  port: 5432
api:
  port: 8080
`)
	t.Setenv("DATABASE_HOST", "db.internal")

	var cfg testConfig
	require.NoError(t, Load(path, &cfg))
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 8080, cfg.API.Port)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	var cfg testConfig
	require.NoError(t, Load(filepath.Join(t.TempDir(), "absent.yaml"), &cfg))
	assert.Zero(t, cfg.API.Port)
}

func TestLoad_MalformedFileFails(t *testing.T) {
	path := writeFile(t, "api:\n  port: [8080\n")

	var cfg testConfig
	err := Load(path, &cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}
