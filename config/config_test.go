package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
env:
  env: test
  timezone: UTC
  log:
    level: info
http:
  port: 9090
storage:
  driver: sqlite
sqlite:
  path: /tmp/elogbook-test.db
session:
  idleTimeout: 30m
auth:
  secretScheme: bcrypt
  bcryptCost: 4
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(body), 0o600))

	return dir
}

func chdir(t *testing.T, dir string) {
	t.Helper()

	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadWithEnv_ReadsYAML(t *testing.T) {
	chdir(t, writeConfig(t, "config", testYAML))

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, "test", cfg.Env.Env)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, StorageDriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/elogbook-test.db", cfg.SQLite.Path)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, "bcrypt", cfg.Auth.SecretScheme)
	assert.Equal(t, 4, cfg.Auth.BcryptCost)
}

func TestLoadWithEnv_EnvOverridesYAML(t *testing.T) {
	chdir(t, writeConfig(t, "config", testYAML))
	t.Setenv("SESSION_IDLETIMEOUT", "2h")
	t.Setenv("HTTP_PORT", "7070")

	cfg, err := LoadWithEnv[Config]("config")
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Session.IdleTimeout)
	assert.Equal(t, 7070, cfg.HTTP.Port)
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	chdir(t, t.TempDir())

	_, err := LoadWithEnv[Config]("config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.yaml not found")
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	assert.Equal(t, defaultMaxRequestBodySize, cfg.HTTP.MaxRequestBodySize)
	assert.Equal(t, StorageDriverMemory, cfg.Storage.Driver)
	assert.Equal(t, defaultCookieName, cfg.Session.CookieName)
	assert.Equal(t, defaultIdleTimeout, cfg.Session.IdleTimeout)
	assert.Equal(t, defaultPruneInterval, cfg.Session.PruneInterval)
	assert.Equal(t, "plain", cfg.Auth.SecretScheme)
	assert.Equal(t, defaultWorkerPort, cfg.Worker.Port)
	assert.Equal(t, defaultWorkerFeedSize, cfg.Worker.FeedSize)
}

func TestLocation(t *testing.T) {
	cfg := &Config{}

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, defaultTimezone, loc.String())

	cfg.Env.Timezone = "Not/AZone"
	_, err = cfg.Location()
	assert.Error(t, err)
}
