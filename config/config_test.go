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
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644))
	return dir
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "ECAT Prep Platform", cfg.App.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Empty(t, cfg.Database.Driver)
	assert.False(t, cfg.Session.Secure)
	assert.Empty(t, cfg.Source)
}

func TestLoadFromAppDir(t *testing.T) {
	dir := writeConfig(t, `
app:
  secret_key: s3cret
logs:
  level: debug
  format: json
server:
  write_timeout: 30s
metrics:
  enabled: false
session:
  secure: true
`)
	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.App.SecretKey)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.False(t, cfg.Metrics.Enabled)
	assert.True(t, cfg.Session.Secure)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Source)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := writeConfig(t, "logs:\n  level: debug\n")
	t.Setenv("LOGS_LEVEL", "error")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.Logging.Level)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := writeConfig(t, "logs: [unterminated\n")
	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"format":  "logs:\n  format: xml\n",
		"driver":  "database:\n  driver: oracle\n",
		"dsn":     "database:\n  driver: postgres\n",
		"metrics": "metrics:\n  path: metrics\n",
		"timeout": "server:\n  read_timeout: -1s\n",
		"session": "session:\n  name: \" \"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestRequireProduction(t *testing.T) {
	var c Config
	assert.Error(t, RequireProduction(&c))
	c.App.SecretKey = "CHANGE_ME"
	assert.Error(t, RequireProduction(&c))
	c.App.SecretKey = "real"
	assert.NoError(t, RequireProduction(&c))
}
