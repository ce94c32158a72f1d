package conf

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
name: grocerize
baseUrl: http://localhost:8080
site:
  title: Grocerizer
  description: the amazing grocery list
session:
  secret: ${TEST_SESSION_SECRET}
persistence:
  driver: badger
mail:
  driver: smtp
  from: grocerizer@example.com
  smtp:
    host: smtp.example.com
eventBus:
  provider: nats
  url: nats://localhost:4222
`

func writeConfig(t *testing.T, name string, content string) string {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600)
	require.NoError(t, err)
	return dir
}

func TestLoadConfig(t *testing.T) {
	Path = writeConfig(t, "config.yaml", testConfig)
	t.Setenv("TEST_SESSION_SECRET", "from-yaml-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "Grocerizer", cfg.Site.Title)
	assert.Equal(t, "from-yaml-env", cfg.Session.Secret)
	assert.Equal(t, "grocerize", cfg.Session.Name)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.MaxAge)

	assert.Equal(t, BadgerDB, cfg.Persistence.Driver)
	assert.Equal(t, "grocerize", cfg.Persistence.Name)
	assert.Equal(t, Path, cfg.Persistence.Host)

	assert.Equal(t, SMTP, cfg.Mail.Driver)
	assert.Equal(t, 587, cfg.Mail.SMTP.Port)
	assert.Equal(t, "/usr/sbin/sendmail", cfg.Mail.Sendmail.Path)

	assert.Equal(t, NATS, cfg.EventBus.Provider)
	assert.Equal(t, "groceries", cfg.EventBus.Subject)
}

func TestLoadConfigSecretOverrides(t *testing.T) {
	Path = writeConfig(t, "config.yaml", testConfig)
	t.Setenv("TEST_SESSION_SECRET", "from-yaml-env")
	t.Setenv("GROCERIZE_SESSION_SECRET", "from-envconfig")
	t.Setenv("GROCERIZE_SMTP_PASSWORD", "hunter2")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-envconfig", cfg.Session.Secret)
	assert.Equal(t, "hunter2", cfg.Mail.SMTP.Password)
}

func TestLoadConfigFallsBackToExample(t *testing.T) {
	Path = writeConfig(t, "config.example.yaml", testConfig)
	t.Setenv("TEST_SESSION_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "grocerize", cfg.Name)
}

func TestLoadConfigValidation(t *testing.T) {
	Path = writeConfig(t, "config.yaml", testConfig)
	t.Setenv("TEST_SESSION_SECRET", "")

	_, err := LoadConfig()
	assert.EqualError(t, err, "session secret is required")
}

func TestLoadConfigUnsupportedDriver(t *testing.T) {
	content := strings.Replace(testConfig, "driver: badger", "driver: postgres", 1)
	Path = writeConfig(t, "config.yaml", content)
	t.Setenv("TEST_SESSION_SECRET", "secret")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigDefaultsMissingBlocks(t *testing.T) {
	content := `
name: grocerize
mail:
  driver: log
  from: grocerizer@example.com
`
	Path = writeConfig(t, "config.yaml", content)
	t.Setenv("GROCERIZE_SESSION_SECRET", "s3cr3t")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "s3cr3t", cfg.Session.Secret)
	assert.Equal(t, "grocerize", cfg.Session.Name)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.MaxAge)

	assert.Equal(t, SQLite, cfg.Persistence.Driver)
	assert.Equal(t, "grocerize", cfg.Persistence.Name)
	assert.Equal(t, Path, cfg.Persistence.Host)

	assert.Equal(t, NoTransport, cfg.EventBus.Provider)
	assert.Equal(t, "groceries", cfg.EventBus.Subject)
}
