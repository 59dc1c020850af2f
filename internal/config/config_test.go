package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"CONFIG_FILE", "HOST", "PORT", "SECRET", "TG_BOT_TOKEN", "TG_TOKEN", "TG_CHAT_ID",
	"TG_API_BASE", "NOTIFY_TIMEOUT_SECONDS", "QUEUE_CAPACITY", "STRICT_ORDER_TYPES",
	"LOG_LEVEL", "SIMULATE_SIGNALS", "SIMULATE_INTERVAL_SECONDS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:10000", cfg.HTTP.Addr())
	assert.Equal(t, 200, cfg.Queue.Capacity)
	assert.True(t, cfg.Queue.StrictOrderTypes)
	assert.Equal(t, 15*time.Second, cfg.Telegram.Timeout())
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Secret)
	assert.False(t, cfg.Simulate.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Simulate.Interval())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET", "  hunter2 ")
	t.Setenv("PORT", "8081")
	t.Setenv("TG_BOT_TOKEN", "bot-token")
	t.Setenv("TG_CHAT_ID", "12345")
	t.Setenv("QUEUE_CAPACITY", "2")
	t.Setenv("STRICT_ORDER_TYPES", "false")
	t.Setenv("NOTIFY_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hunter2", cfg.Secret)
	assert.Equal(t, 8081, cfg.HTTP.Port)
	assert.Equal(t, "bot-token", cfg.Telegram.Token)
	assert.Equal(t, "12345", cfg.Telegram.ChatID)
	assert.Equal(t, 2, cfg.Queue.Capacity)
	assert.False(t, cfg.Queue.StrictOrderTypes)
	assert.Equal(t, 3*time.Second, cfg.Telegram.Timeout())
}

func TestLoadTokenFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("TG_TOKEN", "legacy")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy", cfg.Telegram.Token)

	t.Setenv("TG_BOT_TOKEN", "preferred")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "preferred", cfg.Telegram.Token)
}

func TestLoadFileWithEnvOverride(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bridge.yaml")
	content := []byte(`
http:
  port: 9000
secret: from-file
telegram:
  chat_id: "555"
queue:
  capacity: 50
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("QUEUE_CAPACITY", "75")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, "from-file", cfg.Secret)
	assert.Equal(t, "555", cfg.Telegram.ChatID)
	assert.Equal(t, 75, cfg.Queue.Capacity)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Queue.StrictOrderTypes)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "bad port", key: "PORT", val: "abc"},
		{name: "port out of range", key: "PORT", val: "70000"},
		{name: "bad capacity", key: "QUEUE_CAPACITY", val: "many"},
		{name: "zero capacity", key: "QUEUE_CAPACITY", val: "0"},
		{name: "bad bool", key: "STRICT_ORDER_TYPES", val: "perhaps"},
		{name: "zero timeout", key: "NOTIFY_TIMEOUT_SECONDS", val: "0"},
		{name: "missing file", key: "CONFIG_FILE", val: "/does/not/exist.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
