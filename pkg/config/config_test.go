package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, env, body string) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, env+".yaml"), []byte(body), 0o600))
	return dir
}

func TestLoadFrom_File(t *testing.T) {
	dir := writeConfig(t, "staging", `
bot:
  token: "123:abc"
  poll_timeout: 30s
admin:
  handle: "@Alice"
store:
  backend: redis
  redis:
    addr: "redis:6379"
    pool_size: 20
logger:
  level: debug
  format: text
`)

	cfg, v, err := LoadFrom(dir, "staging")
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "staging", cfg.AppEnv)
	assert.Equal(t, "123:abc", cfg.Bot.Token)
	assert.Equal(t, "polling", cfg.Bot.Mode)
	assert.Equal(t, 30*time.Second, cfg.Bot.PollTimeout)
	assert.Equal(t, "ru", cfg.Bot.Language)
	assert.Equal(t, 10*time.Minute, cfg.Bot.DedupTTL)
	assert.Equal(t, "@Alice", cfg.Admin.Handle)
	assert.Equal(t, "redis", cfg.Store.Backend)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, 20, cfg.Store.Redis.PoolSize)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "text", cfg.Logger.Format)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadFrom_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")
	t.Setenv("ADMIN_HANDLE", "Bob")
	t.Setenv("STORE_BACKEND", "memory")

	cfg, _, err := LoadFrom(t.TempDir(), "production")
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.Bot.Token)
	assert.Equal(t, "Bob", cfg.Admin.Handle)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.False(t, cfg.Moderation.ExpelUnverified)
}

func TestLoadFrom_Validation(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{
			name: "missing token",
			body: "admin:\n  handle: \"@Alice\"\n",
		},
		{
			name: "unknown backend",
			body: "bot:\n  token: t\nstore:\n  backend: sqlite\n",
		},
		{
			name: "webhook without listen address",
			body: "bot:\n  token: t\n  mode: webhook\n",
		},
		{
			name: "sentry without dsn",
			body: "bot:\n  token: t\nsentry:\n  enabled: true\n",
		},
		{
			name: "bad log level",
			body: "bot:\n  token: t\nlogger:\n  level: trace\n",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "")
			dir := writeConfig(t, "test", tc.body)

			_, _, err := LoadFrom(dir, "test")
			assert.Error(t, err)
		})
	}
}

func TestWatch_WithoutFile(t *testing.T) {
	t.Setenv("BOT_TOKEN", "env-token")

	_, v, err := LoadFrom(t.TempDir(), "test")
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	assert.False(t, Watch(v, log, func(*Config) {}))
	assert.False(t, Watch(nil, log, func(*Config) {}))
}
