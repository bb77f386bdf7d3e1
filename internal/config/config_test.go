package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GasSentinel/internal/model"
)

var envKeys = []string{
	"ETHERSCAN_API_KEY", "GAS_ORACLE_PROVIDER", "ETH_RPC_URL", "MONITORING_INTERVAL",
	"HISTORY_LIMIT", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "SQLITE_PATH", "REDIS_ADDR",
	"LOG_LEVEL", "LOG_FILE", "HTTP_ADDR", "HTTPS_PROXY", "NOTIFY_THRESHOLD", "TIME_ZONE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ProviderEtherscan, cfg.Oracle.Provider)
	assert.Equal(t, 5, cfg.Monitor.IntervalMinutes)
	assert.Equal(t, 288, cfg.Monitor.HistoryLimit)
	assert.Equal(t, model.Thresholds{Low: 20, Medium: 50, High: 100}, cfg.Thresholds)
	assert.False(t, cfg.Notifications.Enabled)
	assert.Equal(t, int64(25), cfg.Notifications.Threshold)
	assert.Equal(t, "UTC", cfg.TimeZone)
	assert.Equal(t, "exports", cfg.Export.Dir)
	assert.Equal(t, "gas", cfg.Redis.Key)
	assert.Equal(t, "data/gas_sentinel.db", cfg.Database.SQLitePath)
	assert.Equal(t, 30, cfg.Oracle.TimeoutSeconds)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAMLAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "config.yaml", `
oracle:
  provider: node
  rpc_url: http://localhost:8545
monitor:
  interval_minutes: 10
  history_limit: 100
thresholds:
  low: 10
  medium: 30
  high: 60
notifications:
  enabled: true
  threshold: 15
telegram:
  bot_token: yaml-token
  chat_id: "123"
time_zone: Europe/Paris
`)
	t.Setenv("MONITORING_INTERVAL", "2")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")
	t.Setenv("NOTIFY_THRESHOLD", "18")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderNode, cfg.Oracle.Provider)
	assert.Equal(t, 2, cfg.Monitor.IntervalMinutes)
	assert.Equal(t, 100, cfg.Monitor.HistoryLimit)
	assert.Equal(t, model.Thresholds{Low: 10, Medium: 30, High: 60}, cfg.Thresholds)
	assert.Equal(t, "env-token", cfg.Telegram.BotToken)
	assert.Equal(t, "123", cfg.Telegram.ChatID)
	assert.Equal(t, int64(18), cfg.Notifications.Threshold)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Load(writeFile(t, "bad.yaml", "monitor: [unclosed"))
	assert.Error(t, err)

	t.Setenv("HISTORY_LIMIT", "lots")
	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "HISTORY_LIMIT")
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"negative interval", func(c *Config) { c.Monitor.IntervalMinutes = -1 }, "interval_minutes"},
		{"negative limit", func(c *Config) { c.Monitor.HistoryLimit = -1 }, "history_limit"},
		{"unknown provider", func(c *Config) { c.Oracle.Provider = "blocknative" }, "unknown oracle.provider"},
		{"node without rpc", func(c *Config) { c.Oracle.Provider = ProviderNode }, "rpc_url"},
		{"notifications without token", func(c *Config) { c.Notifications.Enabled = true }, "bot_token"},
		{"unordered thresholds", func(c *Config) { c.Thresholds.Medium = 200 }, "thresholds"},
		{"bad time zone", func(c *Config) { c.TimeZone = "Mars/Olympus" }, "time_zone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.errMsg)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, ".env", "ETHERSCAN_API_KEY=from-dotenv\nLOG_LEVEL=debug\n")
	t.Setenv("LOG_LEVEL", "warn")
	// godotenv never overrides variables that are already set; unset the
	// cleared key so the file can provide it.
	os.Unsetenv("ETHERSCAN_API_KEY")

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"), path))
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Oracle.APIKey)
	assert.Equal(t, "warn", cfg.Log.Level)
}
