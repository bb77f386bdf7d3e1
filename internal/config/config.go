package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"GasSentinel/internal/model"
)

// DefaultPath is the config file read when neither -config nor CONFIG_PATH is set.
const DefaultPath = "configs/config.yaml"

// Config holds all application configuration.
type Config struct {
	Oracle struct {
		Provider       string `yaml:"provider"`
		BaseURL        string `yaml:"base_url"`
		APIKey         string `yaml:"api_key"`
		ChainID        int64  `yaml:"chain_id"`
		RPCURL         string `yaml:"rpc_url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"oracle"`
	Monitor struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		HistoryLimit    int `yaml:"history_limit"`
	} `yaml:"monitor"`
	Thresholds    model.Thresholds `yaml:"thresholds"`
	Notifications struct {
		Enabled   bool  `yaml:"enabled"`
		Threshold int64 `yaml:"threshold"`
	} `yaml:"notifications"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Key      string `yaml:"key"`
	} `yaml:"redis"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	TimeZone string `yaml:"time_zone"`
	Proxy    string `yaml:"proxy"`
}

// Providers accepted in oracle.provider.
const (
	ProviderEtherscan = "etherscan"
	ProviderNode      = "node"
	ProviderMock      = "mock"
)

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped and variables already set win.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	setString(&cfg.Oracle.APIKey, "ETHERSCAN_API_KEY")
	setString(&cfg.Oracle.Provider, "GAS_ORACLE_PROVIDER")
	setString(&cfg.Oracle.RPCURL, "ETH_RPC_URL")
	setString(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setString(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setString(&cfg.Database.SQLitePath, "SQLITE_PATH")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.File, "LOG_FILE")
	setString(&cfg.HTTP.Addr, "HTTP_ADDR")
	setString(&cfg.Proxy, "HTTPS_PROXY")
	setString(&cfg.TimeZone, "TIME_ZONE")
	if err := setInt(&cfg.Monitor.IntervalMinutes, "MONITORING_INTERVAL"); err != nil {
		return nil, err
	}
	if err := setInt(&cfg.Monitor.HistoryLimit, "HISTORY_LIMIT"); err != nil {
		return nil, err
	}
	if v := os.Getenv("NOTIFY_THRESHOLD"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("NOTIFY_THRESHOLD: %w", err)
		}
		cfg.Notifications.Threshold = n
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Oracle.Provider == "" {
		c.Oracle.Provider = ProviderEtherscan
	}
	if c.Oracle.TimeoutSeconds == 0 {
		c.Oracle.TimeoutSeconds = 30
	}
	if c.Monitor.IntervalMinutes == 0 {
		c.Monitor.IntervalMinutes = 5
	}
	if c.Monitor.HistoryLimit == 0 {
		c.Monitor.HistoryLimit = 288
	}
	if c.Thresholds == (model.Thresholds{}) {
		c.Thresholds = model.Thresholds{Low: 20, Medium: 50, High: 100}
	}
	if c.Notifications.Threshold == 0 {
		c.Notifications.Threshold = 25
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/gas_sentinel.db"
	}
	if c.Redis.Key == "" {
		c.Redis.Key = "gas"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "exports"
	}
	if c.TimeZone == "" {
		c.TimeZone = "UTC"
	}
}

// Validate checks that all required fields are set and consistent.
func (c *Config) Validate() error {
	if c.Monitor.IntervalMinutes <= 0 {
		return fmt.Errorf("monitor.interval_minutes must be positive")
	}
	if c.Monitor.HistoryLimit <= 0 {
		return fmt.Errorf("monitor.history_limit must be positive")
	}
	switch c.Oracle.Provider {
	case ProviderEtherscan, ProviderMock:
	case ProviderNode:
		if c.Oracle.RPCURL == "" {
			return fmt.Errorf("oracle.rpc_url is required for the node provider")
		}
	default:
		return fmt.Errorf("unknown oracle.provider %q", c.Oracle.Provider)
	}
	if c.Notifications.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when notifications are enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when notifications are enabled")
		}
	}
	t := c.Thresholds
	if t.Low <= 0 || t.Low > t.Medium || t.Medium > t.High {
		return fmt.Errorf("thresholds must satisfy 0 < low <= medium <= high")
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves TimeZone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// OracleTimeout is the HTTP timeout for oracle requests.
func (c *Config) OracleTimeout() time.Duration {
	return time.Duration(c.Oracle.TimeoutSeconds) * time.Second
}

// TelegramEnabled reports whether both Telegram credentials are present.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}
