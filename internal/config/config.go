package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPHost          = "0.0.0.0"
	defaultHTTPPort          = 10000
	defaultQueueCapacity     = 200
	defaultNotifyTimeoutSecs = 15
	defaultTelegramBaseURL   = "https://api.telegram.org"
	defaultLogLevel          = "info"
	defaultSimulateInterval  = 30
)

// Config keeps the runtime configuration for the bridge.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Secret   string         `yaml:"secret"`
	Telegram TelegramConfig `yaml:"telegram"`
	Queue    QueueConfig    `yaml:"queue"`
	Log      LogConfig      `yaml:"log"`
	Simulate SimulateConfig `yaml:"simulate"`
}

// HTTPConfig holds HTTP server related settings.
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr renders the listen address in host:port form.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// TelegramConfig holds bot credentials and the approver chat.
type TelegramConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	ChatID         string `yaml:"chat_id"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the delivery timeout as a duration.
func (t TelegramConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// QueueConfig stores queue bound and ingestion policy.
type QueueConfig struct {
	Capacity         int  `yaml:"capacity"`
	StrictOrderTypes bool `yaml:"strict_order_types"`
}

// LogConfig stores logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// SimulateConfig enables the built-in signal generator.
type SimulateConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalSeconds int  `yaml:"interval_seconds"`
}

// Interval returns the generator period as a duration.
func (s SimulateConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		HTTP: HTTPConfig{Host: defaultHTTPHost, Port: defaultHTTPPort},
		Telegram: TelegramConfig{
			BaseURL:        defaultTelegramBaseURL,
			TimeoutSeconds: defaultNotifyTimeoutSecs,
		},
		Queue:    QueueConfig{Capacity: defaultQueueCapacity, StrictOrderTypes: true},
		Log:      LogConfig{Level: defaultLogLevel},
		Simulate: SimulateConfig{IntervalSeconds: defaultSimulateInterval},
	}
}

// Load builds Config from defaults, an optional YAML file named by
// CONFIG_FILE, and environment variables, in increasing precedence.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if path := getString("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be repaired with a default.
func (c *Config) Validate() error {
	if c.Queue.Capacity < 1 {
		return fmt.Errorf("queue capacity must be at least 1, got %d", c.Queue.Capacity)
	}
	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.HTTP.Port)
	}
	if c.Telegram.TimeoutSeconds < 1 {
		return errors.New("notify timeout must be at least 1 second")
	}
	if c.Simulate.Enabled && c.Simulate.IntervalSeconds < 1 {
		return errors.New("simulate interval must be at least 1 second")
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return fmt.Errorf("decode yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	var err error

	cfg.HTTP.Host = getString("HOST", cfg.HTTP.Host)
	if cfg.HTTP.Port, err = getInt("PORT", cfg.HTTP.Port); err != nil {
		return fmt.Errorf("parse PORT: %w", err)
	}

	cfg.Secret = getString("SECRET", cfg.Secret)

	// TG_TOKEN is the older name and only used when TG_BOT_TOKEN is unset.
	cfg.Telegram.Token = getString("TG_BOT_TOKEN", getString("TG_TOKEN", cfg.Telegram.Token))
	cfg.Telegram.ChatID = getString("TG_CHAT_ID", cfg.Telegram.ChatID)
	cfg.Telegram.BaseURL = getString("TG_API_BASE", cfg.Telegram.BaseURL)
	if cfg.Telegram.TimeoutSeconds, err = getInt("NOTIFY_TIMEOUT_SECONDS", cfg.Telegram.TimeoutSeconds); err != nil {
		return fmt.Errorf("parse NOTIFY_TIMEOUT_SECONDS: %w", err)
	}

	if cfg.Queue.Capacity, err = getInt("QUEUE_CAPACITY", cfg.Queue.Capacity); err != nil {
		return fmt.Errorf("parse QUEUE_CAPACITY: %w", err)
	}
	if cfg.Queue.StrictOrderTypes, err = getBool("STRICT_ORDER_TYPES", cfg.Queue.StrictOrderTypes); err != nil {
		return fmt.Errorf("parse STRICT_ORDER_TYPES: %w", err)
	}

	cfg.Log.Level = getString("LOG_LEVEL", cfg.Log.Level)

	if cfg.Simulate.Enabled, err = getBool("SIMULATE_SIGNALS", cfg.Simulate.Enabled); err != nil {
		return fmt.Errorf("parse SIMULATE_SIGNALS: %w", err)
	}
	if cfg.Simulate.IntervalSeconds, err = getInt("SIMULATE_INTERVAL_SECONDS", cfg.Simulate.IntervalSeconds); err != nil {
		return fmt.Errorf("parse SIMULATE_INTERVAL_SECONDS: %w", err)
	}
	return nil
}

func getString(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getInt(key string, fallback int) (int, error) {
	value := getString(key, "")
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("convert %s value %q to int: %w", key, value, err)
	}
	return parsed, nil
}

func getBool(key string, fallback bool) (bool, error) {
	value := getString(key, "")
	if value == "" {
		return fallback, nil
	}

	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("convert %s value %q to bool: %w", key, value, err)
	}
	return parsed, nil
}
