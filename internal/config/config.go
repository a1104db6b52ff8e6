// Package config loads process configuration from an optional YAML file,
// an optional .env file and STOCKROOM_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"

	"stockroom/internal/infrastructure/storage"
)

// EnvPrefix prefixes every environment variable.
const EnvPrefix = "STOCKROOM"

// Config represents the full application configuration surface.
type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Log     LogConfig     `mapstructure:"log"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Store   StoreConfig   `mapstructure:"store"`
	Alerts  AlertsConfig  `mapstructure:"alerts"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// AppConfig holds process-wide settings.
type AppConfig struct {
	Env string `mapstructure:"env"`

	// Timezone renders transaction dates and evaluates the alert schedule
	Timezone string `mapstructure:"timezone"`
}

// LogConfig configures pkg/logger.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// HTTPConfig holds HTTP server related options.
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the persistence driver.
type StoreConfig struct {
	Driver        string `mapstructure:"driver"`
	Dir           string `mapstructure:"dir"`
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	MongoURI      string `mapstructure:"mongo_uri"`
	MongoDatabase string `mapstructure:"mongo_database"`
}

// AlertsConfig holds low-stock alert settings.
type AlertsConfig struct {
	Cron          string `mapstructure:"cron"`
	SendWhenEmpty bool   `mapstructure:"send_when_empty"`

	WebhookURL   string `mapstructure:"webhook_url"`
	WebhookToken string `mapstructure:"webhook_token"`

	TelegramToken  string `mapstructure:"telegram_token"`
	TelegramChatID int64  `mapstructure:"telegram_chat_id"`
}

// MetricsConfig toggles the /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

var defaults = map[string]any{
	"app.env":                 "development",
	"app.timezone":            "Local",
	"log.level":               "info",
	"http.addr":               ":8080",
	"http.read_timeout":       15 * time.Second,
	"http.write_timeout":      30 * time.Second,
	"http.shutdown_timeout":   10 * time.Second,
	"store.driver":            storage.DriverBadger,
	"store.dir":               "data",
	"store.postgres_dsn":      "",
	"store.mongo_uri":         "",
	"store.mongo_database":    "stockroom",
	"alerts.cron":             "0 8 * * *",
	"alerts.send_when_empty":  false,
	"alerts.webhook_url":      "",
	"alerts.webhook_token":    "",
	"alerts.telegram_token":   "",
	"alerts.telegram_chat_id": int64(0),
	"metrics.enabled":         true,
}

// Load reads configuration. envFile and configFile are both optional;
// missing files are not an error.
func Load(envFile, configFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
		}
	} else {
		// A missing .env is fine when the environment is set directly.
		_ = godotenv.Load()
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.HTTP.Addr == "" {
		return errors.New("STOCKROOM_HTTP_ADDR must not be empty")
	}

	switch c.Store.Driver {
	case storage.DriverMemory:
	case storage.DriverFile, storage.DriverBadger:
		if c.Store.Driver == storage.DriverFile && c.Store.Dir == "" {
			return errors.New("STOCKROOM_STORE_DIR must be provided for the file driver")
		}
	case storage.DriverPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("STOCKROOM_STORE_POSTGRES_DSN must be provided for the postgres driver")
		}
	case storage.DriverMongo:
		if c.Store.MongoURI == "" {
			return errors.New("STOCKROOM_STORE_MONGO_URI must be provided for the mongo driver")
		}
		if c.Store.MongoDatabase == "" {
			return errors.New("STOCKROOM_STORE_MONGO_DATABASE must not be empty")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.Store.Driver)
	}

	if _, err := c.Location(); err != nil {
		return fmt.Errorf("STOCKROOM_APP_TIMEZONE: %w", err)
	}
	if _, err := cron.ParseStandard(c.Alerts.Cron); err != nil {
		return fmt.Errorf("STOCKROOM_ALERTS_CRON: %w", err)
	}
	if c.Alerts.TelegramToken != "" && c.Alerts.TelegramChatID == 0 {
		return errors.New("STOCKROOM_ALERTS_TELEGRAM_CHAT_ID must be provided with a telegram token")
	}
	return nil
}

// IsDevelopment reports whether the development logger should be used.
func (c *Config) IsDevelopment() bool { return c.App.Env == "development" }

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.App.Timezone == "" || c.App.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.App.Timezone)
}

// StorageConfig converts the store section for storage.Open.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Driver:        c.Store.Driver,
		Dir:           c.Store.Dir,
		PostgresDSN:   c.Store.PostgresDSN,
		MongoURI:      c.Store.MongoURI,
		MongoDatabase: c.Store.MongoDatabase,
	}
}
