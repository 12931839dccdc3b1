package config

import (
	"log"
	"strings"
	"time"

	apperrors "github.com/axellelanca/adtracker/internal/errors"
	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Public base URL, used in CLI output
	} `mapstructure:"server"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Images configuration for the advertisement image directory
	Images struct {
		Dir         string `mapstructure:"dir"`           // Directory whose numeric file names are advertisement ids
		MaxUploadMB int64  `mapstructure:"max_upload_mb"` // Largest accepted image
	} `mapstructure:"images"`

	// Proof configuration for the readiness artifact
	Proof struct {
		Path string `mapstructure:"path"` // File that must exist before any mutating route is served
	} `mapstructure:"proof"`

	// Advert configuration for the ledger amounts
	Advert struct {
		StartingBudget float64 `mapstructure:"starting_budget"` // Budget assigned on publish
		ClickCost      float64 `mapstructure:"click_cost"`      // Amount debited per click
	} `mapstructure:"advert"`

	// Session configuration for login state
	Session struct {
		Driver     string `mapstructure:"driver"`      // "database" or "redis"
		TTLMinutes int    `mapstructure:"ttl_minutes"` // Session lifetime
		CookieName string `mapstructure:"cookie_name"` // Name of the session cookie
	} `mapstructure:"session"`

	// Redis configuration, only used when session.driver is "redis"
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`

	// Log configuration for the zap logger
	Log struct {
		Level      string `mapstructure:"level"`
		Filename   string `mapstructure:"filename"`
		MaxSize    int    `mapstructure:"max_size"`
		MaxBackups int    `mapstructure:"max_backups"`
		MaxAge     int    `mapstructure:"max_age"`
		Compress   bool   `mapstructure:"compress"`
	} `mapstructure:"log"`

	// Monitor configuration for the readiness monitor
	Monitor struct {
		IntervalSeconds int `mapstructure:"interval_seconds"` // 0 disables the monitor
	} `mapstructure:"monitor"`
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

// MaxUploadBytes returns the image upload limit in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return c.Images.MaxUploadMB << 20
}

// SetDefaults registers the default value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("database.name", "adtracker.db")
	v.SetDefault("images.dir", "static")
	v.SetDefault("images.max_upload_mb", 10)
	v.SetDefault("proof.path", "proofs/clKnownValues_proof.xml")
	v.SetDefault("advert.starting_budget", 10000.00)
	v.SetDefault("advert.click_cost", 10.0)
	v.SetDefault("session.driver", "database")
	v.SetDefault("session.ttl_minutes", 1440)
	v.SetDefault("session.cookie_name", "session")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.filename", "logs/adtracker.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
	v.SetDefault("log.compress", true)
	v.SetDefault("monitor.interval_seconds", 30)
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
func LoadConfig() (*Config, error) {
	return Load(viper.New(), "./configs")
}

// Load reads the configuration into v from configDir/config.yaml, the environment and defaults.
func Load(v *viper.Viper, configDir string) (*Config, error) {
	// e.g., "server.port" becomes "SERVER_PORT"
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.AddConfigPath(configDir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file not found, using default values")
		} else {
			return nil, apperrors.ErrConfigLoad{Path: configDir, Reason: err.Error()}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.ErrConfigLoad{Path: configDir, Reason: err.Error()}
	}

	return &cfg, nil
}
