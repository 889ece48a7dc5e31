package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to a documented env var.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Local store
	DataPath string `mapstructure:"DATA_PATH"` // SQLite database file

	// Remote sync (PostgREST endpoint)
	RemoteURL    string `mapstructure:"REMOTE_URL"`
	RemoteAPIKey string `mapstructure:"REMOTE_API_KEY"`

	// Scheduler
	SyncIntervalSeconds  int `mapstructure:"SYNC_INTERVAL_SECONDS"`  // periodic pull tick
	ProbeIntervalSeconds int `mapstructure:"PROBE_INTERVAL_SECONDS"` // connectivity probe

	// Exports
	ExportPath string `mapstructure:"EXPORT_PATH"`
}

// SyncInterval returns the periodic pull interval as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.SyncIntervalSeconds) * time.Second
}

// ProbeInterval returns the connectivity probe interval as a duration.
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// SyncEnabled reports whether a remote endpoint is configured. Without one the
// app runs purely local: mutations still queue, nothing drains the queue.
func (c *Config) SyncEnabled() bool {
	return c.RemoteURL != ""
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Sensible defaults for development
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("DATA_PATH", "ailogistic.db")
	viper.SetDefault("SYNC_INTERVAL_SECONDS", 300)
	viper.SetDefault("PROBE_INTERVAL_SECONDS", 30)
	viper.SetDefault("EXPORT_PATH", "/tmp/ailogistic/exports")

	// Optional .env file for local development — does not fail if missing
	_ = viper.ReadInConfig()

	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
