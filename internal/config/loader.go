// Package config provides configuration management for the rookscore services.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix         = "ROOKSCORE"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rookscore")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("store.driver", DriverFile)
	v.SetDefault("store.path", "data/localstorage.json")
	v.SetDefault("store.sqlite_path", "data/rookscore.db")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "rookscore")
	v.SetDefault("database.user", "rookscore")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 5)

	v.SetDefault("api.port", 8090)
	v.SetDefault("api.read_timeout_seconds", 5)
	v.SetDefault("api.write_timeout_seconds", 10)
	v.SetDefault("api.rate_limit_per_second", 20.0)
	v.SetDefault("api.rate_limit_burst", 40)
	v.SetDefault("api.metrics_path", "/metrics")

	v.SetDefault("health.port", 8091)

	v.SetDefault("cache.history_ttl_seconds", 60)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.statistics_refresh", "*/15 * * * *")
	v.SetDefault("scheduler.cache_warm_interval_seconds", 30)

	v.SetDefault("game.target_score", 500)

	v.SetDefault("client.server_url", "http://localhost:8090")
	v.SetDefault("client.timeout_seconds", 10)
	v.SetDefault("client.max_retries", 3)
	v.SetDefault("client.rate_limit", 10.0)
}
