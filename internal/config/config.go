// Package config provides configuration management for the rookscore services.
package config

import (
	"fmt"
	"time"
)

// Store drivers
const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Store     StoreConfig     `mapstructure:"store" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Health    HealthConfig    `mapstructure:"health" validate:"required"`
	Cache     CacheConfig     `mapstructure:"cache" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Game      GameConfig      `mapstructure:"game" validate:"required"`
	Client    ClientConfig    `mapstructure:"client"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StoreConfig selects and locates the snapshot store
type StoreConfig struct {
	Driver     string `mapstructure:"driver" validate:"required,storedriver"`
	Path       string `mapstructure:"path"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Port                int     `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int     `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds int     `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	RateLimitPerSecond  float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	RateLimitBurst      int     `mapstructure:"rate_limit_burst" validate:"required,gt=0"`
	MetricsPath         string  `mapstructure:"metrics_path" validate:"required,startswith=/"`
}

// HealthConfig represents the health check server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// CacheConfig represents the history cache configuration
type CacheConfig struct {
	HistoryTTLSeconds int `mapstructure:"history_ttl_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents periodic job configuration
type SchedulerConfig struct {
	Enabled                  bool   `mapstructure:"enabled"`
	StatisticsRefresh        string `mapstructure:"statistics_refresh" validate:"omitempty,cronspec"`
	CacheWarmIntervalSeconds int    `mapstructure:"cache_warm_interval_seconds" validate:"omitempty,gt=0"`
}

// GameConfig represents Rook scoring rules the insights depend on
type GameConfig struct {
	TargetScore int `mapstructure:"target_score" validate:"required,gt=0"`
}

// ClientConfig represents the API client configuration used by the CLI
type ClientConfig struct {
	ServerURL      string  `mapstructure:"server_url" validate:"omitempty,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// HistoryTTL returns the history cache TTL
func (c *Config) HistoryTTL() time.Duration {
	return time.Duration(c.Cache.HistoryTTLSeconds) * time.Second
}
