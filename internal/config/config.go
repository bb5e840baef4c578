package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port string `yaml:"port" env:"SERVER_PORT"`
		Mode string `yaml:"mode" env:"SERVER_MODE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Redis backs the analytics cache. Disabled means no caching.
	Redis struct {
		Enabled   bool   `yaml:"enabled" env:"REDIS_ENABLED"`
		Addr      string `yaml:"addr" env:"REDIS_ADDR"`
		Password  string `yaml:"password" env:"REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"REDIS_DB"`
		KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX"`
	} `yaml:"redis"`

	Seed struct {
		AdminName     string `yaml:"admin_name" env:"SEED_ADMIN_NAME"`
		AdminEmail    string `yaml:"admin_email" env:"SEED_ADMIN_EMAIL"`
		AdminPassword string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
	} `yaml:"seed"`

	Analytics struct {
		CacheTTL         string  `yaml:"cache_ttl" env:"ANALYTICS_CACHE_TTL"`
		DefaultMonths    int     `yaml:"default_months" env:"ANALYTICS_DEFAULT_MONTHS"`
		DefaultReasons   int     `yaml:"default_reasons" env:"ANALYTICS_DEFAULT_REASONS"`
		AnomalyThreshold float64 `yaml:"anomaly_threshold" env:"ANALYTICS_ANOMALY_THRESHOLD"`
	} `yaml:"analytics"`

	// EnvOverrides lists the dotted keys set from the environment
	EnvOverrides []string `yaml:"-"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		// Parse YAML into Config structure
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	err := loadFromEnv(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate config
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	// Database defaults
	config.Database.Driver = "postgres"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "leavedesk"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.Issuer = "leavedesk"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	// Redis defaults
	config.Redis.Enabled = false
	config.Redis.Addr = "localhost:6379"
	config.Redis.KeyPrefix = "leavedesk:"

	// Seed defaults; an empty admin password skips the admin account
	config.Seed.AdminName = "Administrator"
	config.Seed.AdminEmail = "admin@campus.local"

	// Analytics defaults
	config.Analytics.CacheTTL = "5m"
	config.Analytics.DefaultMonths = 12
	config.Analytics.DefaultReasons = 10
	config.Analytics.AnomalyThreshold = 2.0
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	applied, err := applyEnvOverrides(config)
	if err != nil {
		return err
	}
	config.EnvOverrides = applied
	return nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	// Ensure required fields are set
	if config.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	// Validate JWT expiration formats
	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid database connection max lifetime format: %w", err)
	}

	if _, err := time.ParseDuration(config.Analytics.CacheTTL); err != nil {
		return fmt.Errorf("invalid analytics cache TTL format: %w", err)
	}

	if config.Analytics.AnomalyThreshold <= 0 {
		return fmt.Errorf("analytics anomaly threshold must be positive")
	}

	if config.Redis.Enabled && config.Redis.Addr == "" {
		return fmt.Errorf("redis address is required when redis is enabled")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
