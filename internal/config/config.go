package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Log       LogConfig       `yaml:"log"`
	Rental    RentalConfig    `yaml:"rental"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains actor token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// RentalConfig contains the business constants of the rental lifecycle
type RentalConfig struct {
	// CommissionRate is the platform's share of each completed rental.
	CommissionRate string `yaml:"commission_rate"`
	// DepositRate is the fraction of a car's commercial value held as deposit.
	DepositRate string `yaml:"deposit_rate"`
	// BookingGraceMinutes is how far in the past a start time may lie.
	BookingGraceMinutes int `yaml:"booking_grace_minutes"`
	// PlatformTaxNumber identifies the platform operator's company. The
	// operator must provision that company and its wallet before any rental
	// can complete.
	PlatformTaxNumber string `yaml:"platform_tax_number"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ReconcileCarStatus   string `yaml:"reconcile_car_status"`
	ReportOverdueRentals string `yaml:"report_overdue_rentals"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Rental
	if val := os.Getenv("PLATFORM_TAX_NUMBER"); val != "" {
		c.Rental.PlatformTaxNumber = val
	}
	if val := os.Getenv("COMMISSION_RATE"); val != "" {
		c.Rental.CommissionRate = val
	}

	// Defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	// Rental defaults
	if c.Rental.CommissionRate == "" {
		c.Rental.CommissionRate = "0.10"
	}
	if c.Rental.DepositRate == "" {
		c.Rental.DepositRate = "0.10"
	}
	if c.Rental.BookingGraceMinutes <= 0 {
		c.Rental.BookingGraceMinutes = 5
	}
	if c.Rental.PlatformTaxNumber == "" {
		return fmt.Errorf("platform tax number is required")
	}
	if _, err := decimal.NewFromString(c.Rental.CommissionRate); err != nil {
		return fmt.Errorf("invalid commission rate %q: %w", c.Rental.CommissionRate, err)
	}
	if _, err := decimal.NewFromString(c.Rental.DepositRate); err != nil {
		return fmt.Errorf("invalid deposit rate %q: %w", c.Rental.DepositRate, err)
	}

	// Scheduler defaults
	if c.Scheduler.ReconcileCarStatus == "" {
		c.Scheduler.ReconcileCarStatus = "0 */30 * * * *" // every 30 minutes
	}
	if c.Scheduler.ReportOverdueRentals == "" {
		c.Scheduler.ReportOverdueRentals = "0 0 */6 * * *" // every 6 hours
	}

	return nil
}

// CommissionRate returns the parsed commission rate. Validate must have
// accepted the configuration first.
func (c *Config) CommissionRate() decimal.Decimal {
	return decimal.RequireFromString(c.Rental.CommissionRate)
}

// DepositRate returns the parsed deposit rate.
func (c *Config) DepositRate() decimal.Decimal {
	return decimal.RequireFromString(c.Rental.DepositRate)
}

// BookingGrace returns the booking grace window as a duration.
func (c *Config) BookingGrace() time.Duration {
	return time.Duration(c.Rental.BookingGraceMinutes) * time.Minute
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
