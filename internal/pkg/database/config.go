package database

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Config defines the database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string // disable, require, verify-ca, verify-full

	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	LogLevel      string // silent, error, warn, info
	SlowThreshold time.Duration
	AutoMigrate   bool
}

// DefaultConfig returns the default database configuration
func DefaultConfig() *Config {
	return &Config{
		Host:    "localhost",
		Port:    5432,
		User:    "mindex",
		DBName:  "mindex",
		SSLMode: "disable",

		MaxIdleConns:    5,
		MaxOpenConns:    20,
		ConnMaxLifetime: time.Hour,

		LogLevel:      "warn",
		SlowThreshold: 200 * time.Millisecond,
		AutoMigrate:   true,
	}
}

var (
	validSSLModes  = []string{"disable", "require", "verify-ca", "verify-full"}
	validLogLevels = []string{"silent", "error", "warn", "info"}
)

// Validate validates the database configuration
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("database host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("database port must be between 1 and 65535")
	}
	if c.User == "" {
		return errors.New("database user is required")
	}
	if c.DBName == "" {
		return errors.New("database name is required")
	}
	if !slices.Contains(validSSLModes, c.SSLMode) {
		return errors.New("invalid SSL mode, must be one of: disable, require, verify-ca, verify-full")
	}
	if c.LogLevel != "" && !slices.Contains(validLogLevels, c.LogLevel) {
		return errors.New("invalid log level, must be one of: silent, error, warn, info")
	}
	if c.MaxIdleConns < 0 || c.MaxOpenConns < 0 {
		return errors.New("connection pool sizes must be >= 0")
	}
	if c.MaxIdleConns > c.MaxOpenConns && c.MaxOpenConns > 0 {
		return errors.New("max idle connections cannot exceed max open connections")
	}
	return nil
}

// DSN returns the PostgreSQL connection DSN
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
