package redis

import (
	"fmt"
	"time"
)

// Config single-node Redis configuration
type Config struct {
	Addr     string
	Username string
	Password string
	DB       int

	PoolSize     int
	MinIdleConns int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// key prefix applied by the JSON helpers
	KeyPrefix string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Addr:         "localhost:6379",
		PoolSize:     20,
		MinIdleConns: 2,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "unified-search:",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr is required", ErrInvalidConfig)
	}
	if c.DB < 0 {
		return fmt.Errorf("%w: db must be >= 0", ErrInvalidConfig)
	}
	if c.PoolSize < 0 {
		return fmt.Errorf("%w: pool size must be >= 0", ErrInvalidConfig)
	}
	return nil
}
