package config

import (
	"errors"
	"fmt"
	"time"

	"hireling/internal/custom_errors"
)

type Config struct {
	Instance      string        // Unique identifier for this instance (used as the lock owner)
	WorkerCount   int           // Number of concurrent worker goroutines per sweep
	SweepInterval time.Duration // How often due schedules are swept
	SweepTimeout  time.Duration // Deadline for a single sweep; must stay below LockTimeout
	LockTimeout   time.Duration // Age after which a held lock becomes stealable
	LogLevel      string        // zerolog level name (e.g. "info", "debug")

	PostgresConfig PostgresConfig
}

// PostgresConfig holds PostgreSQL connection settings.
type PostgresConfig struct {
	ConnectionUrl string
}

// Option type for functional options pattern
type Option func(*Config) error

// NewConfig creates a new instance of Config with default values.
// Only the 'Instance' name is required; other fields use predefined defaults.
func NewConfig(instance string, opts ...Option) (*Config, error) {
	cfg := &Config{
		Instance:      instance,
		WorkerCount:   DefaultWorkerCount,
		SweepInterval: DefaultSweepInterval,
		SweepTimeout:  DefaultSweepTimeout,
		LockTimeout:   DefaultLockTimeout,
		LogLevel:      DefaultLogLevel,
	}

	validationErrs := &custom_errors.ValidationError{}
	if instance == "" {
		validationErrs.Add(errors.New("instance name is required"))
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			validationErrs.Add(err)
		}
	}
	if cfg.SweepTimeout >= cfg.LockTimeout {
		validationErrs.Add(fmt.Errorf("sweep timeout %s must be shorter than lock timeout %s", cfg.SweepTimeout, cfg.LockTimeout))
	}

	if validationErrs.HasError() {
		return nil, validationErrs
	}
	return cfg, nil
}

func WithPostgresConfig(pg PostgresConfig) Option {
	return func(c *Config) error {
		if pg.ConnectionUrl == "" {
			return errors.New("postgres config: connection URL is required")
		}
		c.PostgresConfig = pg
		return nil
	}
}

func WithWorkerCount(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return errors.New("worker count must be positive")
		}
		c.WorkerCount = n
		return nil
	}
}

func WithSweepInterval(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return errors.New("sweep interval must be positive")
		}
		c.SweepInterval = d
		return nil
	}
}

func WithSweepTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return errors.New("sweep timeout must be positive")
		}
		c.SweepTimeout = d
		return nil
	}
}

func WithLockTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return errors.New("lock timeout must be positive")
		}
		c.LockTimeout = d
		return nil
	}
}

func WithLogLevel(level string) Option {
	return func(c *Config) error {
		if level == "" {
			return errors.New("log level must not be empty")
		}
		c.LogLevel = level
		return nil
	}
}
