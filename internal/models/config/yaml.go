package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the YAML layout. Durations are written as strings
// ("90s", "5m") and parsed explicitly so a typo fails loading instead of
// silently becoming zero.
type fileConfig struct {
	Instance      string `yaml:"instance"`
	WorkerCount   int    `yaml:"worker_count"`
	SweepInterval string `yaml:"sweep_interval"`
	SweepTimeout  string `yaml:"sweep_timeout"`
	LockTimeout   string `yaml:"lock_timeout"`
	LogLevel      string `yaml:"log_level"`

	Postgres struct {
		ConnectionUrl string `yaml:"connection_url"`
	} `yaml:"postgres"`
}

// Load reads a YAML config file and applies it over the defaults. Fields
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	var opts []Option
	if fc.WorkerCount != 0 {
		opts = append(opts, WithWorkerCount(fc.WorkerCount))
	}
	if fc.LogLevel != "" {
		opts = append(opts, WithLogLevel(fc.LogLevel))
	}
	if fc.Postgres.ConnectionUrl != "" {
		opts = append(opts, WithPostgresConfig(PostgresConfig{ConnectionUrl: fc.Postgres.ConnectionUrl}))
	}

	interval, err := parseDurationField("sweep_interval", fc.SweepInterval)
	if err != nil {
		return nil, err
	}
	if interval > 0 {
		opts = append(opts, WithSweepInterval(interval))
	}
	timeout, err := parseDurationField("sweep_timeout", fc.SweepTimeout)
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, WithSweepTimeout(timeout))
	}
	lockTimeout, err := parseDurationField("lock_timeout", fc.LockTimeout)
	if err != nil {
		return nil, err
	}
	if lockTimeout > 0 {
		opts = append(opts, WithLockTimeout(lockTimeout))
	}

	return NewConfig(fc.Instance, opts...)
}

func parseDurationField(path, raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", path, raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: duration must be >= 0", path)
	}
	return d, nil
}
