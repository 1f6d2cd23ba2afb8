// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure.
type Config struct {
	Pool    PoolConfig    `yaml:"pool"`
	Output  OutputConfig  `yaml:"output"`
	Resolve ResolveConfig `yaml:"resolve"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// PoolConfig locates the pool and bounds parsing concurrency.
type PoolConfig struct {
	Path    string `yaml:"path"`
	Workers int    `yaml:"workers"`
}

// OutputConfig configures where the resolved pool is written.
type OutputConfig struct {
	Path   string `yaml:"path"`   // "-" for stdout
	Format string `yaml:"format"` // "json" or "yaml"
}

// ResolveConfig toggles the stages of the pass.
type ResolveConfig struct {
	FillDefaults     *bool `yaml:"fill_defaults"`
	SolveInheritance *bool `yaml:"solve_inheritance"`
	Strict           bool  `yaml:"strict"` // fail when any base reference is unusable
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyEnvOverrides(&cfg)
	setDefaults(&cfg)
	return &cfg
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// FillDefaults reports whether default filling is enabled.
func (c *Config) FillDefaults() bool {
	return c.Resolve.FillDefaults == nil || *c.Resolve.FillDefaults
}

// SolveInheritance reports whether inheritance resolution is enabled.
func (c *Config) SolveInheritance() bool {
	return c.Resolve.SolveInheritance == nil || *c.Resolve.SolveInheritance
}

// applyEnvOverrides applies HORIZON_POOL_* environment variables to the config.
//
//	HORIZON_POOL_PATH       - pool root directory
//	HORIZON_POOL_WORKERS    - parser goroutines
//	HORIZON_POOL_OUTPUT     - output path ("-" for stdout)
//	HORIZON_POOL_FORMAT     - output format: json or yaml
//	HORIZON_POOL_STRICT     - fail on base reference diagnostics
//	HORIZON_POOL_LOG_LEVEL  - debug, info, warn, error
//	HORIZON_POOL_LOG_FORMAT - json or console
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HORIZON_POOL_PATH"); v != "" {
		cfg.Pool.Path = v
	}
	if v := os.Getenv("HORIZON_POOL_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Pool.Workers = n
		}
	}
	if v := os.Getenv("HORIZON_POOL_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("HORIZON_POOL_FORMAT"); v != "" {
		cfg.Output.Format = v
	}
	if v := os.Getenv("HORIZON_POOL_STRICT"); v != "" {
		cfg.Resolve.Strict = parseBool(v)
	}
	if v := os.Getenv("HORIZON_POOL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("HORIZON_POOL_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// parseBool parses a boolean from common string values.
func parseBool(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

func setDefaults(cfg *Config) {
	if cfg.Pool.Path == "" {
		cfg.Pool.Path = "."
	}
	if cfg.Pool.Workers <= 0 {
		cfg.Pool.Workers = 4
	}
	if cfg.Output.Path == "" {
		cfg.Output.Path = "-"
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "json"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 250 * time.Millisecond
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
}

// Validate checks enumerated values and ranges.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "json", "yaml":
	default:
		return fmt.Errorf("output.format must be json or yaml, got %q", c.Output.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative")
	}
	return nil
}
