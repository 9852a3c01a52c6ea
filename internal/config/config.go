// Package config loads tool-level stubdoc configuration.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the stubdoc tool configuration. Per-package
// settings (module name, stub files) live in the project manifest;
// this covers everything that belongs to the tool installation.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// SnapshotDB is the path to the docstring snapshot database
	SnapshotDB string `json:"snapshotDb" mapstructure:"snapshotDb"`

	// Workers bounds parallel stub merges in batch runs
	Workers int `json:"workers" mapstructure:"workers"`

	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:    1,
		SnapshotDB: filepath.Join(".stubdoc", "snapshots.db"),
		Workers:    4,
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig reads config from root/.stubdoc/config.json, falling back
// to defaults when no file exists. STUBDOC_* environment variables
// override file values.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("version", defaults.Version)
	v.SetDefault("snapshotDb", defaults.SnapshotDB)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.level", defaults.Logging.Level)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".stubdoc"))
	v.SetEnvPrefix("STUBDOC")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.Logging.Format {
	case "json", "human":
	default:
		return fmt.Errorf("unknown logging format %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}
	return nil
}
