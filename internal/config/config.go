// Package config provides configuration management for the optimizer.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"

	"strategy-optimizer/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Portfolio PortfolioConfig `mapstructure:"portfolio"`
	Search    SearchConfig    `mapstructure:"search"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// PortfolioConfig locates the portfolio file and its market data.
type PortfolioConfig struct {
	Path    string `mapstructure:"path"`     // CSV or JSON portfolio file
	DataDir string `mapstructure:"data_dir"` // directory of per-ticker candle CSVs
}

// SearchConfig holds the combinatorial search parameters.
type SearchConfig struct {
	MinSize       int  `mapstructure:"min_size"`       // minimum candidate size, default 3
	MaxSize       int  `mapstructure:"max_size"`       // 0 means exact min_size, no sweep
	MaxCandidates int  `mapstructure:"max_candidates"` // 0 means unbounded
	Horizon       *int `mapstructure:"horizon"`        // evaluation horizon in bars; nil means default
}

// OutputConfig holds report output settings.
type OutputConfig struct {
	Dir string `mapstructure:"dir"` // root under which json/concurrency/optimization lives
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	File       bool   `mapstructure:"file"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/strategy-optimizer"
	}
	return filepath.Join(home, ".config", "strategy-optimizer")
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Search: SearchConfig{
			MinSize: 3,
		},
		Output: OutputConfig{
			Dir: ".",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Console:    true,
			File:       false,
			MaxSize:    100,
			MaxBackups: 7,
			MaxAge:     30,
		},
	}
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file is not an
// error: defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies OPTIMIZER_* environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OPTIMIZER_PORTFOLIO"); v != "" {
		cfg.Portfolio.Path = v
	}
	if v := os.Getenv("OPTIMIZER_DATA_DIR"); v != "" {
		cfg.Portfolio.DataDir = v
	}
	if v := os.Getenv("OPTIMIZER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv("OPTIMIZER_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OPTIMIZER_MIN_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Search.MinSize = n
		}
	}
}

// Validate checks the configuration for internal consistency. Search size
// bounds are validated by the combination generator, not here: the generator
// owns those semantics.
func (c *Config) Validate() error {
	if c.Search.MaxCandidates < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "max_candidates must not be negative, got %d", c.Search.MaxCandidates)
	}
	if c.Search.MaxSize < 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "max_size must not be negative, got %d", c.Search.MaxSize)
	}
	if c.Search.Horizon != nil && *c.Search.Horizon < 1 {
		return errors.Wrapf(errors.ErrConfigInvalid, "horizon must be at least 1, got %d", *c.Search.Horizon)
	}
	if c.Output.Dir == "" {
		return errors.Wrap(errors.ErrConfigInvalid, "output dir must not be empty")
	}
	return nil
}

// PortfolioStem returns the portfolio file name without directory or
// extension, used to name the persisted report.
func (c *Config) PortfolioStem() string {
	if c.Portfolio.Path == "" {
		return "portfolio"
	}
	base := filepath.Base(c.Portfolio.Path)
	return base[:len(base)-len(filepath.Ext(base))]
}
