// Package config provides configuration management for the journal client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	errs "gapjournal/internal/errors"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds backend connection configuration.
type ServerConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the per-request timeout.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// UIConfig holds view-related configuration.
type UIConfig struct {
	ColorEnabled      bool    `mapstructure:"color_enabled"`
	DateFormat        string  `mapstructure:"date_format"`
	DefaultMinGap     float64 `mapstructure:"default_min_gap"`
	DefaultPeriodDays int     `mapstructure:"default_period_days"`
	DebounceMillis    int     `mapstructure:"debounce_ms"`
}

// Debounce returns the filter-input debounce interval.
func (u UIConfig) Debounce() time.Duration {
	return time.Duration(u.DebounceMillis) * time.Millisecond
}

// LoggingConfig holds log output configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/gapjournal"
	}
	return filepath.Join(home, ".config", "gapjournal")
}

// Load loads configuration from the specified directory. If configDir is
// empty, uses the default config directory. A missing config file is not an
// error: a template is written and defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if terr := createTemplateConfig(configDir); terr != nil {
				return nil, terr
			}
		} else {
			return nil, fmt.Errorf("loading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config.toml: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.base_url", "http://127.0.0.1:5000")
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("ui.color_enabled", true)
	v.SetDefault("ui.date_format", "01/02/2006")
	v.SetDefault("ui.default_min_gap", 3.0)
	v.SetDefault("ui.default_period_days", 30)
	v.SetDefault("ui.debounce_ms", 300)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.console", false)
	v.SetDefault("logging.file", true)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GAPJOURNAL_SERVER_URL"); v != "" {
		cfg.Server.BaseURL = v
	}
	if v := os.Getenv("GAPJOURNAL_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return errs.Wrap(errs.ErrConfigInvalid, "server.base_url must be set")
	}
	if !strings.HasPrefix(c.Server.BaseURL, "http://") && !strings.HasPrefix(c.Server.BaseURL, "https://") {
		return errs.Wrapf(errs.ErrConfigInvalid, "server.base_url must be an http(s) URL, got %q", c.Server.BaseURL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return errs.Wrap(errs.ErrConfigInvalid, "server.timeout_seconds must be positive")
	}
	if c.UI.DefaultMinGap < 0 {
		return errs.Wrap(errs.ErrConfigInvalid, "ui.default_min_gap must be non-negative")
	}
	if c.UI.DefaultPeriodDays < 0 {
		return errs.Wrap(errs.ErrConfigInvalid, "ui.default_period_days must be non-negative")
	}
	if c.UI.DebounceMillis < 0 {
		return errs.Wrap(errs.ErrConfigInvalid, "ui.debounce_ms must be non-negative")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errs.Wrap(errs.ErrConfigInvalid, "logging.level must be one of debug, info, warn, error")
	}
	return nil
}
