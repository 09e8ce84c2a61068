// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Offerdex Contributors

// Package config loads and validates the Offerdex configuration from an
// optional file plus OFFERDEX_-prefixed environment variables.
package config

import (
	"errors"
	"log/slog"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	odxerr "github.com/offerdex/offerdex/pkg/errors"
)

// Config is the top-level Offerdex configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Provider ProviderConfig `mapstructure:"provider"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// DatabaseConfig locates the catalog database file.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ProviderConfig holds embedding provider credentials and model selection.
type ProviderConfig struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Model          string `mapstructure:"model"`
	Dimensions     int    `mapstructure:"dimensions"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// Timeout returns the per-call embedding deadline.
func (p ProviderConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// IngestConfig controls catalog loading.
type IngestConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Listen      string   `mapstructure:"listen"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix OFFERDEX_).
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults. Keys without a meaningful default still need SetDefault:
	// AutomaticEnv only feeds Unmarshal for keys viper already knows.
	v.SetDefault("database.path", "offerdex.db")
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.model", "text-embedding-3-small")
	v.SetDefault("provider.dimensions", 1536)
	v.SetDefault("provider.timeout_seconds", 30)
	v.SetDefault("ingest.batch_size", 100)
	v.SetDefault("server.listen", "127.0.0.1:8370")
	v.SetDefault("server.cors_origins", []string{})
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Environment
	v.SetEnvPrefix("OFFERDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// File
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, odxerr.Errorf(odxerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Validate checks the configuration for logical errors. It returns every
// validation error found rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateDatabase()...)
	errs = append(errs, c.validateProvider()...)
	errs = append(errs, c.validateIngest()...)
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateLogging()...)

	return errs
}

func (c *Config) validateDatabase() []error {
	var errs []error

	if c.Database.Path == "" {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue, "config: database.path must not be empty"))
	}

	return errs
}

func (c *Config) validateProvider() []error {
	var errs []error

	if c.Provider.Model == "" {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue, "config: provider.model must not be empty"))
	}
	if c.Provider.Dimensions < 1 {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: provider.dimensions must be positive, got %d", c.Provider.Dimensions))
	}
	if c.Provider.TimeoutSeconds < 1 {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: provider.timeout_seconds must be positive, got %d", c.Provider.TimeoutSeconds))
	}

	return errs
}

func (c *Config) validateIngest() []error {
	var errs []error

	if c.Ingest.BatchSize < 1 {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: ingest.batch_size must be positive, got %d", c.Ingest.BatchSize))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
		return errs
	}

	_, portStr, err := net.SplitHostPort(c.Server.Listen)
	if err != nil {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: server.listen must be a valid host:port address, got %q: %w", c.Server.Listen, err))
		return errs
	}
	// Host can be empty (e.g. ":8370"), which is valid.
	port, err := strconv.Atoi(portStr)
	if err != nil {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be a number, got %q", portStr))
	} else if port < 0 || port > 65535 {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: server.listen port must be between 0 and 65535, got %d", port))
	}

	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: logging.level must be one of [debug, info, warn, error], got %q", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		errs = append(errs, odxerr.Errorf(odxerr.CodeConfigValidateInvalidValue,
			"config: logging.format must be one of [text, json], got %q", c.Logging.Format))
	}

	return errs
}

// Logger builds a slog logger per the logging section, writing to stderr.
func (c *Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
