// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package config

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// Config is the top-level Neobot configuration. It covers both the editor
// client and the relay server started by `neobot serve`.
type Config struct {
	BaseURL            string       `mapstructure:"base_url"`
	Timeout            int          `mapstructure:"timeout"` // milliseconds
	SpinnerEnabled     bool         `mapstructure:"spinner_enabled"`
	AutoDetectLanguage bool         `mapstructure:"auto_detect_language"`
	Language           string       `mapstructure:"language"`
	Server             ServerConfig `mapstructure:"server"`
}

// ServerConfig controls the relay started by `neobot serve`.
type ServerConfig struct {
	Listen      string        `mapstructure:"listen"`
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	Storage     StorageConfig `mapstructure:"storage"`
	CORSOrigins []string      `mapstructure:"cors_origins"`
}

// StorageConfig selects the relay's session storage backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// RequestTimeout returns the configured client timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Millisecond
}

// SetDefaults applies Neobot's default values to a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("base_url", "http://127.0.0.1:8000")
	v.SetDefault("timeout", 30000)
	v.SetDefault("spinner_enabled", true)
	v.SetDefault("auto_detect_language", true)
	v.SetDefault("language", "")
	v.SetDefault("server.listen", "127.0.0.1:8000")
	v.SetDefault("server.provider", "google")
	v.SetDefault("server.model", "")
	v.SetDefault("server.storage.backend", "memory")
	v.SetDefault("server.cors_origins", []string{"*"})
}

// SetupEnv binds NEOBOT_-prefixed environment variables, mapping dots in
// config keys to underscores (server.listen becomes NEOBOT_SERVER_LISTEN).
func SetupEnv(v *viper.Viper) {
	v.SetEnvPrefix("NEOBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper unmarshals and validates a Config from an already-initialised
// Viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, neoerr.Errorf(neoerr.CodeConfigParseInvalidFormat, "unmarshalling config: %w", err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue, "validating config: %w", errors.Join(errs...))
	}

	return &cfg, nil
}

// Load reads configuration from the given path (or defaults) with
// environment variable overrides (prefix NEOBOT_).
func Load(path string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)
	SetupEnv(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, neoerr.Errorf(neoerr.CodeConfigLoadReadFailure, "reading config %s: %w", path, err)
		}
	}

	return FromViper(v)
}

// Validate checks the configuration for logical errors.
// It returns a slice of all validation errors found, collecting all issues
// rather than stopping at the first one.
func (c *Config) Validate() []error {
	var errs []error

	errs = append(errs, c.validateClient()...)
	errs = append(errs, c.validateServer()...)

	return errs
}

func (c *Config) validateClient() []error {
	var errs []error

	if c.BaseURL == "" {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
			"config: base_url must not be empty"))
	} else {
		u, err := url.Parse(c.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
				"config: base_url must be a valid http(s) URL, got %q",
				c.BaseURL,
			))
		}
	}

	if c.Timeout <= 0 {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
			"config: timeout must be greater than 0 milliseconds, got %d",
			c.Timeout,
		))
	}

	return errs
}

func (c *Config) validateServer() []error {
	var errs []error

	if c.Server.Listen == "" {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue, "config: server.listen must not be empty"))
	} else {
		_, portStr, err := net.SplitHostPort(c.Server.Listen)
		if err != nil {
			errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
				"config: server.listen must be a valid host:port address, got %q: %w",
				c.Server.Listen, err,
			))
		} else {
			// Host can be empty (e.g. ":8000"), which is valid.
			port, err := strconv.Atoi(portStr)
			if err != nil {
				errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
					"config: server.listen port must be a number, got %q",
					portStr,
				))
			} else if port < 1 || port > 65535 {
				errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
					"config: server.listen port must be between 1 and 65535, got %d",
					port,
				))
			}
		}
	}

	validProviders := map[string]bool{"google": true, "anthropic": true, "openai": true}
	if !validProviders[c.Server.Provider] {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
			"config: server.provider must be one of [google, anthropic, openai], got %q",
			c.Server.Provider,
		))
	}

	validBackends := map[string]bool{"memory": true, "sqlite": true}
	if !validBackends[c.Server.Storage.Backend] {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
			"config: server.storage.backend must be one of [memory, sqlite], got %q",
			c.Server.Storage.Backend,
		))
	}
	if c.Server.Storage.Backend == "sqlite" && c.Server.Storage.Path == "" {
		errs = append(errs, neoerr.Errorf(neoerr.CodeConfigValidateInvalidValue,
			"config: server.storage.path must be set when server.storage.backend is sqlite"))
	}

	return errs
}
