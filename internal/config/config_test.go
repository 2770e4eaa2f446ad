// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackeddaniel/neobot/internal/config"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "neobot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
	assert.Equal(t, 30000, cfg.Timeout)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout())
	assert.True(t, cfg.SpinnerEnabled)
	assert.True(t, cfg.AutoDetectLanguage)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Listen)
	assert.Equal(t, "google", cfg.Server.Provider)
	assert.Equal(t, "memory", cfg.Server.Storage.Backend)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
base_url: https://assist.example.com
timeout: 5000
spinner_enabled: false
language: python
server:
  listen: 0.0.0.0:9000
  provider: anthropic
  model: claude-sonnet-4-5
  storage:
    backend: sqlite
    path: /tmp/neobot-sessions.db
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://assist.example.com", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.False(t, cfg.SpinnerEnabled)
	assert.Equal(t, "python", cfg.Language)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, "anthropic", cfg.Server.Provider)
	assert.Equal(t, "claude-sonnet-4-5", cfg.Server.Model)
	assert.Equal(t, "sqlite", cfg.Server.Storage.Backend)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEOBOT_BASE_URL", "http://10.0.0.5:8000")
	t.Setenv("NEOBOT_TIMEOUT", "1500")

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:8000", cfg.BaseURL)
	assert.Equal(t, 1500, cfg.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeConfigLoadReadFailure))
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &config.Config{
		BaseURL: "not-a-url",
		Timeout: 0,
		Server: config.ServerConfig{
			Listen:   "nohost",
			Provider: "llamafarm",
			Storage:  config.StorageConfig{Backend: "postgres"},
		},
	}

	errs := cfg.Validate()
	require.Len(t, errs, 5)
}

func TestValidateInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantMsg string
	}{
		{
			name:    "empty base_url",
			mutate:  func(c *config.Config) { c.BaseURL = "" },
			wantMsg: "base_url must not be empty",
		},
		{
			name:    "bad scheme",
			mutate:  func(c *config.Config) { c.BaseURL = "ftp://relay" },
			wantMsg: "base_url must be a valid http(s) URL",
		},
		{
			name:    "zero timeout",
			mutate:  func(c *config.Config) { c.Timeout = 0 },
			wantMsg: "timeout must be greater than 0",
		},
		{
			name:    "listen without port",
			mutate:  func(c *config.Config) { c.Server.Listen = "127.0.0.1" },
			wantMsg: "server.listen must be a valid host:port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *config.Config) { c.Server.Listen = "127.0.0.1:99999" },
			wantMsg: "port must be between 1 and 65535",
		},
		{
			name:    "unknown provider",
			mutate:  func(c *config.Config) { c.Server.Provider = "bedrock" },
			wantMsg: "server.provider must be one of",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *config.Config) { c.Server.Storage.Backend = "redis" },
			wantMsg: "server.storage.backend must be one of",
		},
		{
			name: "sqlite without path",
			mutate: func(c *config.Config) {
				c.Server.Storage.Backend = "sqlite"
				c.Server.Storage.Path = ""
			},
			wantMsg: "server.storage.path must be set",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load("")
			require.NoError(t, err)
			tt.mutate(cfg)

			errs := cfg.Validate()
			require.NotEmpty(t, errs)
			found := false
			for _, e := range errs {
				if strings.Contains(e.Error(), tt.wantMsg) {
					found = true
				}
			}
			assert.True(t, found, "expected a validation error containing %q, got %v", tt.wantMsg, errs)
		})
	}
}

func TestBootstrapDefaultIsValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "neobot.yaml")
	require.NoError(t, os.WriteFile(path, config.DefaultConfigYAML, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", cfg.BaseURL)
}
