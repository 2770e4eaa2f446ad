// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package provider defines the assistant backend contract used by the relay
// and the factory that selects a concrete SDK adapter by name.
package provider

import (
	"context"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// Generator produces one assistant reply for one prompt. The relay builds
// the full prompt (instructions, file context, history) before calling it.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Config holds the settings shared by every backend adapter.
type Config struct {
	APIKey  string
	Model   string // empty selects the adapter's default model
	BaseURL string // optional, useful for testing against a mock server
}

// Factory creates a Generator from a Config. Adapter packages register
// themselves here via Register in init().
type Factory func(cfg Config) (Generator, error)

var factories = map[string]Factory{}

// Register makes a backend available to New under the given name.
// Not goroutine-safe; called from init() only.
func Register(name string, f Factory) {
	factories[name] = f
}

// New creates the named backend, or CodeProviderNotFound for unknown names.
func New(name string, cfg Config) (Generator, error) {
	f, ok := factories[name]
	if !ok {
		return nil, neoerr.Errorf(neoerr.CodeProviderNotFound, "unknown provider %q", name)
	}
	return f(cfg)
}
