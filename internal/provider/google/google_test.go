// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package google_test

import (
	"testing"

	"github.com/jackeddaniel/neobot/internal/provider"
	"github.com/jackeddaniel/neobot/internal/provider/google"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface satisfaction check.
var _ provider.Generator = (*google.Generator)(nil)

func TestMissingAPIKey(t *testing.T) {
	_, err := google.New(provider.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
	assert.True(t, neoerr.HasCode(err, neoerr.CodeProviderRequestInvalid))
}

func TestDefaultModel(t *testing.T) {
	g, err := google.New(provider.Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "google", g.Name())
}
