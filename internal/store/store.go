// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package store

import (
	"context"
	"sync"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// SessionStore persists sessions and their conversation history.
type SessionStore interface {
	// Create persists a new session. Returns CodeStoreSessionConflict when
	// the id already exists.
	Create(ctx context.Context, session *Session) error

	// Get returns the session by id, or CodeStoreSessionNotFound.
	Get(ctx context.Context, id string) (*Session, error)

	// AppendTurn adds a turn to the session's history. Returns
	// CodeStoreSessionNotFound for unknown ids.
	AppendTurn(ctx context.Context, sessionID string, turn *Turn) error

	// History returns all turns of a session in chronological order.
	History(ctx context.Context, sessionID string) ([]*Turn, error)

	// Close releases any resources held by the store.
	Close() error
}

// Factory creates a SessionStore for a named backend. The path argument is
// only meaningful for file-backed backends.
type Factory func(path string) (SessionStore, error)

var (
	factories   = map[string]Factory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers a factory for a named storage backend. Backend
// packages call this from init(). Goroutine-safe.
func RegisterBackend(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// Open creates a SessionStore for the configured backend, defaulting to
// "memory" when backend is empty.
func Open(backend, path string) (SessionStore, error) {
	if backend == "" {
		backend = "memory"
	}

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, neoerr.Errorf(neoerr.CodeStoreBackendUnsupported,
			"unsupported storage backend: %q", backend)
	}

	return factory(path)
}
