// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package store

import (
	"context"
	"sync"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func init() {
	RegisterBackend("memory", func(string) (SessionStore, error) {
		return NewMemoryStore(), nil
	})
}

// Compile-time interface check.
var _ SessionStore = (*MemoryStore)(nil)

// MemoryStore keeps sessions in process memory. Everything is lost on
// restart, which matches a relay run without a storage path configured.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	turns    map[string][]*Turn
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		turns:    make(map[string][]*Turn),
	}
}

func (m *MemoryStore) Create(_ context.Context, session *Session) error {
	if session == nil || session.ID == "" {
		return neoerr.New(neoerr.CodeStoreInvalidInput, "session id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[session.ID]; exists {
		return neoerr.Errorf(neoerr.CodeStoreSessionConflict,
			"session %s already exists", session.ID)
	}

	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, neoerr.Errorf(neoerr.CodeStoreSessionNotFound,
			"session %s not found", id)
	}

	copied := *session
	return &copied, nil
}

func (m *MemoryStore) AppendTurn(_ context.Context, sessionID string, turn *Turn) error {
	if turn == nil {
		return neoerr.New(neoerr.CodeStoreInvalidInput, "turn must not be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return neoerr.Errorf(neoerr.CodeStoreSessionNotFound,
			"session %s not found", sessionID)
	}

	copied := *turn
	m.turns[sessionID] = append(m.turns[sessionID], &copied)
	return nil
}

func (m *MemoryStore) History(_ context.Context, sessionID string) ([]*Turn, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.sessions[sessionID]; !ok {
		return nil, neoerr.Errorf(neoerr.CodeStoreSessionNotFound,
			"session %s not found", sessionID)
	}

	stored := m.turns[sessionID]
	out := make([]*Turn, len(stored))
	for i, turn := range stored {
		copied := *turn
		out[i] = &copied
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
