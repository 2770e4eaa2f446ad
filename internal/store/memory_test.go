// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackeddaniel/neobot/internal/store"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	sess := &store.Session{
		ID:        "sess-1",
		FileName:  "main.go",
		FullFile:  "package main\n",
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.Create(ctx, sess))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "main.go", got.FileName)
	assert.Equal(t, "package main\n", got.FullFile)
}

func TestMemoryGetUnknownSession(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionNotFound))
}

func TestMemoryCreateConflict(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	require.NoError(t, s.Create(ctx, &store.Session{ID: "dup"}))
	err := s.Create(ctx, &store.Session{ID: "dup"})
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionConflict))
}

func TestMemoryHistoryOrder(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	require.NoError(t, s.Create(ctx, &store.Session{ID: "sess-1"}))

	require.NoError(t, s.AppendTurn(ctx, "sess-1", &store.Turn{Role: store.RoleUser, Content: "snippet"}))
	require.NoError(t, s.AppendTurn(ctx, "sess-1", &store.Turn{Role: store.RoleAssistant, Content: "answer"}))

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, store.RoleUser, turns[0].Role)
	assert.Equal(t, store.RoleAssistant, turns[1].Role)
	assert.Equal(t, "answer", turns[1].Content)
}

func TestMemoryAppendTurnUnknownSession(t *testing.T) {
	s := store.NewMemoryStore()

	err := s.AppendTurn(context.Background(), "ghost", &store.Turn{Role: store.RoleUser})
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionNotFound))
}

func TestOpenSelectsBackend(t *testing.T) {
	s, err := store.Open("memory", "")
	require.NoError(t, err)
	defer s.Close()
	assert.IsType(t, &store.MemoryStore{}, s)

	// Empty backend defaults to memory.
	s2, err := store.Open("", "")
	require.NoError(t, err)
	defer s2.Close()
	assert.IsType(t, &store.MemoryStore{}, s2)

	_, err = store.Open("etcd", "")
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreBackendUnsupported))
}
