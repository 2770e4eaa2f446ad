// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackeddaniel/neobot/internal/store"
	"github.com/jackeddaniel/neobot/internal/store/sqlite"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.SessionStore {
	t.Helper()
	s, err := sqlite.NewSessionStore(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	created := time.Date(2026, 8, 26, 10, 0, 0, 123456789, time.UTC)
	require.NoError(t, s.Create(ctx, &store.Session{
		ID:        "sess-1",
		FileName:  "prog.py",
		FullFile:  "def main():\n    pass\n",
		CreatedAt: created,
	}))

	got, err := s.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "prog.py", got.FileName)
	assert.Equal(t, "def main():\n    pass\n", got.FullFile)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestGetUnknownSession(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionNotFound))
}

func TestCreateDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Create(ctx, &store.Session{ID: "dup", FileName: "a.go"}))
	err := s.Create(ctx, &store.Session{ID: "dup", FileName: "b.go"})
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionConflict))
}

func TestHistoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, &store.Session{ID: "sess-1", FileName: "a.go"}))

	now := time.Now()
	require.NoError(t, s.AppendTurn(ctx, "sess-1", &store.Turn{
		Role: store.RoleUser, Content: "a + b", CreatedAt: now,
	}))
	require.NoError(t, s.AppendTurn(ctx, "sess-1", &store.Turn{
		Role: store.RoleAssistant, Content: "adds two values", CreatedAt: now,
	}))

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, store.RoleUser, turns[0].Role)
	assert.Equal(t, "a + b", turns[0].Content)
	assert.Equal(t, store.RoleAssistant, turns[1].Role)
	assert.Equal(t, "adds two values", turns[1].Content)
}

func TestHistoryEmptySession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Create(ctx, &store.Session{ID: "sess-1", FileName: "a.go"}))

	turns, err := s.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestAppendTurnUnknownSession(t *testing.T) {
	s := newTestStore(t)

	err := s.AppendTurn(context.Background(), "ghost", &store.Turn{Role: store.RoleUser})
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeStoreSessionNotFound))
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "sessions.db")

	s, err := sqlite.NewSessionStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, &store.Session{ID: "sess-1", FileName: "a.go"}))
	require.NoError(t, s.AppendTurn(ctx, "sess-1", &store.Turn{Role: store.RoleUser, Content: "hi"}))
	require.NoError(t, s.Close())

	s2, err := sqlite.NewSessionStore(dbPath)
	require.NoError(t, err)
	defer s2.Close()

	turns, err := s2.History(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "hi", turns[0].Content)
}
