// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package sqlite backs the relay's session store with a single SQLite
// database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jackeddaniel/neobot/internal/store"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func init() {
	store.RegisterBackend("sqlite", func(path string) (store.SessionStore, error) {
		return NewSessionStore(path)
	})
}

// Compile-time interface check.
var _ store.SessionStore = (*SessionStore)(nil)

// SessionStore implements store.SessionStore backed by SQLite.
type SessionStore struct {
	db *sql.DB
}

// NewSessionStore opens (or creates) a SQLite database at dbPath and
// initialises the sessions and turns tables.
func NewSessionStore(dbPath string) (*SessionStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, neoerr.Wrap(err, neoerr.CodeStoreDatabaseFailure, "opening sqlite db")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, neoerr.Wrap(err, neoerr.CodeStoreDatabaseFailure, "pinging sqlite db")
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, neoerr.Wrap(err, neoerr.CodeStoreDatabaseFailure, "migrating sqlite db")
	}

	return &SessionStore{db: db}, nil
}

func migrate(db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	file_name  TEXT NOT NULL,
	full_file  TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS turns (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	FOREIGN KEY (session_id) REFERENCES sessions(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id, seq);
`
	_, err := db.Exec(ddl)
	return err
}

// Close closes the underlying database connection.
func (s *SessionStore) Close() error {
	return s.db.Close()
}

func (s *SessionStore) Create(ctx context.Context, session *store.Session) error {
	if session == nil || session.ID == "" {
		return neoerr.New(neoerr.CodeStoreInvalidInput, "session id must not be empty")
	}

	const q = `INSERT INTO sessions (id, file_name, full_file, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		session.ID,
		session.FileName,
		session.FullFile,
		formatTime(session.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return neoerr.Errorf(neoerr.CodeStoreSessionConflict,
				"session %s already exists", session.ID)
		}
		return neoerr.Wrapf(err, neoerr.CodeStoreDatabaseFailure,
			"creating session %s", session.ID)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context, id string) (*store.Session, error) {
	const q = `SELECT id, file_name, full_file, created_at FROM sessions WHERE id = ?`

	var sess store.Session
	var createdAt string

	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&sess.ID,
		&sess.FileName,
		&sess.FullFile,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, neoerr.Errorf(neoerr.CodeStoreSessionNotFound, "session %s not found", id)
	}
	if err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeStoreDatabaseFailure, "getting session %s", id)
	}

	sess.CreatedAt = parseTime(createdAt)
	return &sess, nil
}

func (s *SessionStore) AppendTurn(ctx context.Context, sessionID string, turn *store.Turn) error {
	if turn == nil {
		return neoerr.New(neoerr.CodeStoreInvalidInput, "turn must not be nil")
	}

	if _, err := s.Get(ctx, sessionID); err != nil {
		return err
	}

	const q = `INSERT INTO turns (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, q,
		sessionID,
		string(turn.Role),
		turn.Content,
		formatTime(turn.CreatedAt),
	)
	if err != nil {
		return neoerr.Wrapf(err, neoerr.CodeStoreDatabaseFailure,
			"appending turn to session %s", sessionID)
	}
	return nil
}

func (s *SessionStore) History(ctx context.Context, sessionID string) ([]*store.Turn, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	const q = `SELECT role, content, created_at FROM turns WHERE session_id = ? ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeStoreDatabaseFailure,
			"listing turns for session %s", sessionID)
	}
	defer rows.Close()

	turns := []*store.Turn{}
	for rows.Next() {
		var turn store.Turn
		var role, createdAt string
		if err := rows.Scan(&role, &turn.Content, &createdAt); err != nil {
			return nil, neoerr.Wrap(err, neoerr.CodeStoreDatabaseFailure, "scanning turn row")
		}
		turn.Role = store.Role(role)
		turn.CreatedAt = parseTime(createdAt)
		turns = append(turns, &turn)
	}
	if err := rows.Err(); err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeStoreDatabaseFailure,
			"iterating turns for session %s", sessionID)
	}

	return turns, nil
}

// isUniqueViolation matches the sqlite UNIQUE constraint error without
// depending on driver-specific error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(strings.ToUpper(err.Error()), "UNIQUE")
}

// formatTime serialises a time for storage. RFC3339Nano keeps lexical
// ordering consistent with chronological ordering.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime deserialises a time string stored in the database.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}
