// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package session maps documents to their relay sessions. The registry is
// owned by the command context; there are no package-level globals.
package session

import (
	"context"
	"sync"
)

// Starter opens a relay session for a document. Implemented by client.Client.
type Starter interface {
	StartSession(ctx context.Context, fileName, fullFile string) (string, error)
}

// Registry lazily creates one session per document and reuses it for every
// subsequent operation in this process. Sessions are never torn down here;
// the relay side owns their lifetime.
type Registry struct {
	starter Starter

	mu    sync.Mutex
	byDoc map[string]string
}

// NewRegistry creates an empty Registry backed by starter.
func NewRegistry(starter Starter) *Registry {
	return &Registry{
		starter: starter,
		byDoc:   make(map[string]string),
	}
}

// Resolve returns the session id for docID, creating one via the relay on
// first use. Failures are not cached: the next call retries from scratch.
func (r *Registry) Resolve(ctx context.Context, docID, fileName, fullFile string) (string, error) {
	r.mu.Lock()
	if id, ok := r.byDoc[docID]; ok {
		r.mu.Unlock()
		return id, nil
	}
	r.mu.Unlock()

	// The blocking call happens outside the lock; there is no concurrent
	// invocation path in the client, so duplicate starts cannot race here.
	id, err := r.starter.StartSession(ctx, fileName, fullFile)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.byDoc[docID] = id
	r.mu.Unlock()

	return id, nil
}

// Known reports whether docID already has a session.
func (r *Registry) Known(docID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.byDoc[docID]
	return ok
}
