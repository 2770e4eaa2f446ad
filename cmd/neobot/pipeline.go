// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"

	"github.com/jackeddaniel/neobot/internal/client"
	"github.com/jackeddaniel/neobot/internal/config"
	"github.com/jackeddaniel/neobot/internal/editor"
	"github.com/jackeddaniel/neobot/internal/session"
)

// assistSession bundles everything one document's assistant commands need:
// the loaded document, the relay client, and the session registry. The
// registry lives as long as the process, so an attach loop reuses one
// relay session across operations.
type assistSession struct {
	cfg      *config.Config
	doc      *editor.Document
	client   *client.Client
	registry *session.Registry
}

// newAssistSession loads the document at path and wires the relay client
// from the effective configuration.
func newAssistSession(path string) (*assistSession, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	doc, err := editor.Load(path)
	if err != nil {
		return nil, err
	}

	c := client.New(cfg.BaseURL, cfg.RequestTimeout())

	return &assistSession{
		cfg:      cfg,
		doc:      doc,
		client:   c,
		registry: session.NewRegistry(c),
	}, nil
}

// sessionID resolves the relay session for the loaded document, starting
// one on first use.
func (a *assistSession) sessionID(ctx context.Context) (string, error) {
	return a.registry.Resolve(ctx, a.doc.ID(), a.doc.Name(), a.doc.Text())
}

// language returns the language hint to send with snippet requests: an
// explicit config value wins, then extension-based detection if enabled.
func (a *assistSession) language() string {
	if a.cfg.Language != "" {
		return a.cfg.Language
	}
	if a.cfg.AutoDetectLanguage {
		return a.doc.Language()
	}
	return ""
}
