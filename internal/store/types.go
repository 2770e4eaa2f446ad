// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package store defines the relay's session persistence contract and an
// in-memory implementation. The sqlite subpackage provides the durable
// backend; both register themselves through the factory in this package.
package store

import "time"

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Session is one document's conversation with the assistant. The full file
// text captured at start time anchors every later snippet prompt.
type Session struct {
	ID        string
	FileName  string
	FullFile  string
	CreatedAt time.Time
}

// Turn is a single conversation entry within a session.
type Turn struct {
	Role      Role
	Content   string
	CreatedAt time.Time
}
