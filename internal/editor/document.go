// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package editor models the edited document: loading, selection extraction,
// and in-place mutation. A document's stable identifier is its absolute path.
package editor

import (
	"os"
	"path/filepath"
	"strings"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// Document is a unit of editable text, held as lines in memory.
type Document struct {
	path  string
	Lines []string

	// trailingNewline records whether the file on disk ended with a newline,
	// so a round-trip through Load/Save does not alter it.
	trailingNewline bool
}

// Load reads the file at path into a Document.
func Load(path string) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeEditorFileReadFailure, "resolving %s", path)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, neoerr.Wrapf(err, neoerr.CodeEditorFileReadFailure, "reading %s", abs)
	}

	return NewDocument(abs, string(data)), nil
}

// NewDocument builds a Document from raw content without touching the
// filesystem. Used by Load and by tests.
func NewDocument(path, content string) *Document {
	trailing := strings.HasSuffix(content, "\n")
	if trailing {
		content = strings.TrimSuffix(content, "\n")
	}

	var lines []string
	if content != "" || trailing {
		lines = strings.Split(content, "\n")
	}

	return &Document{
		path:            path,
		Lines:           lines,
		trailingNewline: trailing,
	}
}

// ID returns the document's stable identifier.
func (d *Document) ID() string {
	return d.path
}

// Name returns the base file name, the form the relay protocol carries.
func (d *Document) Name() string {
	return filepath.Base(d.path)
}

// Text returns the full document content.
func (d *Document) Text() string {
	text := strings.Join(d.Lines, "\n")
	if d.trailingNewline {
		text += "\n"
	}
	return text
}

// LineCount returns the number of lines in the document.
func (d *Document) LineCount() int {
	return len(d.Lines)
}

// Save writes the document back to its path.
func (d *Document) Save() error {
	if err := os.WriteFile(d.path, []byte(d.Text()), 0o644); err != nil {
		return neoerr.Wrapf(err, neoerr.CodeEditorFileWriteFailure, "writing %s", d.path)
	}
	return nil
}
