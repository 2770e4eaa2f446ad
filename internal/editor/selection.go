// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package editor

import (
	"strings"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// Mode determines how the selection marks bound the extracted text.
type Mode string

const (
	ModeCharacter Mode = "char"
	ModeLine      Mode = "line"
	// ModeBlock normalizes to the character-mode algorithm: column bounds
	// are honored per boundary line, not cut rectangularly on every line.
	ModeBlock Mode = "block"
)

// Position is a 1-based line/column mark. The zero value means "not set".
type Position struct {
	Line int
	Col  int
}

// IsZero reports whether the mark was never placed.
func (p Position) IsZero() bool {
	return p.Line == 0
}

// Range is a selection between two marks. Marks may be given in either
// visual order; extraction normalizes them first.
type Range struct {
	Start Position
	End   Position
	Mode  Mode
}

// Normalized returns the range with Start before End in document order.
func (r Range) Normalized() Range {
	if r.Start.Line > r.End.Line ||
		(r.Start.Line == r.End.Line && r.Start.Col > r.End.Col) {
		r.Start, r.End = r.End, r.Start
	}
	return r
}

// Extract produces the text covered by rng. An unset mark yields an
// editor.selection.empty error, which callers treat as "nothing to send".
func (d *Document) Extract(rng Range) (string, error) {
	if rng.Start.IsZero() || rng.End.IsZero() {
		return "", neoerr.New(neoerr.CodeEditorSelectionEmpty, "no selection marks set",
			neoerr.FieldDocument(d.path))
	}

	rng = rng.Normalized()

	if rng.Start.Line < 1 || rng.End.Line > len(d.Lines) {
		return "", neoerr.Errorf(neoerr.CodeEditorRangeInvalid,
			"selection lines %d-%d outside document of %d lines",
			rng.Start.Line, rng.End.Line, len(d.Lines))
	}

	if rng.Mode == ModeLine {
		return strings.Join(d.Lines[rng.Start.Line-1:rng.End.Line], "\n"), nil
	}

	// Character mode (block mode normalizes to the same algorithm).
	startCol := rng.Start.Col
	if startCol < 1 {
		startCol = 1
	}
	endCol := rng.End.Col

	if rng.Start.Line == rng.End.Line {
		return clampLine(d.Lines[rng.Start.Line-1], startCol, endCol), nil
	}

	selected := make([]string, 0, rng.End.Line-rng.Start.Line+1)
	first := d.Lines[rng.Start.Line-1]
	if startCol <= len(first) {
		selected = append(selected, first[startCol-1:])
	} else {
		selected = append(selected, "")
	}
	for i := rng.Start.Line; i < rng.End.Line-1; i++ {
		selected = append(selected, d.Lines[i])
	}
	last := d.Lines[rng.End.Line-1]
	selected = append(selected, clampLine(last, 1, endCol))

	return strings.Join(selected, "\n"), nil
}

// clampLine returns the 1-based, inclusive [startCol, endCol] slice of line,
// clamped to the line's length. endCol < 1 means "to end of line".
func clampLine(line string, startCol, endCol int) string {
	if endCol < 1 || endCol > len(line) {
		endCol = len(line)
	}
	if startCol > endCol {
		return ""
	}
	return line[startCol-1 : endCol]
}
