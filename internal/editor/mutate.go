// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package editor

import (
	"strings"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// MutateMode selects how generated text is applied to the document.
type MutateMode string

const (
	// MutateReplace overwrites the lines spanned by the selection in full.
	MutateReplace MutateMode = "replace"
	// MutateInsertAfter inserts new lines immediately after the selection,
	// leaving the original lines untouched.
	MutateInsertAfter MutateMode = "insert_after"
)

// Apply splices text into the document at the lines spanned by rng.
// Subsequent line offsets shift by the difference between the replacement's
// line count and the original span.
func (d *Document) Apply(rng Range, text string, mode MutateMode) error {
	if rng.Start.IsZero() || rng.End.IsZero() {
		return neoerr.New(neoerr.CodeEditorSelectionEmpty, "no selection to apply to",
			neoerr.FieldDocument(d.path))
	}

	rng = rng.Normalized()
	if rng.Start.Line < 1 || rng.End.Line > len(d.Lines) {
		return neoerr.Errorf(neoerr.CodeEditorRangeInvalid,
			"selection lines %d-%d outside document of %d lines",
			rng.Start.Line, rng.End.Line, len(d.Lines))
	}

	newLines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")

	switch mode {
	case MutateReplace:
		before := d.Lines[:rng.Start.Line-1]
		after := d.Lines[rng.End.Line:]
		d.Lines = splice(before, newLines, after)
	case MutateInsertAfter:
		before := d.Lines[:rng.End.Line]
		after := d.Lines[rng.End.Line:]
		d.Lines = splice(before, newLines, after)
	default:
		return neoerr.Errorf(neoerr.CodeEditorRangeInvalid, "unknown mutate mode %q", mode)
	}

	return nil
}

func splice(before, middle, after []string) []string {
	out := make([]string, 0, len(before)+len(middle)+len(after))
	out = append(out, before...)
	out = append(out, middle...)
	out = append(out, after...)
	return out
}
