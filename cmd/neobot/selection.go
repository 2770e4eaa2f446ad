// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jackeddaniel/neobot/internal/editor"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// parseMark parses a "LINE" or "LINE:COL" selection mark. Both numbers are
// 1-based; a missing column means the whole line boundary.
func parseMark(s string) (editor.Position, error) {
	if s == "" {
		return editor.Position{}, nil
	}

	linePart, colPart, hasCol := strings.Cut(s, ":")

	line, err := strconv.Atoi(linePart)
	if err != nil || line < 1 {
		return editor.Position{}, neoerr.Errorf(neoerr.CodeCLIInputInvalid,
			"invalid mark %q: line must be a positive number", s)
	}

	pos := editor.Position{Line: line}
	if hasCol {
		col, err := strconv.Atoi(colPart)
		if err != nil || col < 1 {
			return editor.Position{}, neoerr.Errorf(neoerr.CodeCLIInputInvalid,
				"invalid mark %q: column must be a positive number", s)
		}
		pos.Col = col
	}
	return pos, nil
}

// addSelectionFlags registers the flags shared by every selection command.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("start", "s", "", "selection start mark, LINE[:COL]")
	cmd.Flags().StringP("end", "e", "", "selection end mark, LINE[:COL]")
	cmd.Flags().StringP("mode", "m", string(editor.ModeCharacter), "selection mode: char, line, or block")
}

// selectionFromFlags builds the selection range from --start/--end/--mode.
func selectionFromFlags(cmd *cobra.Command) (editor.Range, error) {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	modeStr, _ := cmd.Flags().GetString("mode")

	start, err := parseMark(startStr)
	if err != nil {
		return editor.Range{}, err
	}
	end, err := parseMark(endStr)
	if err != nil {
		return editor.Range{}, err
	}

	mode := editor.Mode(modeStr)
	switch mode {
	case editor.ModeCharacter, editor.ModeLine, editor.ModeBlock:
	default:
		return editor.Range{}, neoerr.Errorf(neoerr.CodeCLIInputInvalid,
			"invalid mode %q: must be char, line, or block", modeStr)
	}

	return editor.Range{Start: start, End: end, Mode: mode}, nil
}
