// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package markdown cleans assistant replies for display or insertion.
// Both transforms are pure functions over the input text.
package markdown

import (
	"regexp"
	"strings"
)

var (
	headingRe    = regexp.MustCompile(`^(\s*)#{1,6}\s+`)
	bulletRe     = regexp.MustCompile(`^(\s*)[-*+]\s+`)
	boldRe       = regexp.MustCompile(`\*\*([^*]+)\*\*`)
	emphasisRe   = regexp.MustCompile(`\*([^*]+)\*`)
	underscoreRe = regexp.MustCompile(`_([^_]+)_`)
)

// isFenceLine reports whether line is a code-fence delimiter, optionally
// carrying a language tag (e.g. "```python").
func isFenceLine(line string) bool {
	return strings.HasPrefix(line, "```")
}

// CleanProse strips markdown emphasis, heading, and list markers from text,
// leaving everything between fence delimiters untouched. Fence delimiter
// lines themselves pass through verbatim. Idempotent on marker-free text.
func CleanProse(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	inFence := false
	for _, line := range lines {
		if isFenceLine(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}
		if inFence {
			out = append(out, line)
			continue
		}
		out = append(out, cleanLine(line))
	}

	return strings.Join(out, "\n")
}

func cleanLine(line string) string {
	line = headingRe.ReplaceAllString(line, "$1")
	line = bulletRe.ReplaceAllString(line, "$1")
	line = boldRe.ReplaceAllString(line, "$1")
	line = emphasisRe.ReplaceAllString(line, "$1")
	line = underscoreRe.ReplaceAllString(line, "$1")
	return line
}

// StripFence removes exactly one leading fence line (with optional language
// tag) and exactly one trailing fence line from text. Everything else passes
// through verbatim; text without fences is returned unchanged.
func StripFence(text string) string {
	lines := strings.Split(text, "\n")

	if len(lines) > 0 && isFenceLine(lines[0]) {
		lines = lines[1:]
	}

	// The closing fence may be followed by trailing blank lines.
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if end > 0 && isFenceLine(lines[end-1]) {
		lines = append(lines[:end-1], lines[end:]...)
	}

	return strings.Join(lines, "\n")
}
