// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package editor

import (
	"path/filepath"
	"strings"
)

// languagesByExt maps file extensions to the language names the relay
// forwards in the programming_lang field.
var languagesByExt = map[string]string{
	".c":     "c",
	".cc":    "cpp",
	".cpp":   "cpp",
	".cs":    "csharp",
	".go":    "go",
	".h":     "c",
	".hpp":   "cpp",
	".hs":    "haskell",
	".java":  "java",
	".js":    "javascript",
	".jsx":   "javascriptreact",
	".kt":    "kotlin",
	".lua":   "lua",
	".php":   "php",
	".pl":    "perl",
	".py":    "python",
	".rb":    "ruby",
	".rs":    "rust",
	".scala": "scala",
	".sh":    "sh",
	".sql":   "sql",
	".swift": "swift",
	".ts":    "typescript",
	".tsx":   "typescriptreact",
	".vim":   "vim",
	".zig":   "zig",
}

// Language infers the document's source language from its file extension.
// Returns "" when the extension is unknown.
func (d *Document) Language() string {
	ext := strings.ToLower(filepath.Ext(d.path))
	return languagesByExt[ext]
}
