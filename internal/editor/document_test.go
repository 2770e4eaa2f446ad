// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package editor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jackeddaniel/neobot/internal/editor"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.py")
	content := "def main():\n    pass\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	doc, err := editor.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.LineCount())
	assert.Equal(t, content, doc.Text())
	assert.Equal(t, "prog.py", doc.Name())
	assert.Equal(t, path, doc.ID())

	require.NoError(t, doc.Save())
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(saved))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := editor.Load(filepath.Join(t.TempDir(), "nope.go"))
	require.Error(t, err)
	assert.True(t, neoerr.HasCode(err, neoerr.CodeEditorFileReadFailure))
}

func TestNewDocumentWithoutTrailingNewline(t *testing.T) {
	doc := editor.NewDocument("/tmp/x.txt", "a\nb")
	assert.Equal(t, 2, doc.LineCount())
	assert.Equal(t, "a\nb", doc.Text())
}

func TestNewDocumentEmpty(t *testing.T) {
	doc := editor.NewDocument("/tmp/empty.txt", "")
	assert.Equal(t, 0, doc.LineCount())
	assert.Equal(t, "", doc.Text())
}

func TestLanguageDetection(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/src/main.go", "go"},
		{"/src/app.PY", "python"},
		{"/src/index.ts", "typescript"},
		{"/src/lib.rs", "rust"},
		{"/src/Makefile", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			doc := editor.NewDocument(tt.path, "")
			assert.Equal(t, tt.want, doc.Language())
		})
	}
}
