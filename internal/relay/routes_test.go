// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package relay_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jackeddaniel/neobot/internal/relay"
	"github.com/jackeddaniel/neobot/internal/store"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGenerator records prompts and replies with canned text.
type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestServer(t *testing.T, gen *fakeGenerator) *relay.Server {
	t.Helper()
	srv, err := relay.New(relay.Config{ListenAddr: "127.0.0.1:0"}, store.NewMemoryStore(), gen)
	require.NoError(t, err)
	return srv
}

func postJSON(t *testing.T, srv *relay.Server, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var payload *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(data)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(http.MethodPost, path, payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func startSession(t *testing.T, srv *relay.Server, fileName, fullFile string) string {
	t.Helper()
	w := postJSON(t, srv, "/start_session", map[string]string{
		"file_name": fileName,
		"full_file": fullFile,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.SessionID)
	return resp.SessionID
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok"`)
}

func TestStartSessionReturnsDistinctIDs(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	a := startSession(t, srv, "a.go", "package a\n")
	b := startSession(t, srv, "b.go", "package b\n")
	assert.NotEqual(t, a, b)
}

func TestExplainBuildsPromptFromSessionContext(t *testing.T) {
	gen := &fakeGenerator{reply: "it sums the slice"}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "sum.go", "package main\n\nfunc sum() {}\n")

	w := postJSON(t, srv, "/explain", map[string]string{
		"session_id":       id,
		"snippet":          "func sum() {}",
		"question":         "why a loop?",
		"programming_lang": "go",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Explanation string `json:"explanation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "it sums the slice", resp.Explanation)

	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "Programming language: go")
	assert.Contains(t, prompt, "func sum() {}")
	assert.Contains(t, prompt, "Question: why a loop?")
	assert.Contains(t, prompt, "package main")
}

func TestExplainIncludesHistoryOnSecondRequest(t *testing.T) {
	gen := &fakeGenerator{reply: "first answer"}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "a.go", "package a\n")

	w := postJSON(t, srv, "/explain", map[string]string{"session_id": id, "snippet": "x := 1"})
	require.Equal(t, http.StatusOK, w.Code)

	gen.reply = "second answer"
	w = postJSON(t, srv, "/explain", map[string]string{"session_id": id, "snippet": "y := 2"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[1], "user:\nx := 1")
	assert.Contains(t, gen.prompts[1], "assistant:\nfirst answer")
}

func TestFixSendsOnlySnippet(t *testing.T) {
	gen := &fakeGenerator{reply: "a - b"}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "calc.py", "def calc():\n    return a + b\n")

	w := postJSON(t, srv, "/fix", map[string]string{
		"session_id":       id,
		"snippet":          "return a + b",
		"programming_lang": "python",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		FixedCode string `json:"fixed_code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a - b", resp.FixedCode)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Fix any bugs")
	assert.Contains(t, gen.prompts[0], "Return only the corrected code snippet.")
	assert.NotContains(t, gen.prompts[0], "def calc()", "fix prompts must not include the full file")
}

func TestMethodCompletionIncludesFullFile(t *testing.T) {
	gen := &fakeGenerator{reply: "func f() { return 1 }"}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "f.go", "package main\n\nfunc f(")

	w := postJSON(t, srv, "/method_completion", map[string]string{
		"session_id": id,
		"snippet":    "func f(",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		CompletedMethod string `json:"completed_method"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "func f() { return 1 }", resp.CompletedMethod)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "Full context:\npackage main")
	assert.Contains(t, gen.prompts[0], "Return only the completed method implementation.")
}

func TestUnknownSessionIs404(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{reply: "x"})

	for _, path := range []string{"/explain", "/fix", "/method_completion"} {
		t.Run(path, func(t *testing.T) {
			w := postJSON(t, srv, path, map[string]string{
				"session_id": "ghost",
				"snippet":    "code",
			})
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Contains(t, w.Body.String(), "Session not found")
		})
	}
}

func TestFullExplanationJoinsAssistantTurns(t *testing.T) {
	gen := &fakeGenerator{reply: "first"}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "a.go", "package a\n")

	w := postJSON(t, srv, "/explain", map[string]string{"session_id": id, "snippet": "one"})
	require.Equal(t, http.StatusOK, w.Code)
	gen.reply = "second"
	w = postJSON(t, srv, "/fix", map[string]string{"session_id": id, "snippet": "two"})
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, srv, "/get_full_explanation?session_id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		FullExplanation string `json:"full_explanation"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "first\n\nsecond", resp.FullExplanation)
	assert.NotContains(t, resp.FullExplanation, "one", "user turns must be excluded")
}

func TestFullExplanationUnknownSession(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	w := postJSON(t, srv, "/get_full_explanation?session_id=ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Session not found")
}

func TestUpstreamFailureIs502(t *testing.T) {
	gen := &fakeGenerator{err: neoerr.New(neoerr.CodeProviderUpstreamFailure, "model overloaded")}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "a.go", "package a\n")

	w := postJSON(t, srv, "/explain", map[string]string{"session_id": id, "snippet": "code"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	// A failed generation must not pollute the history.
	w = postJSON(t, srv, "/get_full_explanation?session_id="+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"full_explanation":""`)
}

func TestUpstreamTimeoutIs504(t *testing.T) {
	gen := &fakeGenerator{err: context.DeadlineExceeded}
	srv := newTestServer(t, gen)
	id := startSession(t, srv, "a.go", "package a\n")

	w := postJSON(t, srv, "/fix", map[string]string{"session_id": id, "snippet": "code"})
	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestErrorBodiesCarryDetail(t *testing.T) {
	srv := newTestServer(t, &fakeGenerator{})

	w := postJSON(t, srv, "/explain", map[string]string{"session_id": "ghost", "snippet": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp struct {
		Detail string `json:"detail"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, strings.Contains(resp.Detail, "Session not found"))
}
