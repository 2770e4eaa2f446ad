// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

// Package client speaks the relay's JSON protocol. Each endpoint gets a
// typed method; response shapes are validated here at the boundary so
// callers never see partially-decoded bodies.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// DefaultTimeout bounds each relay call when the config does not override it.
const DefaultTimeout = 30 * time.Second

// Client issues blocking, cancellable requests against one relay.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// New creates a Client for the relay rooted at baseURL. A non-positive
// timeout falls back to DefaultTimeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		http:    &http.Client{},
	}
}

// --- wire types (field names fixed by the relay protocol) ---

type startSessionRequest struct {
	FileName string `json:"file_name"`
	FullFile string `json:"full_file"`
}

type startSessionResponse struct {
	SessionID string `json:"session_id"`
}

type snippetRequest struct {
	SessionID       string `json:"session_id"`
	Snippet         string `json:"snippet"`
	Question        string `json:"question,omitempty"`
	ProgrammingLang string `json:"programming_lang,omitempty"`
}

type explainResponse struct {
	Explanation string `json:"explanation"`
}

type fixResponse struct {
	FixedCode string `json:"fixed_code"`
}

type completionResponse struct {
	CompletedMethod string `json:"completed_method"`
}

type fullExplanationResponse struct {
	FullExplanation string `json:"full_explanation"`
}

type errorDetail struct {
	Detail string `json:"detail"`
}

// StartSession asks the relay to open a session for a document, sending the
// file name and its full current text.
func (c *Client) StartSession(ctx context.Context, fileName, fullFile string) (string, error) {
	var resp startSessionResponse
	err := c.postJSON(ctx, "/start_session", startSessionRequest{
		FileName: fileName,
		FullFile: fullFile,
	}, &resp)
	if err != nil {
		return "", neoerr.Wrap(err, neoerr.CodeSessionStartFailure, "starting session",
			neoerr.FieldDocument(fileName))
	}
	if resp.SessionID == "" {
		return "", neoerr.New(neoerr.CodeSessionResponseInvalid,
			"start_session reply missing session_id", neoerr.FieldDocument(fileName))
	}
	return resp.SessionID, nil
}

// Explain requests a prose explanation of the snippet.
func (c *Client) Explain(ctx context.Context, sessionID, snippet, question, lang string) (string, error) {
	var resp explainResponse
	err := c.postJSON(ctx, "/explain", snippetRequest{
		SessionID:       sessionID,
		Snippet:         snippet,
		Question:        question,
		ProgrammingLang: lang,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Explanation == "" {
		return "", neoerr.New(neoerr.CodeClientResponseInvalid,
			"explain reply missing explanation", neoerr.FieldSessionID(sessionID))
	}
	return resp.Explanation, nil
}

// Fix requests a corrected version of the snippet.
func (c *Client) Fix(ctx context.Context, sessionID, snippet, lang string) (string, error) {
	var resp fixResponse
	err := c.postJSON(ctx, "/fix", snippetRequest{
		SessionID:       sessionID,
		Snippet:         snippet,
		ProgrammingLang: lang,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.FixedCode == "" {
		return "", neoerr.New(neoerr.CodeClientResponseInvalid,
			"fix reply missing fixed_code", neoerr.FieldSessionID(sessionID))
	}
	return resp.FixedCode, nil
}

// CompleteMethod requests a completion of the selected method.
func (c *Client) CompleteMethod(ctx context.Context, sessionID, snippet, lang string) (string, error) {
	var resp completionResponse
	err := c.postJSON(ctx, "/method_completion", snippetRequest{
		SessionID:       sessionID,
		Snippet:         snippet,
		ProgrammingLang: lang,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.CompletedMethod == "" {
		return "", neoerr.New(neoerr.CodeClientResponseInvalid,
			"method_completion reply missing completed_method", neoerr.FieldSessionID(sessionID))
	}
	return resp.CompletedMethod, nil
}

// FullExplanation fetches every assistant turn of the session joined into
// one transcript. The relay takes session_id as a query parameter here.
func (c *Client) FullExplanation(ctx context.Context, sessionID string) (string, error) {
	path := "/get_full_explanation?" + url.Values{"session_id": {sessionID}}.Encode()

	var resp fullExplanationResponse
	if err := c.postJSON(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.FullExplanation, nil
}

// postJSON sends body to path and decodes the 200 response into out.
// The configured timeout cancels the in-flight request on expiry.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return neoerr.Wrapf(err, neoerr.CodeClientRequestFailure, "encoding request for %s", path)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, payload)
	if err != nil {
		return neoerr.Wrapf(err, neoerr.CodeClientRequestFailure, "building request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return neoerr.Errorf(neoerr.CodeClientRequestTimeout,
				"request to %s timed out after %s", path, c.timeout)
		}
		return neoerr.Wrapf(err, neoerr.CodeClientRequestFailure, "posting to %s", path)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var detail errorDetail
		if json.Unmarshal(raw, &detail) == nil && detail.Detail != "" {
			return neoerr.Errorf(neoerr.CodeClientRequestFailure,
				"relay returned status %d for %s: %s", resp.StatusCode, path, detail.Detail)
		}
		return neoerr.Errorf(neoerr.CodeClientRequestFailure,
			"relay returned status %d for %s", resp.StatusCode, path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return neoerr.Wrapf(err, neoerr.CodeClientResponseInvalid, "decoding reply from %s", path)
	}

	return nil
}
