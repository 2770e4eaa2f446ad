// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

// probeHTTPClient is the package-level HTTP client used by diagnostics.
// Overridden in tests via httptest.
var probeHTTPClient = &http.Client{
	Timeout: 5 * time.Second,
}

// relayProbe provides HTTP access to a running relay for diagnostics.
type relayProbe struct {
	baseURL string
	http    *http.Client
}

// newRelayProbe creates a probe targeting the given base URL.
func newRelayProbe(baseURL string) *relayProbe {
	return &relayProbe{
		baseURL: baseURL,
		http:    probeHTTPClient,
	}
}

// getJSON performs a GET request and decodes the JSON response into dest.
// Returns CodeCLIRelayNotRunning on connection refused.
func (c *relayProbe) getJSON(path string, dest any) error {
	resp, err := c.http.Get(c.baseURL + path)
	if err != nil {
		if isDialError(err) {
			return neoerr.New(neoerr.CodeCLIRelayNotRunning, "relay is not running (connection refused)")
		}
		return neoerr.Wrap(err, neoerr.CodeClientRequestFailure, "request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return neoerr.Errorf(neoerr.CodeClientRequestFailure,
			"relay returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return neoerr.Wrap(err, neoerr.CodeClientResponseInvalid, "invalid response")
	}
	return nil
}

// isDialError returns true if err is a net dial error (connection refused, etc.).
func isDialError(err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return opErr.Op == "dial"
	}
	return false
}
