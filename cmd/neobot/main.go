// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"os"

	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		// Empty selections and shape mismatches are user-correctable;
		// render them as warnings rather than hard errors.
		if neoerr.HasCode(err, neoerr.CodeEditorSelectionEmpty) ||
			neoerr.HasCode(err, neoerr.CodeClientResponseInvalid) {
			notifyWarn(os.Stderr, "%s", err)
		} else {
			notifyError(os.Stderr, "%s", err)
		}
		os.Exit(1)
	}
}
