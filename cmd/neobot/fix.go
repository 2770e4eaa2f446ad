// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jackeddaniel/neobot/internal/editor"
	"github.com/jackeddaniel/neobot/internal/markdown"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix FILE",
		Short: "Fix bugs in the selected code",
		Long:  "Send the selection to the assistant and show the corrected snippet. With --write, the selection is replaced in place and the file saved.",
		Args:  cobra.ExactArgs(1),
		RunE:  runFix,
	}

	addSelectionFlags(cmd)
	cmd.Flags().BoolP("write", "w", false, "replace the selection with the fixed code and save")
	cmd.Flags().Bool("plain", false, "print to stdout instead of the interactive panel")

	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	rng, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	write, _ := cmd.Flags().GetBool("write")
	plain, _ := cmd.Flags().GetBool("plain")

	assist, err := newAssistSession(args[0])
	if err != nil {
		return err
	}

	snippet, err := assist.doc.Extract(rng)
	if err != nil {
		return err
	}

	fixed, err := runAssist(cmd.OutOrStdout(), write || plain || !assist.cfg.SpinnerEnabled, "Fixing "+assist.doc.Name(),
		func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			reply, err := assist.client.Fix(ctx, id, snippet, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.StripFence(reply), nil
		})
	if err != nil {
		return err
	}

	if !write {
		return nil
	}

	if err := assist.doc.Apply(rng, fixed, editor.MutateReplace); err != nil {
		return err
	}
	if err := assist.doc.Save(); err != nil {
		return err
	}

	notifyInfo(cmd.ErrOrStderr(), "Replaced selection in %s", assist.doc.Name())
	return nil
}
