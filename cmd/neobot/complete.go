// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jackeddaniel/neobot/internal/editor"
	"github.com/jackeddaniel/neobot/internal/markdown"
)

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete FILE",
		Short: "Complete the selected method",
		Long:  "Send the partial method to the assistant and show the completed implementation. With --insert, the completion is inserted after the selection and the file saved.",
		Args:  cobra.ExactArgs(1),
		RunE:  runComplete,
	}

	addSelectionFlags(cmd)
	cmd.Flags().BoolP("insert", "i", false, "insert the completion after the selection and save")
	cmd.Flags().Bool("plain", false, "print to stdout instead of the interactive panel")

	return cmd
}

func runComplete(cmd *cobra.Command, args []string) error {
	rng, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	insert, _ := cmd.Flags().GetBool("insert")
	plain, _ := cmd.Flags().GetBool("plain")

	assist, err := newAssistSession(args[0])
	if err != nil {
		return err
	}

	snippet, err := assist.doc.Extract(rng)
	if err != nil {
		return err
	}

	completed, err := runAssist(cmd.OutOrStdout(), insert || plain || !assist.cfg.SpinnerEnabled, "Completing "+assist.doc.Name(),
		func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			reply, err := assist.client.CompleteMethod(ctx, id, snippet, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.StripFence(reply), nil
		})
	if err != nil {
		return err
	}

	if !insert {
		return nil
	}

	if err := assist.doc.Apply(rng, completed, editor.MutateInsertAfter); err != nil {
		return err
	}
	if err := assist.doc.Save(); err != nil {
		return err
	}

	notifyInfo(cmd.ErrOrStderr(), "Inserted completion into %s", assist.doc.Name())
	return nil
}
