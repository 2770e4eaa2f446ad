// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jackeddaniel/neobot/internal/markdown"
)

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain FILE",
		Short: "Explain the selected code",
		Long:  "Send the selection to the assistant and show a plain-prose explanation in a scrollable panel.",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplain,
	}

	addSelectionFlags(cmd)
	cmd.Flags().StringP("question", "q", "", "optional question to focus the explanation")
	cmd.Flags().Bool("plain", false, "print to stdout instead of the interactive panel")

	return cmd
}

func runExplain(cmd *cobra.Command, args []string) error {
	rng, err := selectionFromFlags(cmd)
	if err != nil {
		return err
	}
	question, _ := cmd.Flags().GetString("question")
	plain, _ := cmd.Flags().GetBool("plain")

	assist, err := newAssistSession(args[0])
	if err != nil {
		return err
	}

	snippet, err := assist.doc.Extract(rng)
	if err != nil {
		return err
	}

	_, err = runAssist(cmd.OutOrStdout(), plain || !assist.cfg.SpinnerEnabled, "Explaining "+assist.doc.Name(),
		func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			explanation, err := assist.client.Explain(ctx, id, snippet, question, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.CleanProse(explanation), nil
		})
	return err
}
