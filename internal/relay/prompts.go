// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package relay

import (
	"fmt"
	"strings"

	"github.com/jackeddaniel/neobot/internal/store"
)

// explainPrompt asks for a concise explanation of the snippet. The full file
// and the running conversation give the model context for follow-ups.
func explainPrompt(snippet, question, lang, fullFile string, history []*store.Turn) string {
	var b strings.Builder

	if lang != "" {
		fmt.Fprintf(&b, "Programming language: %s\n", lang)
	}
	fmt.Fprintf(&b, "Explain the following code snippet concisely in the context of the full file:\n%s\n", snippet)
	if question != "" {
		fmt.Fprintf(&b, "Question: %s\n", question)
	}
	fmt.Fprintf(&b, "\nFull file:\n%s\n\n", fullFile)

	for _, turn := range history {
		fmt.Fprintf(&b, "%s:\n%s\n", turn.Role, turn.Content)
	}

	return b.String()
}

// fixPrompt asks for a corrected snippet. Only the snippet is sent; the fix
// must stand on its own so it can be written back in place.
func fixPrompt(snippet, lang string) string {
	var b strings.Builder

	if lang != "" {
		fmt.Fprintf(&b, "Programming language: %s\n\n", lang)
	}
	fmt.Fprintf(&b, "Fix any bugs in the following code snippet:\n\n```\n%s\n```\n\n", snippet)
	b.WriteString("Return only the corrected code snippet.")

	return b.String()
}

// completionPrompt asks for a finished method body given the full file as
// surrounding context.
func completionPrompt(snippet, lang, fullFile string) string {
	var b strings.Builder

	if lang != "" {
		fmt.Fprintf(&b, "Programming language: %s\n", lang)
	}
	fmt.Fprintf(&b, "Complete the following method within the context of the code:\n%s\n\nFull context:\n%s\n", snippet, fullFile)
	b.WriteString("\nReturn only the completed method implementation.")

	return b.String()
}
