// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jackeddaniel/neobot/internal/editor"
	"github.com/jackeddaniel/neobot/internal/markdown"
	neoerr "github.com/jackeddaniel/neobot/pkg/errors"
)

func newAttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach FILE",
		Short: "Interactive assistant loop for one document",
		Long: `Attach to a document and run repeated assistant operations against it.
The relay session is started once and reused, so follow-up requests carry
the conversation history.

Commands inside the loop:
  e START END [question]   explain the selection
  f START END              fix the selection
  c START END              complete the selection
  t                        show the full session transcript
  q                        quit`,
		Args: cobra.ExactArgs(1),
		RunE: runAttach,
	}
}

func runAttach(cmd *cobra.Command, args []string) error {
	assist, err := newAssistSession(args[0])
	if err != nil {
		return err
	}

	final, err := tea.NewProgram(newAttachModel(assist)).Run()
	if err != nil {
		return err
	}
	model := final.(attachModel)
	return model.err
}

// attachStep tracks the loop state.
type attachStep int

const (
	attachStepCommand attachStep = iota // reading the next command
	attachStepWaiting                   // request in flight
	attachStepViewing                   // showing a reply
)

var attachPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))

// attachModel drives the interactive loop: prompt, spinner, response panel,
// back to prompt. One relay session serves every operation.
type attachModel struct {
	assist *assistSession

	step    attachStep
	input   textinput.Model
	spinner spinner.Model

	surface assistModel // reused for the viewport geometry and rendering
	status  string
	err     error

	termWidth  int
	termHeight int

	cancel context.CancelFunc
}

func newAttachModel(assist *assistSession) attachModel {
	in := textinput.New()
	in.Placeholder = "e 10 20 what does this do?"
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return attachModel{
		assist:     assist,
		step:       attachStepCommand,
		input:      in,
		spinner:    sp,
		termWidth:  80,
		termHeight: 24,
	}
}

func (m attachModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m attachModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		if m.step == attachStepViewing {
			m.surface.termWidth = msg.Width
			m.surface.termHeight = msg.Height
			m.surface.resizeViewport()
		}
		return m, nil

	case spinner.TickMsg:
		if m.step != attachStepWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		m.step = attachStepViewing
		m.surface.step = stepViewing
		m.surface.content = msg.text
		m.surface.termWidth = m.termWidth
		m.surface.termHeight = m.termHeight
		m.surface.resizeViewport()
		return m, nil

	case failMsg:
		m.step = attachStepCommand
		m.status = msg.err.Error()
		m.input.Focus()
		return m, textinput.Blink

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m attachModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	}

	switch m.step {
	case attachStepCommand:
		if msg.String() == "enter" {
			return m.dispatch(strings.TrimSpace(m.input.Value()))
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case attachStepWaiting:
		// q aborts the in-flight request and returns to the prompt.
		if msg.String() == "q" || msg.String() == "esc" {
			if m.cancel != nil {
				m.cancel()
			}
			m.step = attachStepCommand
			m.status = "request cancelled"
			m.input.Focus()
			return m, textinput.Blink
		}
		return m, nil

	case attachStepViewing:
		switch msg.String() {
		case "q", "esc":
			m.step = attachStepCommand
			m.input.SetValue("")
			m.input.Focus()
			return m, textinput.Blink
		case "ctrl+d":
			m.surface.viewport.HalfViewDown()
			return m, nil
		case "ctrl+u":
			m.surface.viewport.HalfViewUp()
			return m, nil
		}
		var cmd tea.Cmd
		m.surface.viewport, cmd = m.surface.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

// dispatch parses and launches one loop command.
func (m attachModel) dispatch(line string) (tea.Model, tea.Cmd) {
	if line == "" {
		return m, nil
	}
	if line == "q" {
		return m, tea.Quit
	}

	op, rng, question, err := parseAttachCommand(line)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())

	run, title, err := m.buildRequest(op, rng, question)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}

	m.step = attachStepWaiting
	m.status = ""
	m.surface.title = title
	m.input.Blur()

	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		text, err := run(ctx)
		if err != nil {
			return failMsg{err: err}
		}
		return replyMsg{text: text}
	})
}

// buildRequest maps an op letter to a relay call against the shared session.
func (m attachModel) buildRequest(op string, rng editor.Range, question string) (func(context.Context) (string, error), string, error) {
	assist := m.assist

	if op == "t" {
		return func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			transcript, err := assist.client.FullExplanation(ctx, id)
			if err != nil {
				return "", err
			}
			if transcript == "" {
				return "(no assistant replies yet)", nil
			}
			return markdown.CleanProse(transcript), nil
		}, "Transcript", nil
	}

	snippet, err := assist.doc.Extract(rng)
	if err != nil {
		return nil, "", err
	}

	switch op {
	case "e":
		return func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			reply, err := assist.client.Explain(ctx, id, snippet, question, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.CleanProse(reply), nil
		}, "Explanation", nil
	case "f":
		return func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			reply, err := assist.client.Fix(ctx, id, snippet, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.StripFence(reply), nil
		}, "Fix", nil
	case "c":
		return func(ctx context.Context) (string, error) {
			id, err := assist.sessionID(ctx)
			if err != nil {
				return "", err
			}
			reply, err := assist.client.CompleteMethod(ctx, id, snippet, assist.language())
			if err != nil {
				return "", err
			}
			return markdown.StripFence(reply), nil
		}, "Completion", nil
	}

	return nil, "", neoerr.Errorf(neoerr.CodeCLIInputInvalid, "unknown command %q", op)
}

// parseAttachCommand splits a loop command into op, selection, and question.
func parseAttachCommand(line string) (op string, rng editor.Range, question string, err error) {
	fields := strings.Fields(line)
	op = fields[0]

	if op == "t" {
		return op, editor.Range{}, "", nil
	}
	if op != "e" && op != "f" && op != "c" {
		return "", editor.Range{}, "", neoerr.Errorf(neoerr.CodeCLIInputInvalid,
			"unknown command %q (use e, f, c, t, or q)", op)
	}
	if len(fields) < 3 {
		return "", editor.Range{}, "", neoerr.Errorf(neoerr.CodeCLIInputInvalid,
			"%s needs START and END marks, e.g. %q", op, op+" 10 20")
	}

	start, err := parseMark(fields[1])
	if err != nil {
		return "", editor.Range{}, "", err
	}
	end, err := parseMark(fields[2])
	if err != nil {
		return "", editor.Range{}, "", err
	}
	if op == "e" && len(fields) > 3 {
		question = strings.Join(fields[3:], " ")
	}

	return op, editor.Range{Start: start, End: end, Mode: editor.ModeLine}, question, nil
}

func (m attachModel) View() string {
	var b strings.Builder

	b.WriteString(surfaceTitleStyle.Render(" neobot · "+m.assist.doc.Name()+" ") + "\n\n")

	switch m.step {
	case attachStepCommand:
		b.WriteString(attachPromptStyle.Render("command") + " " + m.input.View() + "\n")
		if m.status != "" {
			b.WriteString(errStyle.Render(m.status) + "\n")
		}
		b.WriteString(faintStyle.Render("e/f/c START END [question] · t transcript · q quit"))
	case attachStepWaiting:
		b.WriteString(m.spinner.View() + " " + m.surface.title + "… (q to cancel)")
	case attachStepViewing:
		b.WriteString(surfaceBoxStyle.Render(m.surface.viewport.View()) + "\n")
		b.WriteString(faintStyle.Render("  ↑/↓ scroll · ctrl+d/ctrl+u half page · q back"))
	}

	return b.String()
}
