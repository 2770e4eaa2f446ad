// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neobot Contributors

package main

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Surface geometry caps. The response panel floats over the terminal and
// never takes the whole screen.
const (
	surfaceMaxWidth   = 120
	surfaceMaxRows    = 30
	surfaceWidthFrac  = 0.70
	surfaceHeightFrac = 0.65
)

// surfaceSize computes the floating panel's dimensions for a terminal of
// termW x termH showing contentLines lines of text.
func surfaceSize(termW, termH, contentLines int) (w, h int) {
	w = int(float64(termW) * surfaceWidthFrac)
	if w > surfaceMaxWidth {
		w = surfaceMaxWidth
	}
	if w < 20 {
		w = 20
	}

	h = int(float64(termH) * surfaceHeightFrac)
	if h > surfaceMaxRows {
		h = surfaceMaxRows
	}
	if wanted := contentLines + 2; h > wanted {
		h = wanted
	}
	if h < 3 {
		h = 3
	}
	return w, h
}

// assistStep tracks the surface lifecycle.
type assistStep int

const (
	stepWaiting assistStep = iota // request in flight (spinner)
	stepViewing                   // response shown in the viewport
	stepFailed                    // request failed
)

type (
	replyMsg struct{ text string }
	failMsg  struct{ err error }
)

var (
	surfaceTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	surfaceBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("62")).Padding(0, 1)
	surfaceFooterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// assistModel renders one request/response cycle: a spinner while the relay
// call is in flight, then a scrollable read-only panel with the reply.
type assistModel struct {
	step     assistStep
	title    string
	spinner  spinner.Model
	viewport viewport.Model
	content  string
	err      error

	termWidth  int
	termHeight int

	ctx    context.Context
	cancel context.CancelFunc
	run    func(context.Context) (string, error)
}

func newAssistModel(title string, run func(context.Context) (string, error)) assistModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ctx, cancel := context.WithCancel(context.Background())

	return assistModel{
		step:       stepWaiting,
		title:      title,
		spinner:    sp,
		termWidth:  80,
		termHeight: 24,
		ctx:        ctx,
		cancel:     cancel,
		run:        run,
	}
}

func (m assistModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.requestCmd())
}

// requestCmd runs the relay call off the UI loop. Closing the surface
// cancels the context, which aborts the in-flight request.
func (m assistModel) requestCmd() tea.Cmd {
	ctx, run := m.ctx, m.run
	return func() tea.Msg {
		text, err := run(ctx)
		if err != nil {
			return failMsg{err: err}
		}
		return replyMsg{text: text}
	}
}

func (m assistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		if m.step == stepViewing {
			m.resizeViewport()
		}
		return m, nil

	case spinner.TickMsg:
		if m.step != stepWaiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case replyMsg:
		m.step = stepViewing
		m.content = msg.text
		if strings.TrimSpace(m.content) == "" {
			m.content = "(no output)"
		}
		m.resizeViewport()
		return m, nil

	case failMsg:
		m.step = stepFailed
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m assistModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.cancel()
		return m, tea.Quit
	case "ctrl+d":
		if m.step == stepViewing {
			m.viewport.HalfViewDown()
		}
		return m, nil
	case "ctrl+u":
		if m.step == stepViewing {
			m.viewport.HalfViewUp()
		}
		return m, nil
	}

	if m.step == stepViewing {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *assistModel) resizeViewport() {
	lines := strings.Count(m.content, "\n") + 1
	w, h := surfaceSize(m.termWidth, m.termHeight, lines)

	m.viewport = viewport.New(w-4, h-2) // border and padding
	m.viewport.SetContent(wrapContent(m.content, w-4))
}

// wrapContent soft-wraps long lines so nothing is cut off horizontally.
func wrapContent(s string, width int) string {
	if width < 1 {
		return s
	}
	var b strings.Builder
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			b.WriteByte('\n')
		}
		for len(line) > width {
			b.WriteString(line[:width])
			b.WriteByte('\n')
			line = line[width:]
		}
		b.WriteString(line)
	}
	return b.String()
}

func (m assistModel) View() string {
	switch m.step {
	case stepWaiting:
		return m.spinner.View() + " " + m.title + "… (q to cancel)\n"
	case stepViewing:
		box := surfaceBoxStyle.Render(m.viewport.View())
		w := lipgloss.Width(box)

		var b strings.Builder
		b.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Center, surfaceTitleStyle.Render(" "+m.title+" ")) + "\n")
		b.WriteString(box + "\n")
		b.WriteString(surfaceFooterStyle.Render("  ↑/↓ scroll · ctrl+d/ctrl+u half page · q close"))

		// Float the surface in the middle of the terminal.
		return lipgloss.Place(m.termWidth, m.termHeight, lipgloss.Center, lipgloss.Center, b.String())
	default:
		return ""
	}
}

// runAssist executes run and presents the reply. With the spinner surface
// disabled the call happens inline and the reply goes to stdout.
func runAssist(out io.Writer, plain bool, title string, run func(context.Context) (string, error)) (string, error) {
	if plain {
		text, err := run(context.Background())
		if err != nil {
			return "", err
		}
		_, _ = io.WriteString(out, text+"\n")
		return text, nil
	}

	final, err := tea.NewProgram(newAssistModel(title, run)).Run()
	if err != nil {
		return "", err
	}
	model := final.(assistModel)
	if model.err != nil {
		return "", model.err
	}
	return model.content, nil
}
