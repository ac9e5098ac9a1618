// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package aichat implements the AI assistant view: a session-scoped
// transcript against the backend's AI endpoint. The transcript lives only in
// this model; leaving the view and coming back starts fresh, matching the
// backend, which keeps no AI history.
package aichat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/teja272004/chatify-tui/internal/ui/components"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// BackMsg asks the parent to return to the messaging view.
type BackMsg struct{}

type replyResult struct {
	prompt string
	reply  string
	err    error
}

const opTimeout = 30 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Assistant is the slice of the API client the view needs.
type Assistant interface {
	AskAI(ctx context.Context, message string) (string, error)
}

type entry struct {
	prompt string
	reply  string
	failed bool
}

// Model is the AI assistant view.
type Model struct {
	theme  *styles.Theme
	client Assistant

	transcript []entry
	waiting    bool

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	banner   *components.ErrorBanner

	// markdown renders assistant replies; nil falls back to plain text.
	markdown *glamour.TermRenderer

	width  int
	height int
}

// New builds the assistant view.
func New(theme *styles.Theme, client Assistant) Model {
	in := textinput.New()
	in.Placeholder = "Ask the assistant..."
	in.CharLimit = 2000
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	// Replies come back as markdown; render them if the terminal allows.
	md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		md = nil
	}

	return Model{
		theme:    theme,
		client:   client,
		viewport: viewport.New(78, 18),
		input:    in,
		spinner:  sp,
		banner:   components.NewErrorBanner(theme),
		markdown: md,
	}
}

// Init starts the spinner ticker.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the assistant view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.banner.SetWidth(msg.Width)
		m.viewport.Width = max(msg.Width-4, 20)
		m.viewport.Height = max(msg.Height-7, 3)
		m.input.Width = m.viewport.Width - 4
		m.syncTranscript()
		return m, nil

	case spinner.TickMsg:
		if m.waiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case replyResult:
		m.waiting = false
		e := entry{prompt: msg.prompt, reply: msg.reply}
		if msg.err != nil {
			e.reply = "The assistant is unavailable right now. Try again later."
			e.failed = true
		}
		m.transcript = append(m.transcript, e)
		m.syncTranscript()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		return m, func() tea.Msg { return BackMsg{} }

	case tea.KeyEnter:
		prompt := strings.TrimSpace(m.input.Value())
		if prompt == "" || m.waiting {
			return m, nil
		}
		m.waiting = true
		m.input.Reset()
		return m, tea.Batch(m.askCmd(prompt), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) askCmd(prompt string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		reply, err := client.AskAI(ctx, prompt)
		return replyResult{prompt: prompt, reply: reply, err: err}
	}
}

// syncTranscript repaints the viewport from the transcript.
func (m *Model) syncTranscript() {
	t := m.theme
	var b strings.Builder
	for _, e := range m.transcript {
		b.WriteString(t.MineBubble.Render(e.prompt))
		b.WriteString("\n")
		if e.failed {
			b.WriteString(t.ErrorMessage.Render(e.reply))
		} else {
			b.WriteString(t.AIBubble.Render(m.renderReply(e.reply)))
		}
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m Model) renderReply(reply string) string {
	if m.markdown == nil {
		return reply
	}
	rendered, err := m.markdown.Render(reply)
	if err != nil {
		return reply
	}
	return strings.TrimSpace(rendered)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the transcript and the prompt box.
func (m Model) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.FormTitle.Render("AI assistant"))
	b.WriteString("\n\n")

	if len(m.transcript) == 0 && !m.waiting {
		b.WriteString(t.LoadingDetail.Render("Ask anything. The conversation is not saved."))
	} else {
		b.WriteString(m.viewport.View())
	}
	b.WriteString("\n")

	if m.waiting {
		b.WriteString(m.spinner.View() + t.LoadingText.Render(" Thinking..."))
		b.WriteString("\n")
	}
	if m.banner.Visible() {
		b.WriteString(m.banner.Render() + "\n")
	}
	b.WriteString(t.FormFocused.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(t.FormSwitchHint.Render("enter send   esc back"))
	return t.Container.Render(b.String())
}
