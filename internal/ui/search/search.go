// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search implements the find-friends view: a username query box, a
// result list, and per-result friend-request actions.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/controller"
	"github.com/teja272004/chatify-tui/internal/ui/components"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
	"github.com/teja272004/chatify-tui/internal/util"
)

// =============================================================================
// MESSAGES
// =============================================================================

// BackMsg asks the parent to return to the messaging view.
type BackMsg struct{}

type searchResult struct {
	query string
	users []api.User
	err   error
}

type requestResult struct {
	recipientID string
	err         error
}

const opTimeout = 15 * time.Second

// =============================================================================
// MODEL
// =============================================================================

// Model is the user search view.
type Model struct {
	theme *styles.Theme
	ctrl  *controller.Controller

	input     textinput.Model
	results   []api.User
	cursor    int
	searching bool
	query     string

	// sent tracks requests dispatched this session so the row flips to a
	// "request sent" state without refetching anything.
	sent map[string]bool

	banner  *components.ErrorBanner
	spinner spinner.Model

	width  int
	height int
}

// New builds the search view.
func New(theme *styles.Theme, ctrl *controller.Controller) Model {
	in := textinput.New()
	in.Placeholder = "Search by username"
	in.CharLimit = 64
	in.Width = 40
	in.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		theme:   theme,
		ctrl:    ctrl,
		input:   in,
		sent:    make(map[string]bool),
		banner:  components.NewErrorBanner(theme),
		spinner: sp,
	}
}

// Init starts the spinner ticker.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the search view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.banner.SetWidth(msg.Width)
		return m, nil

	case spinner.TickMsg:
		if m.searching {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case searchResult:
		if msg.query != m.query {
			// A newer search superseded this one.
			return m, nil
		}
		m.searching = false
		if msg.err != nil {
			m.results = nil
			m.banner.Show(msg.err)
			return m, nil
		}
		m.results = m.filterSelf(msg.users)
		m.cursor = 0
		return m, nil

	case requestResult:
		if msg.err != nil {
			m.banner.Show(msg.err)
			return m, nil
		}
		m.banner.Clear()
		m.sent[msg.recipientID] = true
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

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
		return m, nil

	case tea.KeyCtrlA:
		return m.sendRequest()

	case tea.KeyEnter:
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, nil
		}
		m.query = query
		m.searching = true
		m.banner.Clear()
		return m, tea.Batch(m.searchCmd(query), m.spinner.Tick)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) sendRequest() (Model, tea.Cmd) {
	if m.cursor >= len(m.results) {
		return m, nil
	}
	target := m.results[m.cursor]
	if m.sent[target.ID] || m.ctrl.Friends().IsFriend(target.ID) {
		return m, nil
	}
	return m, m.requestCmd(target.ID)
}

// filterSelf drops the searching user from their own results.
func (m Model) filterSelf(users []api.User) []api.User {
	out := users[:0:0]
	for _, u := range users {
		if u.ID != m.ctrl.SelfID() {
			out = append(out, u)
		}
	}
	return out
}

// =============================================================================
// COMMANDS
// =============================================================================

func (m Model) searchCmd(query string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		users, err := ctrl.Search(ctx, query)
		return searchResult{query: query, users: users, err: err}
	}
}

func (m Model) requestCmd(recipientID string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return requestResult{recipientID: recipientID, err: ctrl.SendFriendRequest(ctx, recipientID)}
	}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the query box and the result list.
func (m Model) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString(t.FormTitle.Render("Find friends"))
	b.WriteString("\n\n")
	b.WriteString(t.FormFocused.Render(m.input.View()))
	b.WriteString("\n\n")

	switch {
	case m.searching:
		b.WriteString(m.spinner.View() + t.LoadingText.Render(" Searching..."))

	case m.query != "" && len(m.results) == 0 && !m.banner.Visible():
		b.WriteString(t.LoadingDetail.Render("No users match \"" + m.query + "\""))

	default:
		for i, u := range m.results {
			b.WriteString(m.renderRow(i, u) + "\n")
		}
	}
	b.WriteString("\n")

	if m.banner.Visible() {
		b.WriteString(m.banner.Render() + "\n")
	}
	b.WriteString(t.FormSwitchHint.Render("enter search   ctrl+a add friend   esc back"))
	return t.Container.Render(b.String())
}

func (m Model) renderRow(i int, u api.User) string {
	t := m.theme
	name := util.TruncateWidth(u.Username, 32)

	var status string
	switch {
	case m.ctrl.Friends().IsFriend(u.ID):
		status = t.FriendOnline.Render("already friends")
	case m.sent[u.ID]:
		status = styles.RenderSuccess("request sent")
	default:
		status = t.LoadingDetail.Render("ctrl+a to add")
	}

	line := name + "  " + status
	if i == m.cursor {
		return t.FriendSelected.Render("> " + line)
	}
	return t.FriendItem.Render("  " + line)
}
