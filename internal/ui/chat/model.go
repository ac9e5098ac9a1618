// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the main messaging view: the friends sidebar, the
// active conversation, and the message input.
package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teja272004/chatify-tui/internal/call"
	"github.com/teja272004/chatify-tui/internal/controller"
	"github.com/teja272004/chatify-tui/internal/ui/components"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// focusArea says which pane receives keys.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusInput
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the messaging view.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Domain
	ctrl  *controller.Controller
	calls *call.Manager

	// Active conversation
	activePeer string
	peerName   string
	loading    bool

	// Presence, kept as a set for sidebar lookups
	online map[string]bool

	// Focus
	focus focusArea

	// UI components
	header    *components.Header
	sidebar   *components.Sidebar
	statusBar *components.StatusBar
	banner    *components.ErrorBanner
	viewport  viewport.Model
	input     textinput.Model
	spinner   spinner.Model

	// Call overlay state
	callStatus call.Status
	callPeer   string

	// Key bindings
	keys KeyMap

	sidebarWidth int
}

// New creates the messaging view. The controller must already be
// initialized; the view's Init only spins the loading indicator.
func New(theme *styles.Theme, ctrl *controller.Controller, calls *call.Manager, sidebarWidth int) Model {
	input := textinput.New()
	input.Placeholder = "Type a message..."
	input.CharLimit = 2000
	input.Prompt = "> "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	header := components.NewHeader(theme, "Chats")
	header.Username = ctrl.Username()

	return Model{
		theme:        theme,
		ctrl:         ctrl,
		calls:        calls,
		online:       make(map[string]bool),
		header:       header,
		sidebar:      components.NewSidebar(theme, sidebarWidth),
		statusBar:    components.NewStatusBar(theme, chatShortcuts()),
		banner:       components.NewErrorBanner(theme),
		viewport:     viewport.New(80, 20),
		input:        input,
		spinner:      sp,
		keys:         DefaultKeyMap(),
		sidebarWidth: sidebarWidth,
	}
}

func chatShortcuts() []components.Shortcut {
	return []components.Shortcut{
		{Key: "tab", Desc: "focus"},
		{Key: "enter", Desc: "open/send"},
		{Key: "a/r", Desc: "request"},
		{Key: "ctrl+t", Desc: "call"},
		{Key: "ctrl+f", Desc: "search"},
		{Key: "ctrl+g", Desc: "ai"},
		{Key: "ctrl+l", Desc: "logout"},
	}
}

// Init starts the spinner and syncs the sidebar with the stores.
func (m Model) Init() tea.Cmd {
	m.refreshSidebar()
	return m.spinner.Tick
}

// refreshSidebar rebuilds the sidebar rows from store state.
func (m *Model) refreshSidebar() {
	m.sidebar.Update(
		m.ctrl.Friends().Requests(),
		m.ctrl.Friends().Friends(),
		m.ctrl.Conversations().Unreads(),
		m.online,
	)
}

// ActivePeer returns the open conversation's peer id, or "".
func (m Model) ActivePeer() string {
	return m.activePeer
}
