// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/call"
	"github.com/teja272004/chatify-tui/internal/controller"
	"github.com/teja272004/chatify-tui/internal/ui/components"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages for the messaging view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	// Controller push notifications (relayed by the app root).
	case controller.MessageReceived:
		m.refreshSidebar()
		if msg.Peer == m.activePeer {
			m.syncConversation(true)
		}
		return m, nil

	case controller.MessagePing:
		// The body arrives on the private-message event; the ping only
		// prompts a sidebar repaint.
		m.refreshSidebar()
		return m, nil

	case controller.RequestReceived:
		m.refreshSidebar()
		return m, nil

	case controller.PresenceChanged:
		m.online = make(map[string]bool, len(msg.Online))
		for _, id := range msg.Online {
			m.online[id] = true
		}
		m.refreshSidebar()
		return m, nil

	case controller.HistoryLoaded:
		if msg.Peer == m.activePeer {
			m.syncConversation(true)
		}
		return m, nil

	// Call notifications.
	case call.Ringing:
		m.callStatus = call.StatusRinging
		m.callPeer = msg.From
		return m, nil

	case call.Connected:
		m.callStatus = call.StatusInCall
		m.callPeer = msg.Peer
		return m, nil

	case call.Ended:
		m.callStatus = call.StatusIdle
		m.callPeer = ""
		return m, nil

	// Command results.
	case activateResult:
		return m.handleActivateResult(msg)

	case sendResult:
		return m.handleSendResult(msg)

	case respondResult:
		if msg.Err != nil {
			m.banner.Show(msg.Err)
		} else {
			m.banner.Clear()
			m.refreshSidebar()
		}
		return m, nil

	case callResult:
		if msg.Err != nil {
			m.banner.Show(msg.Err)
			m.callStatus = call.StatusIdle
		} else {
			status, peer := m.calls.Snapshot()
			m.callStatus = status
			m.callPeer = peer
		}
		return m, nil
	}

	return m, nil
}

func (m *Model) handleResize(width, height int) {
	m.width = width
	m.height = height
	m.theme.SetSize(width, height)

	m.header.SetWidth(width)
	m.statusBar.SetWidth(width)
	m.banner.SetWidth(width)

	sidebarWidth := m.sidebarWidth
	if sidebarWidth > width/2 {
		sidebarWidth = width / 2
	}
	m.sidebar.SetWidth(sidebarWidth)

	convWidth := width - sidebarWidth - 3
	if convWidth < 20 {
		convWidth = 20
	}
	convHeight := height - 6
	if convHeight < 3 {
		convHeight = 3
	}
	m.viewport.Width = convWidth
	m.viewport.Height = convHeight
	m.input.Width = convWidth - 4
	m.syncConversation(false)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := m.keys

	// Call keys work regardless of pane focus.
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.AnswerCall):
		if m.callStatus == call.StatusRinging {
			return m, m.answerCmd()
		}
		return m, nil

	case key.Matches(msg, keys.HangUp):
		if m.callStatus == call.StatusRinging {
			m.calls.Decline()
			m.callStatus = call.StatusIdle
			m.callPeer = ""
			return m, nil
		}
		if m.callStatus != call.StatusIdle {
			m.calls.Hangup("hung up")
			m.callStatus = call.StatusIdle
			m.callPeer = ""
		}
		return m, nil

	case key.Matches(msg, keys.Call):
		if m.activePeer != "" && m.callStatus == call.StatusIdle {
			m.callStatus = call.StatusDialing
			m.callPeer = m.activePeer
			return m, m.dialCmd(m.activePeer)
		}
		return m, nil

	case key.Matches(msg, keys.Search):
		return m, func() tea.Msg { return OpenSearchMsg{} }

	case key.Matches(msg, keys.AIChat):
		return m, func() tea.Msg { return OpenAIMsg{} }

	case key.Matches(msg, keys.Logout):
		return m, func() tea.Msg { return LogoutMsg{} }

	case key.Matches(msg, keys.FocusNext):
		if m.focus == focusSidebar {
			m.focus = focusInput
			m.input.Focus()
		} else {
			m.focus = focusSidebar
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, keys.Back):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
			return m, nil
		}
		if m.activePeer != "" {
			m.activePeer = ""
			m.peerName = ""
			m.ctrl.Deactivate()
			m.viewport.SetContent("")
		}
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

func (m Model) handleSidebarKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	keys := m.keys
	switch {
	case key.Matches(msg, keys.Up):
		m.sidebar.MoveCursor(-1)
		return m, nil

	case key.Matches(msg, keys.Down):
		m.sidebar.MoveCursor(1)
		return m, nil

	case key.Matches(msg, keys.Accept), key.Matches(msg, keys.Reject):
		row, ok := m.sidebar.Selected()
		if !ok || row.Kind != components.RowRequest {
			return m, nil
		}
		action := api.ActionAccept
		if key.Matches(msg, keys.Reject) {
			action = api.ActionReject
		}
		// The row stays until the backend confirms; respondResult repaints.
		return m, m.respondCmd(row.ID, action)

	case key.Matches(msg, keys.Submit):
		row, ok := m.sidebar.Selected()
		if !ok || row.Kind != components.RowFriend {
			return m, nil
		}
		m.activePeer = row.ID
		m.peerName = row.Username
		m.loading = true
		m.banner.Clear()
		m.focus = focusInput
		m.input.Focus()
		m.refreshSidebar() // unread badge resets with activation
		return m, tea.Batch(m.activateCmd(row.ID), m.spinner.Tick)
	}
	return m, nil
}

func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		body := strings.TrimSpace(m.input.Value())
		if body == "" || m.activePeer == "" {
			return m, nil
		}
		// The input keeps its text until the send is confirmed, so a failed
		// send can be retried without retyping.
		return m, m.sendCmd(m.activePeer, body)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// RESULT HANDLING
// =============================================================================

func (m Model) handleActivateResult(msg activateResult) (Model, tea.Cmd) {
	if msg.Peer != m.activePeer {
		// The user moved on to another conversation while this one loaded.
		return m, nil
	}
	m.loading = false
	m.peerName = msg.Name
	if msg.Err != nil {
		m.banner.Show(msg.Err)
	}
	m.syncConversation(true)
	m.refreshSidebar()
	return m, nil
}

func (m Model) handleSendResult(msg sendResult) (Model, tea.Cmd) {
	if msg.Err != nil {
		m.banner.Show(msg.Err)
		return m, nil
	}
	m.banner.Clear()
	if strings.TrimSpace(m.input.Value()) == msg.Message.Body {
		m.input.Reset()
	}
	if msg.Peer == m.activePeer {
		m.syncConversation(true)
	}
	return m, nil
}

// syncConversation repaints the viewport from the active conversation's
// history. gotoBottom follows the newest message.
func (m *Model) syncConversation(gotoBottom bool) {
	if m.activePeer == "" {
		return
	}
	history := m.ctrl.Conversations().History(m.activePeer)
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, components.RenderMessage(m.theme, msg, m.ctrl.SelfID(), m.viewport.Width))
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}
