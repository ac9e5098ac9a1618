// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teja272004/chatify-tui/internal/call"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the messaging layout: header, sidebar beside the
// conversation pane, input, status bar, with the call overlay on top when a
// call is ringing or live.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	m.header.Title = "Chats"
	m.header.Subtitle = ""
	if m.activePeer != "" {
		m.header.Title = m.peerName
		if m.online[m.activePeer] {
			m.header.Subtitle = "online"
		} else {
			m.header.Subtitle = "offline"
		}
	}
	header := m.header.Render()

	m.statusBar.Online = len(m.online)
	status := m.statusBar.Render()

	conversation := m.renderConversationPane()
	sidebar := m.sidebar.Render(lipgloss.Height(conversation))
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, conversation)

	sections := []string{header, body}
	if m.banner.Visible() {
		sections = append(sections, m.banner.Render())
	}
	sections = append(sections, status)
	out := strings.Join(sections, "\n")

	if m.callStatus != call.StatusIdle {
		overlay := m.renderCallOverlay()
		return out + "\n" + overlay
	}
	return out
}

func (m Model) renderConversationPane() string {
	if m.activePeer == "" {
		hint := m.theme.LoadingText.Render("Select a friend to start chatting") +
			"\n" + m.theme.LoadingDetail.Render("tab switches panes, ctrl+f finds people")
		return lipgloss.Place(m.viewport.Width, m.viewport.Height+2, lipgloss.Center, lipgloss.Center, hint)
	}

	var conv string
	if m.loading {
		conv = lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center,
			m.spinner.View()+" "+m.theme.LoadingText.Render("loading conversation"))
	} else {
		conv = m.viewport.View()
	}

	input := m.theme.InputContainer.Width(m.viewport.Width).Render(m.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, conv, input)
}

// =============================================================================
// CALL OVERLAY
// =============================================================================

func (m Model) renderCallOverlay() string {
	var body string
	switch m.callStatus {
	case call.StatusRinging:
		name := m.peerNameFor(m.callPeer)
		body = m.theme.CallRinging.Render(fmt.Sprintf("Incoming call from %s", name)) +
			"\n" + m.theme.ShortcutDesc.Render("ctrl+y answer  ctrl+e decline")
	case call.StatusDialing:
		body = m.theme.CallTitle.Render(fmt.Sprintf("Calling %s...", m.peerNameFor(m.callPeer))) +
			"\n" + m.theme.ShortcutDesc.Render("ctrl+e cancel")
	case call.StatusInCall:
		body = m.theme.CallLive.Render(fmt.Sprintf("In call with %s", m.peerNameFor(m.callPeer))) +
			"\n" + m.theme.ShortcutDesc.Render("ctrl+e hang up")
	default:
		return ""
	}
	box := m.theme.CallBox.Render(body)
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, box)
}

func (m Model) peerNameFor(id string) string {
	if name := m.ctrl.Friends().Username(id); name != "" {
		return name
	}
	if id == m.activePeer && m.peerName != "" {
		return m.peerName
	}
	return id
}
