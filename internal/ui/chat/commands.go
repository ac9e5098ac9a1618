// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/store"
)

// opTimeout bounds every command-driven network call. Channel pushes are not
// affected; only the REST round trips.
const opTimeout = 15 * time.Second

// =============================================================================
// RESULT MESSAGES
// =============================================================================

// activateResult lands after a conversation activation settles.
type activateResult struct {
	Peer string
	Name string
	Err  error
}

// sendResult lands after a send settles.
type sendResult struct {
	Peer    string
	Message store.Message
	Err     error
}

// respondResult lands after a friend-request decision settles.
type respondResult struct {
	SenderID string
	Action   api.Action
	Err      error
}

// callResult lands after a dial or answer settles.
type callResult struct {
	Err error
}

// LogoutMsg asks the parent view to tear the session down and return to
// the auth flow.
type LogoutMsg struct{}

// OpenSearchMsg asks the parent to switch to the user search view.
type OpenSearchMsg struct{}

// OpenAIMsg asks the parent to switch to the AI assistant view.
type OpenAIMsg struct{}

// =============================================================================
// COMMANDS
// =============================================================================

// activateCmd opens the conversation with peer: history load plus display
// name resolution. Activation failures still open the view; the error shows
// in the banner over whatever state is present.
func (m Model) activateCmd(peer string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := ctrl.Activate(ctx, peer)
		name, nameErr := ctrl.ResolvePeerName(ctx, peer)
		if nameErr != nil {
			name = peer
		}
		return activateResult{Peer: peer, Name: name, Err: err}
	}
}

func (m Model) sendCmd(peer, body string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		msg, err := ctrl.SendMessage(ctx, peer, body)
		return sendResult{Peer: peer, Message: msg, Err: err}
	}
}

func (m Model) respondCmd(senderID string, action api.Action) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()

		err := ctrl.RespondToRequest(ctx, senderID, action)
		return respondResult{SenderID: senderID, Action: action, Err: err}
	}
}

func (m Model) dialCmd(peer string) tea.Cmd {
	calls := m.calls
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return callResult{Err: calls.Dial(ctx, peer)}
	}
}

func (m Model) answerCmd() tea.Cmd {
	calls := m.calls
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return callResult{Err: calls.Answer(ctx)}
	}
}
