// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package controller

import (
	"encoding/json"

	"github.com/teja272004/chatify-tui/internal/channel"
	"github.com/teja272004/chatify-tui/internal/store"
)

// =============================================================================
// NOTIFICATION MESSAGES
// =============================================================================

// These land in the UI via the Notify hook, typically as tea messages fed to
// the program's Send.

// HistoryLoaded announces that a conversation's history finished loading.
type HistoryLoaded struct {
	Peer string
}

// MessageReceived announces an inbound direct message that was accepted into
// the store. Peer is the conversation it landed under.
type MessageReceived struct {
	Peer    string
	Message store.Message
}

// MessagePing is the lightweight new-message nudge. The message itself
// arrives through MessageReceived; this only identifies the sender, so the
// friend list can reorder or flash without waiting for the body.
type MessagePing struct {
	SenderID string
}

// RequestReceived announces a pushed incoming friend request.
type RequestReceived struct {
	Request store.Request
}

// PresenceChanged carries the server's latest list of connected user ids.
type PresenceChanged struct {
	Online []string
}

// =============================================================================
// PUSH HANDLERS
// =============================================================================

// subscribeAll registers every push handler the session needs, once. The
// matching deregistration happens in Teardown. Handlers run on the channel's
// read goroutine; they mutate the stores and then hand off to Notify.
func (c *Controller) subscribeAll() {
	unsubs := []func(){
		c.ch.Subscribe(channel.EventPrivateMessage, c.onPrivateMessage),
		c.ch.Subscribe(channel.EventFriendRequest, c.onFriendRequest),
		c.ch.Subscribe(channel.EventNewMessage, c.onNewMessage),
		c.ch.Subscribe(channel.EventMe, c.onMe),
		c.ch.Subscribe(channel.EventUserList, c.onUserList),
	}

	c.mu.Lock()
	c.unsubs = append(c.unsubs, unsubs...)
	c.mu.Unlock()
}

func (c *Controller) onPrivateMessage(data json.RawMessage) {
	var pm channel.PrivateMessage
	if err := json.Unmarshal(data, &pm); err != nil {
		c.logger.Warn("bad private message payload", "error", err)
		return
	}
	m := store.Message{Sender: pm.Sender, Receiver: pm.Receiver, Body: pm.Message}
	if !c.conv.AppendRemote(m) {
		// Echo of our own send, already appended locally.
		return
	}
	c.notify(MessageReceived{Peer: pm.Sender, Message: m})
}

func (c *Controller) onFriendRequest(data json.RawMessage) {
	var ev channel.FriendRequestEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		c.logger.Warn("bad friend request payload", "error", err)
		return
	}
	req := store.Request{ID: ev.ID, Username: ev.Username}
	c.friends.AddRequest(req)
	c.notify(RequestReceived{Request: req})
}

// onNewMessage forwards the sender-only nudge. The unread count is owned by
// the private-message path; counting here as well would double every inbound
// message.
func (c *Controller) onNewMessage(data json.RawMessage) {
	var notice channel.NewMessageNotice
	if err := json.Unmarshal(data, &notice); err != nil {
		c.logger.Warn("bad new message notice", "error", err)
		return
	}
	c.notify(MessagePing{SenderID: notice.SenderID})
}

func (c *Controller) onMe(data json.RawMessage) {
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		c.logger.Warn("bad socket id payload", "error", err)
		return
	}
	c.mu.Lock()
	c.socketID = id
	c.mu.Unlock()
}

func (c *Controller) onUserList(data json.RawMessage) {
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		c.logger.Warn("bad user list payload", "error", err)
		return
	}
	c.mu.Lock()
	c.online = ids
	c.mu.Unlock()
	c.notify(PresenceChanged{Online: ids})
}
