// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package call implements peer-to-peer call signaling over the realtime
// channel, backed by a webrtc peer connection.
//
// The exchange is non-trickle: each side waits for ICE gathering to finish
// and ships the complete description in a single signal, which is what the
// relay server expects. The peer connection carries a data channel only;
// media capture and rendering are outside a terminal client.
package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/webrtc/v4"

	"github.com/teja272004/chatify-tui/internal/channel"
)

// Status is the call state machine's phase.
type Status int

const (
	// StatusIdle means no call activity.
	StatusIdle Status = iota
	// StatusDialing means we sent an offer and await the answer.
	StatusDialing
	// StatusRinging means an offer arrived and awaits our decision.
	StatusRinging
	// StatusInCall means descriptions are exchanged on both sides.
	StatusInCall
)

// String returns the status name for logs.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusDialing:
		return "dialing"
	case StatusRinging:
		return "ringing"
	case StatusInCall:
		return "in-call"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a call operation conflicts with the current
// status, e.g. dialing while a call is already ringing.
var ErrBusy = errors.New("call already in progress")

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// Ringing announces an incoming call awaiting Answer or Decline.
type Ringing struct {
	From string
}

// Connected announces that the signaling exchange completed.
type Connected struct {
	Peer string
}

// Ended announces that the call is over, locally or remotely initiated.
type Ended struct {
	Reason string
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns at most one peer connection at a time and runs the offer and
// answer exchange over the channel's call events.
type Manager struct {
	ch         channel.Channel
	selfID     string
	stunServer string
	logger     *slog.Logger
	notify     func(msg any)

	mu           sync.Mutex
	status       Status
	peer         string
	pc           *webrtc.PeerConnection
	pendingOffer *webrtc.SessionDescription
	pendingFrom  string
	unsubs       []func()
}

// NewManager builds an idle call manager. stunServer may be empty, in which
// case only host candidates are gathered (enough for same-network peers and
// for tests).
func NewManager(ch channel.Channel, selfID, stunServer string, notify func(msg any), logger *slog.Logger) *Manager {
	if notify == nil {
		notify = func(any) {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ch:         ch,
		selfID:     selfID,
		stunServer: stunServer,
		logger:     logger,
		notify:     notify,
	}
}

// Start registers the inbound call-event handlers. Stop releases them.
func (m *Manager) Start() {
	unsubs := []func(){
		m.ch.Subscribe(channel.EventIncomingCall, m.onIncomingCall),
		m.ch.Subscribe(channel.EventCallAccepted, m.onCallAccepted),
		m.ch.Subscribe(channel.EventCallEnded, m.onCallEnded),
	}
	m.mu.Lock()
	m.unsubs = append(m.unsubs, unsubs...)
	m.mu.Unlock()
}

// Stop deregisters the handlers and hangs up any live call.
func (m *Manager) Stop() {
	m.mu.Lock()
	unsubs := m.unsubs
	m.unsubs = nil
	m.mu.Unlock()
	for _, unsub := range unsubs {
		unsub()
	}
	m.Hangup("client shutting down")
}

// Snapshot returns the current phase and the peer it involves, if any.
func (m *Manager) Snapshot() (Status, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == StatusRinging {
		return m.status, m.pendingFrom
	}
	return m.status, m.peer
}

// =============================================================================
// OUTGOING CALLS
// =============================================================================

// Dial rings peerID: builds a peer connection, gathers a complete offer, and
// publishes it for relay. The call connects when the peer's answer arrives
// on callAccepted.
func (m *Manager) Dial(ctx context.Context, peerID string) error {
	m.mu.Lock()
	if m.status != StatusIdle {
		m.mu.Unlock()
		return ErrBusy
	}
	m.status = StatusDialing
	m.peer = peerID
	m.mu.Unlock()

	pc, err := m.newPeerConnection()
	if err != nil {
		m.reset()
		return err
	}
	// The offerer opens the data channel; the answerer receives it.
	if _, err := pc.CreateDataChannel("chat", nil); err != nil {
		pc.Close()
		m.reset()
		return fmt.Errorf("create data channel: %w", err)
	}

	local, err := m.gatherLocalDescription(ctx, pc, nil)
	if err != nil {
		pc.Close()
		m.reset()
		return err
	}

	m.mu.Lock()
	m.pc = pc
	m.mu.Unlock()

	signal, err := json.Marshal(local)
	if err != nil {
		m.Hangup("internal error")
		return fmt.Errorf("encode offer: %w", err)
	}
	err = m.ch.Publish(channel.EventCallUser, channel.CallRequest{
		UserToCall: peerID,
		SignalData: signal,
		From:       m.selfID,
	})
	if err != nil {
		m.Hangup("channel unavailable")
		return fmt.Errorf("publish offer: %w", err)
	}
	return nil
}

func (m *Manager) onCallAccepted(data json.RawMessage) {
	var answer webrtc.SessionDescription
	if err := json.Unmarshal(data, &answer); err != nil {
		m.logger.Warn("bad answer signal", "error", err)
		return
	}

	m.mu.Lock()
	if m.status != StatusDialing || m.pc == nil {
		m.mu.Unlock()
		return
	}
	pc := m.pc
	peer := m.peer
	m.mu.Unlock()

	if err := pc.SetRemoteDescription(answer); err != nil {
		m.logger.Warn("apply answer failed", "error", err)
		m.Hangup("bad answer from peer")
		return
	}

	m.mu.Lock()
	m.status = StatusInCall
	m.mu.Unlock()
	m.notify(Connected{Peer: peer})
}

// =============================================================================
// INCOMING CALLS
// =============================================================================

func (m *Manager) onIncomingCall(data json.RawMessage) {
	var in channel.IncomingCall
	if err := json.Unmarshal(data, &in); err != nil {
		m.logger.Warn("bad incoming call signal", "error", err)
		return
	}
	var offer webrtc.SessionDescription
	if err := json.Unmarshal(in.Signal, &offer); err != nil {
		m.logger.Warn("bad offer in incoming call", "error", err)
		return
	}

	m.mu.Lock()
	if m.status != StatusIdle {
		// Already on a call; let the caller time out.
		m.mu.Unlock()
		m.logger.Info("ignoring call while busy", "from", in.From)
		return
	}
	m.status = StatusRinging
	m.pendingOffer = &offer
	m.pendingFrom = in.From
	m.mu.Unlock()

	m.notify(Ringing{From: in.From})
}

// Answer accepts the ringing call: applies the caller's offer, gathers a
// complete answer, and publishes it back to the caller.
func (m *Manager) Answer(ctx context.Context) error {
	m.mu.Lock()
	if m.status != StatusRinging || m.pendingOffer == nil {
		m.mu.Unlock()
		return errors.New("no call to answer")
	}
	offer := m.pendingOffer
	from := m.pendingFrom
	m.mu.Unlock()

	pc, err := m.newPeerConnection()
	if err != nil {
		m.reset()
		return err
	}
	local, err := m.gatherLocalDescription(ctx, pc, offer)
	if err != nil {
		pc.Close()
		m.reset()
		return err
	}

	signal, err := json.Marshal(local)
	if err != nil {
		pc.Close()
		m.reset()
		return fmt.Errorf("encode answer: %w", err)
	}
	err = m.ch.Publish(channel.EventAnswerCall, channel.CallAnswer{
		Signal: signal,
		To:     from,
	})
	if err != nil {
		pc.Close()
		m.reset()
		return fmt.Errorf("publish answer: %w", err)
	}

	m.mu.Lock()
	m.pc = pc
	m.status = StatusInCall
	m.peer = from
	m.pendingOffer = nil
	m.pendingFrom = ""
	m.mu.Unlock()

	m.notify(Connected{Peer: from})
	return nil
}

// Decline refuses the ringing call and tells the caller it ended.
func (m *Manager) Decline() error {
	m.mu.Lock()
	if m.status != StatusRinging {
		m.mu.Unlock()
		return errors.New("no call to decline")
	}
	m.status = StatusIdle
	m.pendingOffer = nil
	m.pendingFrom = ""
	m.mu.Unlock()

	return m.ch.Publish(channel.EventEndCall, channel.CallEnded{Reason: "declined"})
}

// =============================================================================
// TEARDOWN
// =============================================================================

// Hangup ends whatever call activity is in progress and tells the peer. A
// no-op when idle.
func (m *Manager) Hangup(reason string) {
	m.mu.Lock()
	if m.status == StatusIdle {
		m.mu.Unlock()
		return
	}
	pc := m.pc
	m.pc = nil
	m.status = StatusIdle
	m.peer = ""
	m.pendingOffer = nil
	m.pendingFrom = ""
	m.mu.Unlock()

	if pc != nil {
		pc.Close()
	}
	if err := m.ch.Publish(channel.EventEndCall, channel.CallEnded{Reason: reason}); err != nil {
		m.logger.Warn("publish hangup failed", "error", err)
	}
	m.notify(Ended{Reason: reason})
}

func (m *Manager) onCallEnded(data json.RawMessage) {
	var ev channel.CallEnded
	if err := json.Unmarshal(data, &ev); err != nil {
		m.logger.Warn("bad call ended payload", "error", err)
	}

	m.mu.Lock()
	if m.status == StatusIdle {
		m.mu.Unlock()
		return
	}
	pc := m.pc
	m.pc = nil
	m.status = StatusIdle
	m.peer = ""
	m.pendingOffer = nil
	m.pendingFrom = ""
	m.mu.Unlock()

	if pc != nil {
		pc.Close()
	}
	reason := ev.Reason
	if reason == "" {
		reason = "peer hung up"
	}
	m.notify(Ended{Reason: reason})
}

// reset drops back to idle without touching the peer connection field; used
// on setup failures before pc is installed.
func (m *Manager) reset() {
	m.mu.Lock()
	m.status = StatusIdle
	m.peer = ""
	m.pendingOffer = nil
	m.pendingFrom = ""
	m.mu.Unlock()
}

// =============================================================================
// WEBRTC PLUMBING
// =============================================================================

func (m *Manager) newPeerConnection() (*webrtc.PeerConnection, error) {
	var cfg webrtc.Configuration
	if m.stunServer != "" {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: []string{m.stunServer}}}
	}
	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("new peer connection: %w", err)
	}
	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		m.logger.Debug("peer connection state", "state", state.String())
	})
	return pc, nil
}

// gatherLocalDescription creates our description (an offer when remoteOffer
// is nil, an answer otherwise), then blocks until ICE gathering completes so
// the returned description carries every candidate.
func (m *Manager) gatherLocalDescription(ctx context.Context, pc *webrtc.PeerConnection, remoteOffer *webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	var (
		local webrtc.SessionDescription
		err   error
	)
	if remoteOffer == nil {
		local, err = pc.CreateOffer(nil)
		if err != nil {
			return nil, fmt.Errorf("create offer: %w", err)
		}
	} else {
		if err := pc.SetRemoteDescription(*remoteOffer); err != nil {
			return nil, fmt.Errorf("apply offer: %w", err)
		}
		local, err = pc.CreateAnswer(nil)
		if err != nil {
			return nil, fmt.Errorf("create answer: %w", err)
		}
	}

	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(local); err != nil {
		return nil, fmt.Errorf("set local description: %w", err)
	}
	select {
	case <-gathered:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return pc.LocalDescription(), nil
}
