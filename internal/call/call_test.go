// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package call

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/teja272004/chatify-tui/internal/channel"
)

// fakeChannel records publishes and lets tests inject inbound events.
type fakeChannel struct {
	mu        sync.Mutex
	published []channel.Envelope
	subs      map[string][]channel.Handler
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{subs: make(map[string][]channel.Handler)}
}

func (f *fakeChannel) Join(selfID string) error { return f.Publish(channel.EventJoin, selfID) }

func (f *fakeChannel) Subscribe(event string, h channel.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subs[event] = append(f.subs[event], h)
	return func() {}
}

func (f *fakeChannel) Publish(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.published = append(f.published, channel.Envelope{Event: event, Data: data})
	f.mu.Unlock()
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func (f *fakeChannel) emit(t *testing.T, event string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	f.mu.Lock()
	handlers := append([]channel.Handler(nil), f.subs[event]...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(data)
	}
}

func (f *fakeChannel) lastPublished(event string) (channel.Envelope, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.published) - 1; i >= 0; i-- {
		if f.published[i].Event == event {
			return f.published[i], true
		}
	}
	return channel.Envelope{}, false
}

type recorder struct {
	mu   sync.Mutex
	msgs []any
}

func (r *recorder) send(msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) has(match func(any) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.msgs {
		if match(m) {
			return true
		}
	}
	return false
}

func newTestManager(t *testing.T, ch *fakeChannel) (*Manager, *recorder) {
	t.Helper()
	rec := &recorder{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// No STUN server: host candidates only, which gather without a network.
	m := NewManager(ch, "u1", "", rec.send, logger)
	m.Start()
	t.Cleanup(m.Stop)
	return m, rec
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// =============================================================================
// OUTGOING CALL TESTS
// =============================================================================

func TestManager_DialPublishesCompleteOffer(t *testing.T) {
	ch := newFakeChannel()
	m, _ := newTestManager(t, ch)

	if err := m.Dial(testCtx(t), "u2"); err != nil {
		t.Fatalf("Dial failed: %v", err)
	}

	if status, peer := m.Snapshot(); status != StatusDialing || peer != "u2" {
		t.Errorf("snapshot = %s/%s, want dialing/u2", status, peer)
	}

	env, ok := ch.lastPublished(channel.EventCallUser)
	if !ok {
		t.Fatal("no callUser published")
	}
	var req channel.CallRequest
	if err := json.Unmarshal(env.Data, &req); err != nil {
		t.Fatal(err)
	}
	if req.UserToCall != "u2" || req.From != "u1" {
		t.Errorf("call request routing = %+v", req)
	}
	var offer webrtc.SessionDescription
	if err := json.Unmarshal(req.SignalData, &offer); err != nil {
		t.Fatalf("signal is not a session description: %v", err)
	}
	if offer.Type != webrtc.SDPTypeOffer || offer.SDP == "" {
		t.Errorf("signal type = %s, want a populated offer", offer.Type)
	}
}

func TestManager_DialWhileBusyRejected(t *testing.T) {
	ch := newFakeChannel()
	m, _ := newTestManager(t, ch)

	if err := m.Dial(testCtx(t), "u2"); err != nil {
		t.Fatal(err)
	}
	if err := m.Dial(testCtx(t), "u3"); err != ErrBusy {
		t.Errorf("second Dial error = %v, want ErrBusy", err)
	}
}

// =============================================================================
// INCOMING CALL TESTS
// =============================================================================

func TestManager_IncomingCallRingsAndIgnoresWhileBusy(t *testing.T) {
	caller := newFakeChannel()
	callee := newFakeChannel()
	cm, _ := newTestManager(t, caller)
	m, rec := newTestManager(t, callee)

	if err := cm.Dial(testCtx(t), "u1"); err != nil {
		t.Fatal(err)
	}
	env, _ := caller.lastPublished(channel.EventCallUser)
	var req channel.CallRequest
	json.Unmarshal(env.Data, &req)

	callee.emit(t, channel.EventIncomingCall, channel.IncomingCall{Signal: req.SignalData, From: req.From})

	if status, peer := m.Snapshot(); status != StatusRinging || peer != "u1" {
		t.Errorf("snapshot = %s/%s, want ringing/u1", status, peer)
	}
	if !rec.has(func(msg any) bool { r, ok := msg.(Ringing); return ok && r.From == "u1" }) {
		t.Error("no Ringing notification")
	}

	// A second caller while ringing is ignored, not a state change.
	callee.emit(t, channel.EventIncomingCall, channel.IncomingCall{Signal: req.SignalData, From: "u9"})
	if status, peer := m.Snapshot(); status != StatusRinging || peer != "u1" {
		t.Errorf("busy snapshot = %s/%s, want ringing/u1 unchanged", status, peer)
	}
}

func TestManager_AnswerCompletesExchange(t *testing.T) {
	callerCh := newFakeChannel()
	calleeCh := newFakeChannel()
	caller, callerRec := newTestManager(t, callerCh)
	callee, calleeRec := newTestManager(t, calleeCh)

	if err := caller.Dial(testCtx(t), "u2"); err != nil {
		t.Fatal(err)
	}
	env, _ := callerCh.lastPublished(channel.EventCallUser)
	var req channel.CallRequest
	json.Unmarshal(env.Data, &req)

	calleeCh.emit(t, channel.EventIncomingCall, channel.IncomingCall{Signal: req.SignalData, From: req.From})
	if err := callee.Answer(testCtx(t)); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	ansEnv, ok := calleeCh.lastPublished(channel.EventAnswerCall)
	if !ok {
		t.Fatal("no answerCall published")
	}
	var ans channel.CallAnswer
	json.Unmarshal(ansEnv.Data, &ans)
	if ans.To != "u1" {
		t.Errorf("answer routed to %q, want u1", ans.To)
	}

	// Relay the answer back to the caller.
	callerCh.emit(t, channel.EventCallAccepted, json.RawMessage(ans.Signal))

	if status, _ := caller.Snapshot(); status != StatusInCall {
		t.Errorf("caller status = %s, want in-call", status)
	}
	if status, _ := callee.Snapshot(); status != StatusInCall {
		t.Errorf("callee status = %s, want in-call", status)
	}
	if !callerRec.has(func(m any) bool { c, ok := m.(Connected); return ok && c.Peer == "u2" }) {
		t.Error("caller missing Connected notification")
	}
	if !calleeRec.has(func(m any) bool { c, ok := m.(Connected); return ok && c.Peer == "u1" }) {
		t.Error("callee missing Connected notification")
	}
}

func TestManager_AnswerWithoutRingingRejected(t *testing.T) {
	m, _ := newTestManager(t, newFakeChannel())
	if err := m.Answer(testCtx(t)); err == nil {
		t.Error("Answer with nothing ringing should fail")
	}
}

func TestManager_DeclineTellsCaller(t *testing.T) {
	ch := newFakeChannel()
	m, _ := newTestManager(t, ch)

	offer := webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: "v=0"}
	signal, _ := json.Marshal(offer)
	ch.emit(t, channel.EventIncomingCall, channel.IncomingCall{Signal: signal, From: "u2"})

	if err := m.Decline(); err != nil {
		t.Fatalf("Decline failed: %v", err)
	}
	if status, _ := m.Snapshot(); status != StatusIdle {
		t.Errorf("status = %s after decline, want idle", status)
	}
	if _, ok := ch.lastPublished(channel.EventEndCall); !ok {
		t.Error("decline did not publish endCall")
	}
}

// =============================================================================
// TEARDOWN TESTS
// =============================================================================

func TestManager_HangupResetsAndNotifies(t *testing.T) {
	ch := newFakeChannel()
	m, rec := newTestManager(t, ch)

	if err := m.Dial(testCtx(t), "u2"); err != nil {
		t.Fatal(err)
	}
	m.Hangup("done talking")

	if status, _ := m.Snapshot(); status != StatusIdle {
		t.Errorf("status = %s after hangup, want idle", status)
	}
	if _, ok := ch.lastPublished(channel.EventEndCall); !ok {
		t.Error("hangup did not publish endCall")
	}
	if !rec.has(func(msg any) bool { e, ok := msg.(Ended); return ok && e.Reason == "done talking" }) {
		t.Error("no Ended notification")
	}

	// Hanging up while idle is a quiet no-op.
	before, _ := ch.lastPublished(channel.EventEndCall)
	m.Hangup("again")
	after, _ := ch.lastPublished(channel.EventEndCall)
	if string(before.Data) != string(after.Data) {
		t.Error("idle hangup published another endCall")
	}
}

func TestManager_RemoteEndResets(t *testing.T) {
	ch := newFakeChannel()
	m, rec := newTestManager(t, ch)

	if err := m.Dial(testCtx(t), "u2"); err != nil {
		t.Fatal(err)
	}
	ch.emit(t, channel.EventCallEnded, channel.CallEnded{Reason: "peer left"})

	if status, _ := m.Snapshot(); status != StatusIdle {
		t.Errorf("status = %s after remote end, want idle", status)
	}
	if !rec.has(func(msg any) bool { e, ok := msg.(Ended); return ok && e.Reason == "peer left" }) {
		t.Error("no Ended notification with the peer's reason")
	}
}
