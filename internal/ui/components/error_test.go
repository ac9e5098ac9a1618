// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"strings"
	"testing"

	"github.com/teja272004/chatify-tui/internal/api"
)

func TestErrorBanner_HiddenByDefault(t *testing.T) {
	b := NewErrorBanner(testTheme())
	if b.Visible() {
		t.Error("new banner is visible")
	}
	if out := b.Render(); out != "" {
		t.Errorf("hidden banner rendered %q", out)
	}
}

func TestErrorBanner_TitlesByCategory(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantTitle string
	}{
		{"unauthorized", api.ErrUnauthorized, "Signed out"},
		{"timeout", api.ErrTimeout, "Timed out"},
		{"not found", api.ErrNotFound, "Not found"},
		{"validation", &api.ClientError{Type: api.ErrTypeValidation, Message: "message is empty"}, "Invalid input"},
		{"generic", errors.New("boom"), "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewErrorBanner(testTheme())
			b.Show(tt.err)
			if !b.Visible() {
				t.Fatal("banner not visible after Show")
			}
			out := b.Render()
			if !strings.Contains(out, tt.wantTitle) {
				t.Errorf("render missing title %q:\n%s", tt.wantTitle, out)
			}
		})
	}
}

func TestErrorBanner_ShowNilKeepsHidden(t *testing.T) {
	b := NewErrorBanner(testTheme())
	b.Show(nil)
	if b.Visible() {
		t.Error("Show(nil) made the banner visible")
	}
}

func TestErrorBanner_Clear(t *testing.T) {
	b := NewErrorBanner(testTheme())
	b.Show(errors.New("boom"))
	b.Clear()
	if b.Visible() || b.Render() != "" {
		t.Error("banner still renders after Clear")
	}
}
