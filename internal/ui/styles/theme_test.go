// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"
)

func TestNewThemeFor(t *testing.T) {
	tests := []struct {
		mode     string
		wantDark *bool // nil means detection, no assertion
	}{
		{"dark", boolPtr(true)},
		{"light", boolPtr(false)},
		{"auto", nil},
		{"bogus", nil},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			theme := NewThemeFor(tt.mode)
			if theme == nil {
				t.Fatal("NewThemeFor returned nil")
			}
			if tt.wantDark != nil && theme.IsDark != *tt.wantDark {
				t.Errorf("IsDark = %v, want %v", theme.IsDark, *tt.wantDark)
			}
		})
	}
}

func boolPtr(b bool) *bool { return &b }

func TestThemeStylesRender(t *testing.T) {
	theme := NewThemeFor("dark")

	// Every style should render text without panicking and keep the content.
	styled := []string{
		theme.Header.Render("header"),
		theme.MineBubble.Render("mine"),
		theme.PeerBubble.Render("peer"),
		theme.AIBubble.Render("ai"),
		theme.UnreadBadge.Render("3"),
		theme.FriendSelected.Render("bob"),
		theme.CallRinging.Render("ringing"),
		theme.ErrorTitle.Render("error"),
	}
	want := []string{"header", "mine", "peer", "ai", "3", "bob", "ringing", "error"}
	for i, out := range styled {
		if !strings.Contains(out, want[i]) {
			t.Errorf("style %d lost its content: %q", i, out)
		}
	}
}

func TestThemeSetSize(t *testing.T) {
	theme := NewThemeFor("dark")
	theme.SetSize(120, 40)
	if theme.Width != 120 || theme.Height != 40 {
		t.Errorf("size = %dx%d, want 120x40", theme.Width, theme.Height)
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	indicators := []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Warning,
		StatusIndicators.Info,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	}
	for _, ind := range indicators {
		for _, r := range ind {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune %q", ind, r)
			}
		}
	}
}

func TestRenderHelpersIncludeIndicator(t *testing.T) {
	if out := RenderSuccess("done"); !strings.Contains(out, "[OK]") || !strings.Contains(out, "done") {
		t.Errorf("RenderSuccess = %q", out)
	}
	if out := RenderError("boom"); !strings.Contains(out, "[X]") {
		t.Errorf("RenderError = %q", out)
	}
	if out := RenderWarning("careful"); !strings.Contains(out, "[!]") {
		t.Errorf("RenderWarning = %q", out)
	}
	if out := RenderInfo("fyi"); !strings.Contains(out, "[i]") {
		t.Errorf("RenderInfo = %q", out)
	}
}
