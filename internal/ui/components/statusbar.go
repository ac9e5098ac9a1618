// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// STATUS BAR COMPONENT - bottom bar with shortcuts and presence
// =============================================================================

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBar renders the bottom line: the view's shortcuts on the left and
// the online count on the right.
type StatusBar struct {
	Shortcuts []Shortcut
	Online    int
	Width     int
	theme     *styles.Theme
}

// NewStatusBar creates a status bar with the given shortcuts.
func NewStatusBar(theme *styles.Theme, shortcuts []Shortcut) *StatusBar {
	return &StatusBar{
		Shortcuts: shortcuts,
		Width:     80,
		theme:     theme,
	}
}

// SetWidth updates the available width on resize.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// Render draws the bar.
func (s *StatusBar) Render() string {
	parts := make([]string, 0, len(s.Shortcuts))
	for _, sc := range s.Shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.Key)+" "+s.theme.ShortcutDesc.Render(sc.Desc))
	}
	left := strings.Join(parts, "  ")

	var right string
	if s.Online > 0 {
		right = s.theme.OnlineCount.Render(fmt.Sprintf("%d online", s.Online))
	}

	gap := s.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Width(s.Width).Render(left + strings.Repeat(" ", gap) + right)
}
