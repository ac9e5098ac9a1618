// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the chatify TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Header is the title bar shown at the top of every view.
type Header struct {
	Title    string // View title, e.g. the peer's name
	Subtitle string // Secondary line, e.g. presence or view hint
	Username string // The logged-in user, right-aligned
	Width    int
	theme    *styles.Theme
}

// NewHeader creates a header for the given view title.
func NewHeader(theme *styles.Theme, title string) *Header {
	return &Header{
		Title: title,
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the available width on resize.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// Render draws the header line.
func (h *Header) Render() string {
	brand := h.theme.HeaderBrand.Render("chatify")
	title := h.theme.HeaderTitle.Render(h.Title)

	left := brand + "  " + title
	if h.Subtitle != "" {
		left += "  " + h.theme.HeaderSubtitle.Render(h.Subtitle)
	}

	var right string
	if h.Username != "" {
		right = h.theme.HeaderSubtitle.Render("@" + h.Username)
	}

	gap := h.Width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap) + right

	return h.theme.StatusBar.Width(h.Width).Render(line)
}
