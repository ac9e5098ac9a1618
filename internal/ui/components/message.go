// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/teja272004/chatify-tui/internal/store"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE BUBBLE RENDERING
// =============================================================================

// maxBubbleFraction caps a bubble at a share of the view width so the
// alignment gutter stays visible.
const maxBubbleFraction = 0.72

// RenderMessage draws one conversation message as a bubble. Messages sent by
// selfID align right in the sender's color; everything else aligns left.
func RenderMessage(theme *styles.Theme, m store.Message, selfID string, width int) string {
	mine := m.Sender == selfID

	maxWidth := int(float64(width) * maxBubbleFraction)
	if maxWidth < 10 {
		maxWidth = 10
	}

	var bubble string
	if mine {
		bubble = theme.MineBubble.MaxWidth(maxWidth).Render(m.Body)
	} else {
		bubble = theme.PeerBubble.MaxWidth(maxWidth).Render(m.Body)
	}

	align := lipgloss.Left
	if mine {
		align = lipgloss.Right
	}
	return lipgloss.PlaceHorizontal(width, align, bubble)
}

// RenderSystemNotice draws a centered system line, e.g. a call event or a
// degraded-service notice.
func RenderSystemNotice(theme *styles.Theme, text string, width int) string {
	bubble := theme.SystemBubble.MaxWidth(width - 2).Render(text)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, bubble)
}
