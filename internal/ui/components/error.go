// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/teja272004/chatify-tui/internal/api"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

// =============================================================================
// ERROR BANNER COMPONENT
// =============================================================================

// ErrorBanner is a transient styled error message. Views show it after a
// failed write action and clear it on the next keypress or a successful
// retry; prior view state is otherwise untouched.
type ErrorBanner struct {
	title   string
	message string
	tip     string
	visible bool
	width   int
	theme   *styles.Theme
}

// NewErrorBanner creates a hidden banner.
func NewErrorBanner(theme *styles.Theme) *ErrorBanner {
	return &ErrorBanner{theme: theme, width: 80}
}

// Show fills the banner from an error and makes it visible. Client errors
// pick a title and tip matching their category; anything else renders as a
// generic failure.
func (b *ErrorBanner) Show(err error) {
	if err == nil {
		return
	}
	b.visible = true
	b.message = err.Error()

	switch {
	case api.IsUnauthorized(err):
		b.title = "Signed out"
		b.tip = "Your session expired. Log in again."
	case api.IsTimeout(err):
		b.title = "Timed out"
		b.tip = "The server did not respond. Try again."
	case api.IsNotFound(err):
		b.title = "Not found"
		b.tip = ""
	case api.IsValidation(err):
		b.title = "Invalid input"
		b.tip = ""
	default:
		b.title = "Something went wrong"
		b.tip = "The action was not applied. Try again."
	}
}

// ShowMessage shows a plain message without an underlying error.
func (b *ErrorBanner) ShowMessage(title, message string) {
	b.visible = true
	b.title = title
	b.message = message
	b.tip = ""
}

// Clear hides the banner.
func (b *ErrorBanner) Clear() {
	b.visible = false
}

// Visible reports whether the banner currently renders.
func (b *ErrorBanner) Visible() bool {
	return b.visible
}

// SetWidth updates the available width on resize.
func (b *ErrorBanner) SetWidth(width int) {
	b.width = width
}

// Render draws the banner, or "" when hidden.
func (b *ErrorBanner) Render() string {
	if !b.visible {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(b.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " " + b.title))
	sb.WriteString("\n")
	sb.WriteString(b.theme.ErrorMessage.Render(b.message))
	if b.tip != "" {
		sb.WriteString("\n")
		sb.WriteString(b.theme.ErrorTip.Render(b.tip))
	}

	boxWidth := b.width - 4
	if boxWidth < 20 {
		boxWidth = 20
	}
	return b.theme.ErrorBox.Width(boxWidth).Render(sb.String())
}
