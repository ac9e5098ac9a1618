// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chatify TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	HeaderBrand    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	MineBubble   lipgloss.Style
	PeerBubble   lipgloss.Style
	AIBubble     lipgloss.Style
	SystemBubble lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES (friends / requests)
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarTitle     lipgloss.Style
	FriendItem       lipgloss.Style
	FriendSelected   lipgloss.Style
	FriendOnline     lipgloss.Style
	FriendOffline    lipgloss.Style
	UnreadBadge      lipgloss.Style
	RequestItem      lipgloss.Style
	RequestActions   lipgloss.Style
	RequestHighlight lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputText        lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// AUTH FORM STYLES
	// ==========================================================================

	FormBox        lipgloss.Style
	FormTitle      lipgloss.Style
	FormLabel      lipgloss.Style
	FormFocused    lipgloss.Style
	FormBlurred    lipgloss.Style
	FormButton     lipgloss.Style
	FormButtonHot  lipgloss.Style
	FormSwitchHint lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	OnlineCount  lipgloss.Style

	// ==========================================================================
	// CALL OVERLAY STYLES
	// ==========================================================================

	CallBox     lipgloss.Style
	CallTitle   lipgloss.Style
	CallRinging lipgloss.Style
	CallLive    lipgloss.Style
	CallEnded   lipgloss.Style

	// ==========================================================================
	// SPINNER AND LOADING STYLES
	// ==========================================================================

	Spinner       lipgloss.Style
	LoadingText   lipgloss.Style
	LoadingDetail lipgloss.Style

	// ==========================================================================
	// ERROR BOX STYLES
	// ==========================================================================

	ErrorBox     lipgloss.Style
	ErrorTitle   lipgloss.Style
	ErrorMessage lipgloss.Style
	ErrorTip     lipgloss.Style
}

// NewTheme creates a new theme, detecting the terminal's background.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	return newTheme(colorProfile, termenv.HasDarkBackground())
}

// NewThemeFor creates a theme with a forced background mode. mode is "dark"
// or "light"; anything else falls back to detection.
func NewThemeFor(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	switch mode {
	case "dark":
		return newTheme(colorProfile, true)
	case "light":
		return newTheme(colorProfile, false)
	default:
		return newTheme(colorProfile, termenv.HasDarkBackground())
	}
}

func newTheme(profile termenv.Profile, isDark bool) *Theme {
	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(0, 2).
		Align(lipgloss.Center)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.HeaderBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan)

	// Message bubbles
	t.MineBubble = lipgloss.NewStyle().
		Foreground(MineBubbleFg).
		Background(MineBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(MineBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.PeerBubble = lipgloss.NewStyle().
		Foreground(PeerBubbleFg).
		Background(PeerBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PeerBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.AIBubble = lipgloss.NewStyle().
		Foreground(AIBubbleFg).
		Background(AIBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AIBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.SystemBubble = lipgloss.NewStyle().
		Foreground(SystemBubbleFg).
		Background(SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(SystemBubbleBorder).
		Padding(0, 2).
		Align(lipgloss.Center)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		PaddingRight(1)

	t.SidebarTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple).
		MarginBottom(1)

	t.FriendItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.FriendSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.FriendOnline = lipgloss.NewStyle().
		Foreground(Emerald)

	t.FriendOffline = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.UnreadBadge = lipgloss.NewStyle().
		Background(Rose).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.RequestItem = lipgloss.NewStyle().
		Foreground(Amber).
		Padding(0, 1)

	t.RequestActions = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.RequestHighlight = lipgloss.NewStyle().
		Background(AmberDeep).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Auth forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple).
		Padding(1, 4)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		MarginBottom(1)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.FormFocused = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.FormBlurred = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.FormButton = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay)

	t.FormButtonHot = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Bold(true).
		Padding(0, 3).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Purple)

	t.FormSwitchHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.OnlineCount = lipgloss.NewStyle().
		Foreground(Emerald)

	// Call overlay
	t.CallBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Purple).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.CallTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Purple)

	t.CallRinging = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.CallLive = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.CallEnded = lipgloss.NewStyle().
		Foreground(Rose)

	// Spinner and loading
	t.Spinner = lipgloss.NewStyle().
		Foreground(Purple)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.LoadingDetail = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Error box
	t.ErrorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Rose).
		Padding(0, 2)

	t.ErrorTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Rose)

	t.ErrorMessage = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ErrorTip = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)
}

// SetSize updates the theme's layout dimensions on terminal resize.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
