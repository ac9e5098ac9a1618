// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/teja272004/chatify-tui/internal/store"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
	"github.com/teja272004/chatify-tui/internal/util"
)

// =============================================================================
// SIDEBAR COMPONENT - pending requests and the friend list
// =============================================================================

// RowKind says what a sidebar row refers to.
type RowKind int

const (
	// RowRequest is a pending incoming friend request.
	RowRequest RowKind = iota
	// RowFriend is a confirmed friend.
	RowFriend
)

// Row is one selectable sidebar entry.
type Row struct {
	Kind     RowKind
	ID       string
	Username string
	Unread   int
	Online   bool
}

// Sidebar lists pending requests above the friend list with a shared
// cursor. The view drives the cursor and reads the selected row back.
type Sidebar struct {
	rows   []Row
	cursor int
	width  int
	theme  *styles.Theme
}

// NewSidebar creates an empty sidebar.
func NewSidebar(theme *styles.Theme, width int) *Sidebar {
	return &Sidebar{theme: theme, width: width}
}

// SetWidth updates the sidebar's column width.
func (s *Sidebar) SetWidth(width int) {
	s.width = width
}

// Update rebuilds the rows from current store state. Requests come first so
// a new request is visible without scrolling. The cursor is clamped and, if
// it sat on a row that disappeared, stays at the same position rather than
// following the old row.
func (s *Sidebar) Update(requests []store.Request, friends []store.Friend, unread map[string]int, online map[string]bool) {
	rows := make([]Row, 0, len(requests)+len(friends))
	for _, r := range requests {
		rows = append(rows, Row{Kind: RowRequest, ID: r.ID, Username: r.Username})
	}
	for _, f := range friends {
		rows = append(rows, Row{
			Kind:     RowFriend,
			ID:       f.ID,
			Username: f.Username,
			Unread:   unread[f.ID],
			Online:   online[f.ID],
		})
	}
	s.rows = rows
	if s.cursor >= len(rows) {
		s.cursor = len(rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// MoveCursor shifts the selection by delta, clamped to the list.
func (s *Sidebar) MoveCursor(delta int) {
	s.cursor += delta
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= len(s.rows) {
		s.cursor = len(s.rows) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Selected returns the row under the cursor, or false when the list is
// empty.
func (s *Sidebar) Selected() (Row, bool) {
	if len(s.rows) == 0 {
		return Row{}, false
	}
	return s.rows[s.cursor], true
}

// SelectPeer moves the cursor onto the friend with the given id if present.
func (s *Sidebar) SelectPeer(id string) {
	for i, row := range s.rows {
		if row.Kind == RowFriend && row.ID == id {
			s.cursor = i
			return
		}
	}
}

// Render draws the sidebar column.
func (s *Sidebar) Render(height int) string {
	var sb strings.Builder

	var requestCount int
	for _, row := range s.rows {
		if row.Kind == RowRequest {
			requestCount++
		}
	}

	if requestCount > 0 {
		sb.WriteString(s.theme.SidebarTitle.Render(fmt.Sprintf("Requests (%d)", requestCount)))
		sb.WriteString("\n")
		for i, row := range s.rows {
			if row.Kind != RowRequest {
				continue
			}
			sb.WriteString(s.renderRequest(row, i == s.cursor))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	sb.WriteString(s.theme.SidebarTitle.Render("Friends"))
	sb.WriteString("\n")
	var friendCount int
	for i, row := range s.rows {
		if row.Kind != RowFriend {
			continue
		}
		friendCount++
		sb.WriteString(s.renderFriend(row, i == s.cursor))
		sb.WriteString("\n")
	}
	if friendCount == 0 {
		sb.WriteString(s.theme.LoadingDetail.Render("no friends yet"))
		sb.WriteString("\n")
	}

	return s.theme.Sidebar.Width(s.width).Height(height).Render(sb.String())
}

func (s *Sidebar) renderFriend(row Row, selected bool) string {
	presence := s.theme.FriendOffline.Render("o")
	if row.Online {
		presence = s.theme.FriendOnline.Render("*")
	}

	name := util.TruncateWidth(row.Username, s.width-8)
	line := presence + " " + name
	if row.Unread > 0 {
		// Pad so the badge sits in a fixed column regardless of name length.
		line = presence + " " + util.PadRight(name, s.width-8) +
			s.theme.UnreadBadge.Render(fmt.Sprintf("%d", row.Unread))
	}

	if selected {
		return s.theme.FriendSelected.Render(line)
	}
	return s.theme.FriendItem.Render(line)
}

func (s *Sidebar) renderRequest(row Row, selected bool) string {
	name := util.TruncateWidth(row.Username, s.width-8)
	line := "? " + name
	if selected {
		line += " " + s.theme.RequestActions.Render("a/r")
		return s.theme.RequestHighlight.Render(line)
	}
	return s.theme.RequestItem.Render(line)
}
