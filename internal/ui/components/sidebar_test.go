// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/teja272004/chatify-tui/internal/store"
	"github.com/teja272004/chatify-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewThemeFor("dark")
}

func TestSidebar_RowsOrderRequestsFirst(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	s.Update(
		[]store.Request{{ID: "r1", Username: "mallory"}},
		[]store.Friend{{ID: "u2", Username: "bob"}, {ID: "u3", Username: "carol"}},
		nil, nil,
	)

	row, ok := s.Selected()
	if !ok || row.Kind != RowRequest || row.ID != "r1" {
		t.Errorf("first row = %+v, want the pending request", row)
	}

	s.MoveCursor(1)
	row, _ = s.Selected()
	if row.Kind != RowFriend || row.ID != "u2" {
		t.Errorf("second row = %+v, want friend u2", row)
	}
}

func TestSidebar_CursorClampsAtEnds(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	s.Update(nil, []store.Friend{{ID: "u2", Username: "bob"}}, nil, nil)

	s.MoveCursor(-5)
	if row, _ := s.Selected(); row.ID != "u2" {
		t.Errorf("cursor under-ran the list: %+v", row)
	}
	s.MoveCursor(5)
	if row, _ := s.Selected(); row.ID != "u2" {
		t.Errorf("cursor over-ran the list: %+v", row)
	}
}

func TestSidebar_CursorSurvivesShrinkingList(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	s.Update(
		[]store.Request{{ID: "r1", Username: "mallory"}},
		[]store.Friend{{ID: "u2", Username: "bob"}},
		nil, nil,
	)
	s.MoveCursor(1) // onto u2

	// Responding removes the request; the cursor must stay in range.
	s.Update(nil, []store.Friend{{ID: "u2", Username: "bob"}}, nil, nil)
	row, ok := s.Selected()
	if !ok {
		t.Fatal("no selection after list shrank")
	}
	if row.ID != "u2" {
		t.Errorf("selected %+v, want u2", row)
	}
}

func TestSidebar_SelectedOnEmptyList(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	if _, ok := s.Selected(); ok {
		t.Error("Selected() reported a row on an empty sidebar")
	}
}

func TestSidebar_RenderShowsUnreadAndPresence(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	s.Update(
		nil,
		[]store.Friend{{ID: "u2", Username: "bob"}, {ID: "u3", Username: "carol"}},
		map[string]int{"u2": 3},
		map[string]bool{"u3": true},
	)

	out := s.Render(20)
	if !strings.Contains(out, "bob") || !strings.Contains(out, "carol") {
		t.Fatalf("render missing friend names:\n%s", out)
	}
	if !strings.Contains(out, "3") {
		t.Errorf("render missing unread badge:\n%s", out)
	}
}

func TestSidebar_SelectPeer(t *testing.T) {
	s := NewSidebar(testTheme(), 24)
	s.Update(
		[]store.Request{{ID: "r1", Username: "mallory"}},
		[]store.Friend{{ID: "u2", Username: "bob"}, {ID: "u3", Username: "carol"}},
		nil, nil,
	)

	s.SelectPeer("u3")
	if row, _ := s.Selected(); row.ID != "u3" {
		t.Errorf("selected %+v, want u3", row)
	}

	// Unknown id leaves the cursor alone.
	s.SelectPeer("zz")
	if row, _ := s.Selected(); row.ID != "u3" {
		t.Errorf("selection moved on unknown id: %+v", row)
	}
}
