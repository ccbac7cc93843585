package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hypertrend/trendwatch/internal/board"
)

func testEntries() []board.Entry {
	return []board.Entry{
		{ID: "k1", Keyword: "alpha", Rank: 1, TrendScore: 50, CurrentInterest: 80, Sparkline: []int{10, 40, 80}},
		{ID: "k2", Keyword: "beta", Rank: 2, TrendScore: 10, CurrentInterest: 60, Sparkline: []int{50, 55, 60}},
		{ID: "k3", Keyword: "gamma", Rank: 3, TrendScore: -20, CurrentInterest: 20, Sparkline: []int{40, 30, 20}},
	}
}

func newTestApp() App {
	return NewApp(nil, nil, nil, 8)
}

func updated(t *testing.T, m tea.Model, msg tea.Msg) App {
	t.Helper()
	next, _ := m.Update(msg)
	app, ok := next.(App)
	if !ok {
		t.Fatalf("Update returned %T, want App", next)
	}
	return app
}

func TestCursorNavigation(t *testing.T) {
	a := newTestApp()
	a = updated(t, a, BoardUpdated{Entries: testEntries()})

	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if a.Cursor() != 1 {
		t.Errorf("expected cursor 1 after j, got %d", a.Cursor())
	}

	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	if a.Cursor() != 2 {
		t.Errorf("expected cursor at end after G, got %d", a.Cursor())
	}

	// Cannot move past the end.
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if a.Cursor() != 2 {
		t.Errorf("expected cursor clamped at 2, got %d", a.Cursor())
	}

	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if a.Cursor() != 0 {
		t.Errorf("expected cursor 0 after g, got %d", a.Cursor())
	}
}

func TestBoardUpdatedClampsCursor(t *testing.T) {
	a := newTestApp()
	a = updated(t, a, BoardUpdated{Entries: testEntries()})
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})

	// Shrink the board below the cursor.
	a = updated(t, a, BoardUpdated{Entries: testEntries()[:1]})
	if a.Cursor() != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", a.Cursor())
	}
}

func TestRefreshKeyUsesSelectedEntry(t *testing.T) {
	var gotID string
	refreshOne := func(id string) tea.Cmd {
		gotID = id
		return nil
	}
	a := NewApp(nil, refreshOne, nil, 8)
	a = updated(t, a, BoardUpdated{Entries: testEntries()})
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	if gotID != "k2" {
		t.Errorf("expected refresh of k2, got %q", gotID)
	}
}

func TestRefreshAllKey(t *testing.T) {
	called := false
	refreshAll := func() tea.Cmd {
		called = true
		return nil
	}
	a := NewApp(refreshAll, nil, nil, 8)
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("R")})

	if !called {
		t.Error("expected R to trigger refreshAll")
	}
}

func TestLiveToggleRoundTrip(t *testing.T) {
	var requested bool
	toggleLive := func(on bool) tea.Cmd {
		requested = on
		return func() tea.Msg { return LiveToggled{On: on} }
	}
	a := NewApp(nil, nil, toggleLive, 8)

	next, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	a = next.(App)
	if !requested {
		t.Fatal("expected toggle request for live on")
	}
	if cmd == nil {
		t.Fatal("expected a command from toggle")
	}
	a = updated(t, a, cmd())
	if !a.Live() {
		t.Error("expected live on after LiveToggled")
	}

	// Toggling again requests off.
	a = updated(t, a, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")})
	if requested {
		t.Error("expected toggle request for live off")
	}
}

func TestQuitKey(t *testing.T) {
	a := newTestApp()
	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestViewShowsKeywords(t *testing.T) {
	a := newTestApp()
	a = updated(t, a, tea.WindowSizeMsg{Width: 100, Height: 30})
	a = updated(t, a, BoardUpdated{Entries: testEntries()})

	view := a.View()
	for _, kw := range []string{"alpha", "beta", "gamma"} {
		if !strings.Contains(view, kw) {
			t.Errorf("expected view to contain %q", kw)
		}
	}
}

func TestViewBeforeFirstWindowSize(t *testing.T) {
	a := newTestApp()
	if !strings.Contains(a.View(), "Loading") {
		t.Error("expected loading placeholder before first WindowSizeMsg")
	}
}
