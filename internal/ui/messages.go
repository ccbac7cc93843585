// Package ui provides the Bubble Tea TUI for trendwatch.
package ui

import (
	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/refresh"
	"github.com/hypertrend/trendwatch/internal/toast"
)

// BoardUpdated is sent whenever the leaderboard changes.
type BoardUpdated struct {
	Entries []board.Entry
}

// LogUpdated is sent whenever the activity log changes.
type LogUpdated struct {
	Entries []monitor.Entry
}

// ToastsUpdated is sent whenever the set of visible toasts changes.
type ToastsUpdated struct {
	Toasts []toast.Toast
}

// CycleProgress reports batch refresh progress (i of n).
type CycleProgress struct {
	State refresh.CycleState
}

// BatchFinished is sent when a manual refresh-all returns.
// Ran is false when the batch was rejected (already running or empty board).
type BatchFinished struct {
	Ran bool
}

// LiveToggled is sent after the scheduler has been started or stopped.
type LiveToggled struct {
	On bool
}
