package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/refresh"
	"github.com/hypertrend/trendwatch/internal/toast"
)

// App is the root Bubble Tea model.
// IMPORTANT: App does NOT hold the engine. It receives state via messages
// and triggers work through the injected command functions.
type App struct {
	refreshAll func() tea.Cmd
	refreshOne func(id string) tea.Cmd
	toggleLive func(on bool) tea.Cmd

	entries    []board.Entry
	logEntries []monitor.Entry
	toasts     []toast.Toast
	cycle      refresh.CycleState

	cursor      int
	live        bool
	showMonitor bool
	sparkWidth  int

	spin        spinner.Model
	monitorView viewport.Model

	width  int
	height int
	ready  bool
}

// NewApp creates the root model with the given command functions.
// refreshAll: runs a full batch refresh and reports BatchFinished
// refreshOne: refreshes a single keyword by board ID
// toggleLive: starts or stops live monitoring and reports LiveToggled
func NewApp(refreshAll func() tea.Cmd, refreshOne func(id string) tea.Cmd, toggleLive func(on bool) tea.Cmd, sparkWidth int) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	if sparkWidth <= 0 {
		sparkWidth = 12
	}

	return App{
		refreshAll:  refreshAll,
		refreshOne:  refreshOne,
		toggleLive:  toggleLive,
		showMonitor: true,
		sparkWidth:  sparkWidth,
		spin:        sp,
	}
}

// Init starts the spinner tick loop.
func (a App) Init() tea.Cmd {
	return a.spin.Tick
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.monitorView = viewport.New(a.monitorWidth(), a.monitorHeight())
		a.monitorView.SetContent(renderLogBody(a.logEntries, a.monitorWidth()))
		a.monitorView.GotoBottom()
		return a, nil

	case BoardUpdated:
		a.entries = msg.Entries
		if a.cursor >= len(a.entries) && len(a.entries) > 0 {
			a.cursor = len(a.entries) - 1
		}
		return a, nil

	case LogUpdated:
		a.logEntries = msg.Entries
		a.monitorView.SetContent(renderLogBody(a.logEntries, a.monitorWidth()))
		a.monitorView.GotoBottom()
		return a, nil

	case ToastsUpdated:
		a.toasts = msg.Toasts
		return a, nil

	case CycleProgress:
		a.cycle = msg.State
		return a, nil

	case BatchFinished:
		a.cycle.Running = false
		return a, nil

	case LiveToggled:
		a.live = msg.On
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd
	}

	return a, nil
}

// handleKeyMsg processes keyboard input.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit

	case "j", "down":
		if a.cursor < len(a.entries)-1 {
			a.cursor++
		}
		return a, nil

	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
		return a, nil

	case "g", "home":
		a.cursor = 0
		return a, nil

	case "G", "end":
		if len(a.entries) > 0 {
			a.cursor = len(a.entries) - 1
		}
		return a, nil

	case "r":
		if len(a.entries) > 0 && a.cursor < len(a.entries) && a.refreshOne != nil {
			return a, a.refreshOne(a.entries[a.cursor].ID)
		}
		return a, nil

	case "R":
		if a.refreshAll != nil {
			return a, a.refreshAll()
		}
		return a, nil

	case "l":
		if a.toggleLive != nil {
			return a, a.toggleLive(!a.live)
		}
		return a, nil

	case "m":
		a.showMonitor = !a.showMonitor
		return a, nil

	case "pgup":
		a.monitorView.HalfViewUp()
		return a, nil

	case "pgdown":
		a.monitorView.HalfViewDown()
		return a, nil
	}

	return a, nil
}

// monitorWidth returns the side panel's inner width.
func (a App) monitorWidth() int {
	w := a.width / 3
	if w < 24 {
		w = 24
	}
	return w
}

// monitorHeight returns the side panel's inner height (minus title,
// footer and border).
func (a App) monitorHeight() int {
	h := a.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	contentHeight := a.height - 1 // status bar
	toastBlock := RenderToasts(a.toasts, a.width)
	if toastBlock != "" {
		contentHeight -= lipgloss.Height(toastBlock)
	}
	if contentHeight < 1 {
		contentHeight = 1
	}

	boardWidth := a.width
	var panel string
	if a.showMonitor {
		panelBody := PanelTitle.Render("Activity") + "\n" +
			a.monitorView.View() + "\n" +
			renderMonitorFooter(a.logEntries)
		panel = PanelBorder.Width(a.monitorWidth()).Render(panelBody)
		boardWidth -= lipgloss.Width(panel)
	}

	frame := ""
	if a.cycle.Running || anyRefreshing(a.entries) {
		frame = a.spin.View()
	}
	leaderboard := RenderLeaderboard(a.entries, a.cursor, boardWidth, contentHeight, a.sparkWidth, frame)

	var main string
	if a.showMonitor {
		main = lipgloss.JoinHorizontal(lipgloss.Top, leaderboard, panel)
	} else {
		main = leaderboard
	}

	var b strings.Builder
	if toastBlock != "" {
		b.WriteString(toastBlock)
		b.WriteString("\n")
	}
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(a.renderStatusBar())
	return b.String()
}

// renderStatusBar renders key hints plus batch/live state.
func (a App) renderStatusBar() string {
	hints := strings.Join([]string{
		StatusBarKey.Render("r") + StatusBarText.Render(" refresh"),
		StatusBarKey.Render("R") + StatusBarText.Render(" refresh all"),
		StatusBarKey.Render("l") + StatusBarText.Render(" live"),
		StatusBarKey.Render("m") + StatusBarText.Render(" monitor"),
		StatusBarKey.Render("q") + StatusBarText.Render(" quit"),
	}, StatusBarText.Render(" · "))

	state := ""
	if a.cycle.Running {
		state = fmt.Sprintf(" refreshing %d/%d", a.cycle.CurrentIndex+1, a.cycle.Total)
		if a.cycle.CurrentKeyword != "" {
			state += " " + a.cycle.CurrentKeyword
		}
	}
	if a.live {
		state += " " + LiveIndicator.Render("● LIVE")
	}

	return StatusBar.Width(a.width).Render(hints + state)
}

func anyRefreshing(entries []board.Entry) bool {
	for _, e := range entries {
		if e.IsRefreshing {
			return true
		}
	}
	return false
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Entries returns the current leaderboard entries (for testing).
func (a App) Entries() []board.Entry {
	return a.entries
}

// Live reports whether live monitoring is on (for testing).
func (a App) Live() bool {
	return a.live
}
