package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorWarning   = lipgloss.Color("214") // Orange
)

// SelectedRow style for the currently highlighted leaderboard row.
var SelectedRow = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// NormalRow style for unselected leaderboard rows.
var NormalRow = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1)

// RankBadge style for the rank number.
var RankBadge = lipgloss.NewStyle().
	Foreground(colorPrimary).
	Bold(true)

// RankUp style for upward rank movement.
var RankUp = lipgloss.NewStyle().
	Foreground(colorSuccess)

// RankDown style for downward rank movement.
var RankDown = lipgloss.NewStyle().
	Foreground(colorError)

// RankNew style for entries without a prior rank.
var RankNew = lipgloss.NewStyle().
	Foreground(colorHighlight)

// TrendUp style for positive trend scores.
var TrendUp = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// TrendDown style for negative trend scores.
var TrendDown = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true)

// TrendFlat style for scores inside the flat band.
var TrendFlat = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Sparkline style for the inline interest history.
var Sparkline = lipgloss.NewStyle().
	Foreground(colorPrimary)

// PanelTitle style for panel headers.
var PanelTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight).
	Padding(0, 1)

// PanelBorder style for the monitor side panel.
var PanelBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorMuted)

// LogInfo style for info log lines.
var LogInfo = lipgloss.NewStyle().
	Foreground(colorSecondary)

// LogSuccess style for success log lines.
var LogSuccess = lipgloss.NewStyle().
	Foreground(colorSuccess)

// LogError style for error log lines.
var LogError = lipgloss.NewStyle().
	Foreground(colorError)

// LogFetch style for in-progress fetch log lines.
var LogFetch = lipgloss.NewStyle().
	Foreground(colorWarning)

// LogTime style for log timestamps.
var LogTime = lipgloss.NewStyle().
	Foreground(colorMuted)

// ToastSuccess style for success toasts.
var ToastSuccess = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorSuccess).
	Padding(0, 1)

// ToastError style for error toasts.
var ToastError = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorError).
	Padding(0, 1)

// ToastInfo style for info toasts.
var ToastInfo = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(0, 1)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// LiveIndicator style for the live-monitoring badge.
var LiveIndicator = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)
