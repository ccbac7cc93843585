package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hypertrend/trendwatch/internal/monitor"
	"github.com/hypertrend/trendwatch/internal/toast"
)

// logLineStyle picks the style for a log entry kind.
func logLineStyle(kind monitor.Kind) lipgloss.Style {
	switch kind {
	case monitor.KindSuccess:
		return LogSuccess
	case monitor.KindError:
		return LogError
	case monitor.KindFetch:
		return LogFetch
	default:
		return LogInfo
	}
}

// renderLogLine renders one activity entry, appending interest movement
// and timing when the entry carries details.
func renderLogLine(e monitor.Entry, width int) string {
	ts := LogTime.Render(e.Timestamp.Format("15:04:05"))
	msg := e.Message

	if d := e.Details; d != nil {
		var extras []string
		if d.PreviousInterest != nil && d.CurrentInterest != nil {
			extras = append(extras, fmt.Sprintf("%d→%d", *d.PreviousInterest, *d.CurrentInterest))
		}
		if d.Duration > 0 {
			extras = append(extras, d.Duration.Round(time.Millisecond).String())
		}
		if len(extras) > 0 {
			msg += " (" + strings.Join(extras, ", ") + ")"
		}
	}

	line := ts + " " + logLineStyle(e.Kind).Render(msg)
	if lipgloss.Width(line) > width && width > 3 {
		// Crude truncation on the styled string is unsafe; truncate the
		// message instead and re-render.
		over := lipgloss.Width(line) - width
		runes := []rune(msg)
		if len(runes) > over+3 {
			msg = string(runes[:len(runes)-over-3]) + "..."
		}
		line = ts + " " + logLineStyle(e.Kind).Render(msg)
	}
	return line
}

// renderLogBody joins all activity entries, oldest first. The caller
// scrolls this inside a viewport.
func renderLogBody(entries []monitor.Entry, width int) string {
	if len(entries) == 0 {
		return LogInfo.Render("No activity yet.")
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = renderLogLine(e, width)
	}
	return strings.Join(lines, "\n")
}

// renderMonitorFooter summarises the activity log (total / ok / errors).
func renderMonitorFooter(entries []monitor.Entry) string {
	success, errors := 0, 0
	for _, e := range entries {
		switch e.Kind {
		case monitor.KindSuccess:
			success++
		case monitor.KindError:
			errors++
		}
	}
	return StatusBarText.Render(fmt.Sprintf("%d events · %d ok · %d errors",
		len(entries), success, errors))
}

// toastStyle picks the border style for a toast kind.
func toastStyle(kind toast.Kind) lipgloss.Style {
	switch kind {
	case toast.KindSuccess:
		return ToastSuccess
	case toast.KindError:
		return ToastError
	default:
		return ToastInfo
	}
}

// RenderToasts stacks the visible toasts, oldest on top.
func RenderToasts(toasts []toast.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(toasts))
	for _, t := range toasts {
		text := t.Title
		if t.Message != "" {
			text += ": " + t.Message
		}
		blocks = append(blocks, toastStyle(t.Kind).MaxWidth(width).Render(text))
	}
	return lipgloss.JoinVertical(lipgloss.Right, blocks...)
}
