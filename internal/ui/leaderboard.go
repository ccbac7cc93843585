package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/hypertrend/trendwatch/internal/board"
	"github.com/hypertrend/trendwatch/internal/trend"
)

// sparkChars maps normalized interest levels to block characters.
var sparkChars = []rune("▁▂▃▄▅▆▇█")

// RenderSparkline renders up to width samples as a block-character strip.
// Values are normalized against 100 (the provider's interest ceiling).
func RenderSparkline(samples []int, width int) string {
	if len(samples) == 0 || width <= 0 {
		return ""
	}
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}

	var b strings.Builder
	for _, v := range samples {
		if v < 0 {
			v = 0
		}
		if v > 100 {
			v = 100
		}
		idx := v * (len(sparkChars) - 1) / 100
		b.WriteRune(sparkChars[idx])
	}
	return b.String()
}

// formatRankChange renders the movement marker: ↑n / ↓n for moves, NEW
// for first-time entries, · for no movement.
func formatRankChange(e board.Entry) string {
	switch {
	case e.New:
		return RankNew.Render("NEW")
	case e.RankChange > 0:
		return RankUp.Render(fmt.Sprintf("↑%d", e.RankChange))
	case e.RankChange < 0:
		return RankDown.Render(fmt.Sprintf("↓%d", -e.RankChange))
	default:
		return TrendFlat.Render("·")
	}
}

// formatTrendScore renders a signed one-decimal score, colored by the
// flat band around zero.
func formatTrendScore(score float64) string {
	text := fmt.Sprintf("%+.1f%%", score)
	switch trend.ClassifyScore(score) {
	case trend.Rising:
		return TrendUp.Render(text)
	case trend.Falling:
		return TrendDown.Render(text)
	default:
		return TrendFlat.Render(text)
	}
}

// RenderLeaderboard renders the ranked keyword list. spinnerFrame is the
// current spinner glyph, shown next to entries being refreshed.
func RenderLeaderboard(entries []board.Entry, cursor, width, height, sparkWidth int, spinnerFrame string) string {
	if len(entries) == 0 {
		return HelpStyle.Render("No keywords tracked yet. Press 'R' to refresh all once some exist.")
	}

	availableHeight := height
	if availableHeight < 1 {
		availableHeight = 1
	}

	// Scroll so the cursor stays visible.
	scrollOffset := 0
	if cursor >= availableHeight {
		scrollOffset = cursor - availableHeight + 1
	}

	var b strings.Builder
	rendered := 0
	for i, e := range entries {
		if i < scrollOffset {
			continue
		}
		if rendered >= availableHeight {
			break
		}
		b.WriteString(renderRow(e, i == cursor, width, sparkWidth, spinnerFrame))
		b.WriteString("\n")
		rendered++
	}
	return b.String()
}

// renderRow renders one leaderboard row:
//
//	 3 ↑2  rust            ▃▄▆█  87  +45.2%
func renderRow(e board.Entry, selected bool, width, sparkWidth int, spinnerFrame string) string {
	rank := RankBadge.Render(fmt.Sprintf("%2d", e.Rank))
	change := formatRankChange(e)
	spark := Sparkline.Render(RenderSparkline(e.Sparkline, sparkWidth))
	score := formatTrendScore(e.TrendScore)

	marker := " "
	if e.IsRefreshing && spinnerFrame != "" {
		marker = spinnerFrame
	}

	// Pad the change marker to a fixed cell so columns line up; styled
	// strings need width measured, not len().
	changeCell := change + strings.Repeat(" ", max(0, 4-lipgloss.Width(change)))

	keyword := e.Keyword
	keywordWidth := width - 30 - sparkWidth
	if keywordWidth < 12 {
		keywordWidth = 12
	}
	if utf8.RuneCountInString(keyword) > keywordWidth {
		runes := []rune(keyword)
		keyword = string(runes[:keywordWidth-3]) + "..."
	}
	keyword = fmt.Sprintf("%-*s", keywordWidth, keyword)

	line := fmt.Sprintf("%s %s %s %s %s %3d %s", rank, changeCell, marker, keyword, spark, e.CurrentInterest, score)
	if selected {
		return SelectedRow.Render(line)
	}
	return NormalRow.Render(line)
}
