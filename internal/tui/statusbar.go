package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(featureCount int, term string, width int, m mode, loading bool) string {
	left := fmt.Sprintf(" %d features", featureCount)
	if featureCount == 1 {
		left = " 1 feature"
	}
	if term != "" {
		left += fmt.Sprintf(" · %q", term)
	}
	if loading {
		left += " (searching...)"
	}

	right := " / search  tab focus  o open MDN  ? help  q quit "
	if m == modeSearch {
		right = " esc cancel  enter search "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
