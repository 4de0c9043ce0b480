package tui

import (
	"strings"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

func renderListItem(f caniuse.Feature, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	name := f.Title
	if name == "" {
		name = f.ID
	}

	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(name, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(name, width-4))
	}

	meta := "  " + itemIDStyle.Render(truncateStr(f.ID, width-4))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// visibleRange returns the window [start, end) of n items that keeps cursor
// on screen when each item takes itemHeight lines.
func visibleRange(n, cursor, height, itemHeight int) (int, int) {
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > n {
		end = n
		start = end - visible
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func renderList(features []caniuse.Feature, cursor int, height int, width int) string {
	if len(features) == 0 {
		return lipglossCenter("No features", width, height)
	}

	// Each item is 2 lines + 1 blank line = 3 lines
	start, end := visibleRange(len(features), cursor, height, 3)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderListItem(features[i], i == cursor, width))
		if i < end-1 {
			b.WriteString("\n\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
