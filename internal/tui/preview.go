package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/caniuse/internal/caniuse"
	"github.com/matheuskafuri/caniuse/internal/render"
)

var previewPrinter = render.NewPrinter(lipgloss.DefaultRenderer())

// previewContent is the report block for the feature under the cursor,
// numbered by its position in the result.
func previewContent(features []caniuse.Feature, cursor int) string {
	if cursor < 0 || cursor >= len(features) {
		return "Select a feature"
	}
	return previewPrinter.Feature(cursor+1, features[cursor])
}
