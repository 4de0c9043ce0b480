package render

import "github.com/charmbracelet/lipgloss"

var (
	colorHeading = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorTerm    = lipgloss.AdaptiveColor{Light: "#B58900", Dark: "#F1C40F"}
	colorFeature = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorDim     = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorBorder  = lipgloss.AdaptiveColor{Light: "#DBDBDB", Dark: "#383838"}
)

// styles are bound to one renderer so color support follows the output writer.
type styles struct {
	heading lipgloss.Style
	term    lipgloss.Style
	feature lipgloss.Style
	label   lipgloss.Style
	dim     lipgloss.Style
	border  lipgloss.Style
	header  lipgloss.Style
	cell    lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(colorHeading),
		term:    r.NewStyle().Foreground(colorTerm),
		feature: r.NewStyle().Bold(true).Foreground(colorFeature),
		label:   r.NewStyle().Bold(true),
		dim:     r.NewStyle().Foreground(colorDim),
		border:  r.NewStyle().Foreground(colorBorder),
		header:  r.NewStyle().Bold(true).Padding(0, 1),
		cell:    r.NewStyle().Padding(0, 1),
	}
}
