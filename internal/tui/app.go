package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/matheuskafuri/caniuse/internal/browser"
	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeHelp
)

// Lookuper resolves a search term to feature records. *caniuse.Client satisfies it.
type Lookuper interface {
	Lookup(ctx context.Context, term string) (*caniuse.Result, error)
}

type App struct {
	client  Lookuper
	timeout time.Duration
	open    func(string) error

	term     string
	features []caniuse.Feature
	cursor   int
	focus    focusPane
	mode     mode

	width  int
	height int

	// Sub-components
	searchInput textinput.Model
	spinner     spinner.Model
	preview     viewport.Model

	loading bool
	err     error
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Client Lookuper
	// Term, when set, is searched as soon as the app starts.
	Term string
	// Timeout bounds one lookup; zero means 30s.
	Timeout time.Duration
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search features..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	a := &App{
		client:      opts.Client,
		timeout:     timeout,
		open:        browser.Open,
		term:        strings.TrimSpace(opts.Term),
		searchInput: ti,
		spinner:     sp,
		preview:     viewport.New(0, 0),
	}
	if a.term == "" {
		a.mode = modeSearch
		a.searchInput.Focus()
	}
	return a
}

func (a *App) Init() tea.Cmd {
	if a.term != "" {
		return a.startLookup(a.term)
	}
	return textinput.Blink
}

func (a *App) startLookup(term string) tea.Cmd {
	a.term = term
	a.loading = true
	a.err = nil
	return tea.Batch(a.lookupCmd(term), a.spinner.Tick)
}

// lookupCmd captures the client and term into the closure to avoid races.
func (a *App) lookupCmd(term string) tea.Cmd {
	client := a.client
	timeout := a.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		res, err := client.Lookup(ctx, term)
		if err != nil {
			return lookupErrMsg{term: term, err: err}
		}
		return lookupDoneMsg{term: term, result: res}
	}
}

func (a *App) openCmd(url string) tea.Cmd {
	open := a.open
	return func() tea.Msg {
		if err := open(url); err != nil {
			return openErrMsg{err: err}
		}
		return nil
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizePreview()
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case lookupDoneMsg:
		if msg.term != a.term {
			return a, nil // superseded by a newer search
		}
		a.loading = false
		a.features = msg.result.Features
		a.cursor = 0
		a.focus = focusList
		a.refreshPreview()
		return a, nil

	case lookupErrMsg:
		if msg.term != a.term {
			return a, nil
		}
		a.loading = false
		a.features = nil
		a.cursor = 0
		a.err = msg.err
		a.refreshPreview()
		return a, nil

	case openErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	if a.mode == modeSearch {
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeNormal
		}
		return a, nil
	}

	// Normal mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.focus == focusList {
			if a.cursor < len(a.features)-1 {
				a.cursor++
				a.refreshPreview()
			}
			return a, nil
		}
		a.preview.LineDown(1)
		return a, nil
	case "k", "up":
		if a.focus == focusList {
			if a.cursor > 0 {
				a.cursor--
				a.refreshPreview()
			}
			return a, nil
		}
		a.preview.LineUp(1)
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "o", "enter":
		if f := a.selected(); f != nil {
			if f.MDNURL == "" {
				a.err = fmt.Errorf("%s has no MDN URL", f.ID)
				return a, nil
			}
			return a, a.openCmd(f.MDNURL)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		return a, textinput.Blink
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	if a.focus == focusPreview {
		var cmd tea.Cmd
		a.preview, cmd = a.preview.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, nil
	case "enter":
		term := strings.TrimSpace(a.searchInput.Value())
		if term == "" {
			return a, nil
		}
		a.mode = modeNormal
		a.searchInput.Blur()
		return a, a.startLookup(term)
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) selected() *caniuse.Feature {
	if a.cursor < 0 || a.cursor >= len(a.features) {
		return nil
	}
	return &a.features[a.cursor]
}

func (a *App) refreshPreview() {
	a.preview.SetContent(previewContent(a.features, a.cursor))
	a.preview.GotoTop()
}

// paneSizes splits the body between the feature list and the preview.
func (a *App) paneSizes() (listWidth, previewWidth, bodyHeight int) {
	listWidth = a.width / 3
	if listWidth < 24 {
		listWidth = 24
	}
	previewWidth = a.width - listWidth - 4 // two borders per pane
	if previewWidth < 20 {
		previewWidth = 20
	}
	bodyHeight = a.height - 5 // header, status bar, pane borders
	if bodyHeight < 3 {
		bodyHeight = 3
	}
	return listWidth, previewWidth, bodyHeight
}

func (a *App) resizePreview() {
	_, w, h := a.paneSizes()
	a.preview.Width = w
	a.preview.Height = h
}

func (a *App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.mode == modeHelp {
		return a.renderHelp()
	}

	header := headerStyle.Render("caniuse")
	if a.term != "" {
		header += " " + headerTermStyle.Render("· "+a.term)
	}
	if a.loading {
		header += " " + a.spinner.View()
	}

	listWidth, previewWidth, bodyHeight := a.paneSizes()

	var listBody string
	switch {
	case a.err != nil && len(a.features) == 0:
		listBody = errorStyle.Width(listWidth).Render(errorText(a.err, a.term))
	default:
		listBody = renderList(a.features, a.cursor, bodyHeight, listWidth)
	}

	lStyle, pStyle := listPaneStyle, previewPaneActiveStyle
	if a.focus == focusList {
		lStyle, pStyle = listPaneActiveStyle, previewPaneStyle
	}
	list := lStyle.Width(listWidth).Height(bodyHeight).Render(listBody)
	preview := pStyle.Width(previewWidth).Height(bodyHeight).Render(a.preview.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, preview)

	footer := renderStatusBar(len(a.features), a.term, a.width, a.mode, a.loading)
	switch {
	case a.mode == modeSearch:
		footer = a.searchInput.View()
	case a.err != nil && len(a.features) > 0:
		footer = errorStyle.Render(" " + a.err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func errorText(err error, term string) string {
	if errors.Is(err, caniuse.ErrNoResults) {
		return fmt.Sprintf("No results found for %q.", term)
	}
	return err.Error()
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("caniuse")
	dim := helpDimStyle

	help := title + dim.Render(" · Keyboard Shortcuts") + "\n\n" +
		dim.Render("Navigation") + "\n" +
		"  j/k, ↑/↓     Move through features (or scroll the preview)\n" +
		"  tab           Switch focus between list and preview\n\n" +
		dim.Render("Actions") + "\n" +
		"  /             New search\n" +
		"  o, enter      Open MDN page in browser\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
