package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

type fakeLookuper struct {
	results map[string]*caniuse.Result
	terms   []string
}

func (f *fakeLookuper) Lookup(ctx context.Context, term string) (*caniuse.Result, error) {
	f.terms = append(f.terms, term)
	if res, ok := f.results[term]; ok {
		return res, nil
	}
	return nil, caniuse.ErrNoResults
}

func newTestApp(t *testing.T, term string) (*App, *fakeLookuper) {
	t.Helper()
	fake := &fakeLookuper{results: map[string]*caniuse.Result{
		"websocket": {
			Term: "websocket",
			IDs:  []string{"websockets", "webtransport"},
			Features: []caniuse.Feature{
				{ID: "websockets", Title: "Web Sockets", MDNURL: "https://developer.mozilla.org/docs/Web/API/WebSocket"},
				{ID: "webtransport", Title: "WebTransport"},
			},
		},
	}}
	a := NewApp(RunOpts{Client: fake, Term: term})
	a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return a, fake
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewAppWithoutTermStartsInSearch(t *testing.T) {
	a, _ := newTestApp(t, "")
	if a.mode != modeSearch {
		t.Errorf("expected search mode, got %v", a.mode)
	}
	a, _ = newTestApp(t, "websocket")
	if a.mode != modeNormal {
		t.Errorf("expected normal mode with initial term, got %v", a.mode)
	}
}

func TestLookupPopulatesList(t *testing.T) {
	a, fake := newTestApp(t, "websocket")

	msg := a.lookupCmd("websocket")()
	a.Update(msg)

	if len(fake.terms) != 1 || fake.terms[0] != "websocket" {
		t.Fatalf("expected one lookup for websocket, got %v", fake.terms)
	}
	if len(a.features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(a.features))
	}
	if a.loading {
		t.Error("expected loading to end")
	}
	if !strings.Contains(a.View(), "Web Sockets") {
		t.Errorf("view missing feature title:\n%s", a.View())
	}
}

func TestCursorMovement(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	a.Update(a.lookupCmd("websocket")())

	a.Update(key("j"))
	if a.cursor != 1 {
		t.Fatalf("cursor after j = %d, want 1", a.cursor)
	}
	a.Update(key("j"))
	if a.cursor != 1 {
		t.Errorf("cursor moved past last feature: %d", a.cursor)
	}
	a.Update(key("k"))
	a.Update(key("k"))
	if a.cursor != 0 {
		t.Errorf("cursor after k,k = %d, want 0", a.cursor)
	}
}

func TestStaleLookupIgnored(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	a.term = "grid"
	a.loading = true

	a.Update(lookupDoneMsg{term: "websocket", result: &caniuse.Result{Features: []caniuse.Feature{{ID: "websockets"}}}})
	if len(a.features) != 0 || !a.loading {
		t.Error("expected result for superseded term to be dropped")
	}
}

func TestNoResultsShowsMessage(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	a.Update(key("/"))
	for _, r := range "zzz" {
		a.Update(key(string(r)))
	}
	_, cmd := a.Update(key("enter"))
	if cmd == nil || a.term != "zzz" || !a.loading {
		t.Fatalf("expected lookup for zzz to start (term=%q loading=%v)", a.term, a.loading)
	}

	a.Update(a.lookupCmd("zzz")())
	if !errors.Is(a.err, caniuse.ErrNoResults) {
		t.Fatalf("expected ErrNoResults, got %v", a.err)
	}
	if !strings.Contains(a.View(), `No results found for "zzz".`) {
		t.Errorf("view missing no-results message:\n%s", a.View())
	}
}

func TestOpenUsesMDNURL(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	a.Update(a.lookupCmd("websocket")())

	var opened []string
	a.open = func(u string) error {
		opened = append(opened, u)
		return nil
	}

	_, cmd := a.Update(key("o"))
	if cmd == nil {
		t.Fatal("expected open command")
	}
	cmd()
	if len(opened) != 1 || opened[0] != "https://developer.mozilla.org/docs/Web/API/WebSocket" {
		t.Errorf("opened %v", opened)
	}

	a.Update(key("j"))
	if _, cmd := a.Update(key("o")); cmd != nil {
		t.Error("expected no open command for feature without MDN URL")
	}
	if a.err == nil {
		t.Error("expected an error explaining the missing MDN URL")
	}
}

func TestQuit(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	_, cmd := a.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestSearchEscapeKeepsResults(t *testing.T) {
	a, _ := newTestApp(t, "websocket")
	a.Update(a.lookupCmd("websocket")())

	a.Update(key("/"))
	if a.mode != modeSearch {
		t.Fatalf("expected search mode after /")
	}
	a.Update(key("esc"))
	if a.mode != modeNormal || len(a.features) != 2 {
		t.Errorf("expected normal mode with results kept, mode=%v features=%d", a.mode, len(a.features))
	}
}
