package render

import (
	"strings"
	"testing"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

func TestMarker(t *testing.T) {
	tests := []struct {
		state caniuse.State
		want  string
	}{
		{caniuse.StateSupported, "✅"},
		{caniuse.StateUnsupported, "❌"},
		{caniuse.StatePartial, "🟨"},
		{caniuse.StateUnknown, "❓"},
	}
	for _, tt := range tests {
		if got := Marker(tt.state); got != tt.want {
			t.Errorf("Marker(%v) = %q, want %q", tt.state, got, tt.want)
		}
	}
}

func TestFalseAlwaysNotSupported(t *testing.T) {
	f := decodeFeature(t, `{"support":{"a":false,"b":{"version_added":false},"c":"false"}}`)
	for _, r := range Rows(f) {
		if r.Marker != markerUnsupported {
			t.Errorf("%s: marker %q, want %q", r.Browser, r.Marker, markerUnsupported)
		}
		if r.Support != "false" {
			t.Errorf("%s: support %q, want false", r.Browser, r.Support)
		}
	}
}

func TestNonFalseShownVerbatim(t *testing.T) {
	values := []string{"124", "≤79", "preview", "16.4", "1.0.0-beta"}
	support := make(map[string]caniuse.Support, len(values))
	for i, v := range values {
		support[string(rune('a'+i))] = caniuse.Support{Value: v, State: caniuse.StateSupported}
	}
	rows := Rows(caniuse.Feature{Support: support})
	for i, r := range rows {
		if r.Marker != markerSupported {
			t.Errorf("%s: marker %q, want supported", r.Browser, r.Marker)
		}
		if r.Support != values[i] {
			t.Errorf("%s: support %q, want %q", r.Browser, r.Support, values[i])
		}
	}
}

func TestRowsSortedByBrowser(t *testing.T) {
	f := decodeFeature(t, `{"support":{"safari":false,"chrome":"124","firefox":false,"edge":"124"}}`)
	var names []string
	for _, r := range Rows(f) {
		names = append(names, r.Browser)
	}
	if got := strings.Join(names, ","); got != "chrome,edge,firefox,safari" {
		t.Errorf("rows = %s", got)
	}
}

func TestRowsNotes(t *testing.T) {
	f := decodeFeature(t, `{
		"support": {"safari": {"version_added": "14 #1", "notes": "Needs HTTPS"}},
		"notes": {"safari": "Per-browser note"},
		"notes_by_num": {"1": "Numbered note"}
	}`)
	rows := Rows(f)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	want := "#1: Numbered note\nNeeds HTTPS\nPer-browser note"
	if rows[0].Notes != want {
		t.Errorf("notes = %q, want %q", rows[0].Notes, want)
	}
	if rows[0].Support != "14 #1 (see notes)" {
		t.Errorf("support = %q", rows[0].Support)
	}
}

func TestRowsStatsFallback(t *testing.T) {
	f := decodeFeature(t, `{
		"stats": {
			"ie": {"9": "n", "10": "a x #1", "11": "a #2"},
			"safari": {"9.1": "y", "16.4-16.5": "y", "16.10": "y", "TP": "y"},
			"chrome": {"4": "n"},
			"opera": {"12": "u"}
		},
		"notes_by_num": {"2": "Old syntax"}
	}`)
	rows := Rows(f)
	got := map[string]Row{}
	for _, r := range rows {
		got[r.Browser] = r
	}

	if r := got["ie"]; r.Support != "11 (a #2) (see notes)" || r.Marker != markerPartial || r.Notes != "#2: Old syntax" {
		t.Errorf("ie row = %+v", r)
	}
	if r := got["safari"]; r.Support != "16.10 (y)" || r.Marker != markerSupported {
		t.Errorf("safari row = %+v", r)
	}
	if r := got["chrome"]; r.Marker != markerUnsupported {
		t.Errorf("chrome row = %+v", r)
	}
	if r := got["opera"]; r.Marker != markerUnknown {
		t.Errorf("opera row = %+v", r)
	}
}

func TestRowsSupportWinsOverStats(t *testing.T) {
	f := decodeFeature(t, `{"support":{"chrome":"1"},"stats":{"ie":{"11":"n"}}}`)
	rows := Rows(f)
	if len(rows) != 1 || rows[0].Browser != "chrome" {
		t.Errorf("expected only support rows, got %+v", rows)
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"10", "9", 1},
		{"16.10", "16.9", 1},
		{"15.2-15.3", "15.4", -1},
		{"TP", "3.1", -1},
		{"17", "17", 0},
		{"17.0", "17", 1},
	}
	for _, tt := range tests {
		if got := compareVersions(tt.a, tt.b); got != tt.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestStatsState(t *testing.T) {
	tests := []struct {
		in   string
		want caniuse.State
	}{
		{"y", caniuse.StateSupported},
		{"y x", caniuse.StateSupported},
		{"n d #3", caniuse.StateUnsupported},
		{"a #1", caniuse.StatePartial},
		{"p", caniuse.StateUnknown},
		{"", caniuse.StateUnknown},
	}
	for _, tt := range tests {
		if got := statsState(tt.in); got != tt.want {
			t.Errorf("statsState(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
