package render

import (
	"sort"
	"strconv"
	"strings"

	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

const (
	markerSupported   = "✅"
	markerUnsupported = "❌"
	markerPartial     = "🟨"
	markerUnknown     = "❓"
)

// Marker returns the symbol shown next to a browser name.
func Marker(s caniuse.State) string {
	switch s {
	case caniuse.StateSupported:
		return markerSupported
	case caniuse.StateUnsupported:
		return markerUnsupported
	case caniuse.StatePartial:
		return markerPartial
	default:
		return markerUnknown
	}
}

// Row is one line of the browser compatibility table.
type Row struct {
	Browser string
	Marker  string
	Support string
	Notes   string
}

// Rows builds the compatibility table for f in browser-name order. The
// support map wins; the caniuse stats table is only used when it is absent.
func Rows(f caniuse.Feature) []Row {
	if len(f.Support) > 0 {
		rows := make([]Row, 0, len(f.Support))
		for _, browser := range sortedKeys(f.Support) {
			s := f.Support[browser]
			notes := noteRefs(s.Value, f.NotesByNum)
			notes = append(notes, s.Notes...)
			if n := f.Notes[browser]; n != "" {
				notes = append(notes, n)
			}
			rows = append(rows, Row{
				Browser: browser,
				Marker:  Marker(s.State),
				Support: withNoteHint(s.Value),
				Notes:   strings.Join(notes, "\n"),
			})
		}
		return rows
	}

	rows := make([]Row, 0, len(f.Stats))
	for _, browser := range sortedKeys(f.Stats) {
		versions := f.Stats[browser]
		latest := latestVersion(versions)
		if latest == "" {
			continue
		}
		value := versions[latest]
		notes := noteRefs(value, f.NotesByNum)
		if n := f.Notes[browser]; n != "" {
			notes = append(notes, n)
		}
		rows = append(rows, Row{
			Browser: browser,
			Marker:  Marker(statsState(value)),
			Support: withNoteHint(latest + " (" + value + ")"),
			Notes:   strings.Join(notes, "\n"),
		})
	}
	return rows
}

// statsState classifies caniuse support letters such as "y", "a x #2" or "n d".
// Letters outside the table (polyfill "p", prefix-only "x") are unknown.
func statsState(value string) caniuse.State {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return caniuse.StateUnknown
	}
	state, _ := caniuse.LetterState(fields[0])
	return state
}

func withNoteHint(v string) string {
	if strings.Contains(v, "#") {
		return v + " (see notes)"
	}
	return v
}

// noteRefs resolves "#N" tokens in v against the feature's numbered notes.
func noteRefs(v string, byNum map[string]string) []string {
	var out []string
	for _, tok := range strings.Fields(v) {
		if !strings.HasPrefix(tok, "#") {
			continue
		}
		num := tok[1:]
		if note, ok := byNum[num]; ok {
			out = append(out, "#"+num+": "+note)
		}
	}
	return out
}

// latestVersion picks the highest version key; ranges like "15.2-15.3" compare by their start.
func latestVersion(versions map[string]string) string {
	var latest string
	for v := range versions {
		if latest == "" || compareVersions(v, latest) > 0 {
			latest = v
		}
	}
	return latest
}

func compareVersions(a, b string) int {
	pa, pb := versionParts(a), versionParts(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		var x, y int
		if i < len(pa) {
			x = pa[i]
		}
		if i < len(pb) {
			y = pb[i]
		}
		if x != y {
			if x < y {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a, b)
}

// versionParts parses "16.4-16.5" as [16 4]; non-numeric versions ("TP") sort first.
func versionParts(v string) []int {
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	var parts []int
	for _, p := range strings.Split(v, ".") {
		n, err := strconv.Atoi(p)
		if err != nil {
			return []int{-1}
		}
		parts = append(parts, n)
	}
	return parts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedNoteNums orders note numbers numerically, falling back to text order.
func sortedNoteNums(m map[string]string) []string {
	keys := sortedKeys(m)
	sort.SliceStable(keys, func(i, j int) bool {
		a, errA := strconv.Atoi(keys[i])
		b, errB := strconv.Atoi(keys[j])
		if errA != nil || errB != nil {
			return errA == nil && errB != nil
		}
		return a < b
	})
	return keys
}
