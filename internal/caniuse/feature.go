package caniuse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// State is the coarse support classification of one browser entry.
type State int

const (
	StateUnknown State = iota
	StateSupported
	StateUnsupported
	StatePartial
)

// Support is one browser's entry in a feature's support map.
// Value keeps the service's text verbatim ("124", "false", "16.4 #2").
type Support struct {
	Value string
	State State
	Notes []string
}

func (s *Support) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case 'n':
		*s = Support{Value: "unknown", State: StateUnknown}
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*s = boolSupport(b)
	case '"':
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = stringSupport(v)
	case '[':
		// MDN lists several statements for some browsers; the first is the current one.
		var list []Support
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*s = Support{Value: "unknown", State: StateUnknown}
		if len(list) > 0 {
			*s = list[0]
		}
	case '{':
		var obj struct {
			VersionAdded          *Support        `json:"version_added"`
			PartialImplementation bool            `json:"partial_implementation"`
			Notes                 json.RawMessage `json:"notes"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		*s = Support{Value: "unknown", State: StateUnknown}
		if obj.VersionAdded != nil {
			*s = *obj.VersionAdded
		}
		if obj.PartialImplementation && s.State == StateSupported {
			s.State = StatePartial
		}
		s.Notes = append(s.Notes, stringList(obj.Notes)...)
	default:
		// Bare numbers are version tokens.
		*s = stringSupport(string(data))
	}
	return nil
}

func boolSupport(b bool) Support {
	if b {
		return Support{Value: "true", State: StateSupported}
	}
	return Support{Value: "false", State: StateUnsupported}
}

// stringSupport classifies by the first token, so caniuse letters with flags
// and note refs ("a x #2") land like their letter. Version tokens are supported.
func stringSupport(v string) Support {
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return Support{Value: v, State: StateUnknown}
	}
	if state, ok := LetterState(fields[0]); ok {
		return Support{Value: v, State: state}
	}
	return Support{Value: v, State: StateSupported}
}

// LetterState maps caniuse support letters and their spelled-out forms.
// ok is false for anything else, such as a version number.
func LetterState(tok string) (State, bool) {
	switch strings.ToLower(tok) {
	case "y", "true":
		return StateSupported, true
	case "n", "false":
		return StateUnsupported, true
	case "a", "partial":
		return StatePartial, true
	case "u", "unknown":
		return StateUnknown, true
	}
	return StateUnknown, false
}

// stringList decodes a JSON string or array of strings; anything else is empty.
func stringList(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many
	}
	return nil
}

// Feature is one compatibility record returned by the data endpoint.
type Feature struct {
	ID          string
	Title       string
	Description string
	Spec        string
	Status      string
	MDNURL      string
	Support     map[string]Support
	// Stats is the caniuse-native table: browser -> version -> support letters.
	Stats      map[string]map[string]string
	NotesByNum map[string]string
	// Notes holds per-browser free text when the record carries it.
	Notes map[string]string
	// Extra keeps every other top-level key as raw JSON.
	Extra map[string]json.RawMessage
}

var knownFields = []string{"id", "title", "description", "spec", "status", "mdn_url", "support", "stats", "notes_by_num"}

func (f *Feature) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("feature record is null")
	}

	*f = Feature{
		ID:          rawString(raw["id"]),
		Title:       rawString(raw["title"]),
		Description: rawString(raw["description"]),
		Spec:        rawString(raw["spec"]),
		Status:      rawString(raw["status"]),
		MDNURL:      rawString(raw["mdn_url"]),
	}
	if err := decodeOptional(raw["support"], &f.Support); err != nil {
		return fmt.Errorf("support: %w", err)
	}
	if err := decodeOptional(raw["stats"], &f.Stats); err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	if err := decodeOptional(raw["notes_by_num"], &f.NotesByNum); err != nil {
		return fmt.Errorf("notes_by_num: %w", err)
	}
	for _, k := range knownFields {
		delete(raw, k)
	}

	// "notes" is per-browser text in some records and a general string in
	// others; only the former is modeled.
	if notes, ok := raw["notes"]; ok {
		var perBrowser map[string]string
		if json.Unmarshal(notes, &perBrowser) == nil && perBrowser != nil {
			f.Notes = perBrowser
			delete(raw, "notes")
		}
	}

	if len(raw) > 0 {
		f.Extra = raw
	}
	return nil
}

// rawString returns the JSON string value, or "" for null, missing or non-string values.
func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeOptional(raw json.RawMessage, v any) error {
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Result is everything one lookup produced, in the order the service ranked it.
type Result struct {
	Term     string
	IDs      []string
	Features []Feature
}
