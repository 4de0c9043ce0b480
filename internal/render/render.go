// Package render turns lookup results into the terminal report.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/matheuskafuri/caniuse/internal/caniuse"
)

// Printer formats results with styles bound to one lipgloss renderer.
// Output depends only on its input: no timestamps, no map iteration order.
type Printer struct {
	s styles
}

func NewPrinter(r *lipgloss.Renderer) *Printer {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	return &Printer{s: newStyles(r)}
}

// Report writes the full report for res to w in one write, so a failure
// upstream never leaves half a report behind.
func Report(w io.Writer, res *caniuse.Result) error {
	p := NewPrinter(lipgloss.NewRenderer(w))
	_, err := io.WriteString(w, p.Report(res))
	return err
}

func (p *Printer) Report(res *caniuse.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🔍 %s\n", p.s.heading.Render("Search term:"))
	fmt.Fprintf(&b, "%s\n", p.s.term.Render(res.Term))

	fmt.Fprintf(&b, "\n🏷️  %s\n", p.s.heading.Render("Selected feature IDs:"))
	for _, id := range res.IDs {
		fmt.Fprintf(&b, "  • %s\n", p.s.term.Render(id))
	}

	fmt.Fprintf(&b, "\n📊 %s\n", p.s.heading.Render("Feature data:"))
	for i, f := range res.Features {
		b.WriteString("\n")
		b.WriteString(p.Feature(i+1, f))
	}
	return b.String()
}

// Feature renders one feature block; n is its 1-based position in the report.
func (p *Printer) Feature(n int, f caniuse.Feature) string {
	var b strings.Builder

	heading := fmt.Sprintf("Feature %d:", n)
	if f.ID != "" {
		heading += " " + f.ID
	}
	fmt.Fprintf(&b, "🔹 %s\n", p.s.feature.Render(heading))
	fmt.Fprintf(&b, "  📌 %s\n", p.s.label.Render(field("Title:", f.Title)))
	fmt.Fprintf(&b, "  📝 %s\n", field("Description:", f.Description))
	fmt.Fprintf(&b, "  📘 %s\n", field("Spec:", f.Spec))
	fmt.Fprintf(&b, "  🔗 %s\n", field("MDN URL:", f.MDNURL))

	fmt.Fprintf(&b, "\n  🖥️  %s\n", p.s.label.Render("Browser Compatibility:"))
	if rows := Rows(f); len(rows) > 0 {
		b.WriteString(p.table(rows))
		b.WriteString("\n")
	} else {
		fmt.Fprintf(&b, "  %s\n", p.s.dim.Render("No compatibility data available."))
	}

	if len(f.NotesByNum) > 0 {
		fmt.Fprintf(&b, "\n  📓 %s\n", p.s.label.Render("Notes:"))
		for _, num := range sortedNoteNums(f.NotesByNum) {
			fmt.Fprintf(&b, "    Note %s: %s\n", num, f.NotesByNum[num])
		}
	}

	fmt.Fprintf(&b, "\n  ℹ️  %s\n", p.s.label.Render("Extra information:"))
	for _, key := range sortedKeys(f.Extra) {
		fmt.Fprintf(&b, "    %s: %s\n", p.s.label.Render(key), rawValue(f.Extra[key]))
	}
	return b.String()
}

func (p *Printer) table(rows []Row) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(p.s.border).
		Headers("BROWSER", "SUPPORT", "NOTES").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return p.s.header
			}
			return p.s.cell
		})
	for _, r := range rows {
		t.Row(r.Marker+" "+r.Browser, r.Support, r.Notes)
	}
	return indent(t.String(), "  ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// field renders "Label: value", leaving the value blank when absent.
func field(label, value string) string {
	if value == "" {
		return label
	}
	return label + " " + value
}

// rawValue prints a JSON value compactly; null renders empty and invalid JSON as-is.
func rawValue(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	if buf.String() == "null" {
		return ""
	}
	return buf.String()
}
