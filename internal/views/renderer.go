package views

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Renderer writes a Page as plain text or JSON
type Renderer struct {
	writer io.Writer
	width  int // 0 means no truncation
}

// NewRenderer creates a new renderer; width limits line length when positive
func NewRenderer(writer io.Writer, width int) *Renderer {
	return &Renderer{writer: writer, width: width}
}

// Render writes the page as text: a filter header, one line per row and a
// summary line.
func (r *Renderer) Render(page Page) {
	_, _ = fmt.Fprintln(r.writer, filterBar(page.Filter))

	if len(page.Rows) == 0 {
		_, _ = fmt.Fprintln(r.writer, "  No tasks")
	}
	for _, row := range page.Rows {
		_, _ = fmt.Fprintln(r.writer, r.truncate(FormatRow(row)))
	}

	_, _ = fmt.Fprintf(r.writer, "%d of %d remaining\n", page.Remaining, page.Total)
}

// RenderJSON writes the visible tasks as an indented JSON array
func (r *Renderer) RenderJSON(page Page) error {
	type taskJSON struct {
		ID        int64  `json:"id"`
		Text      string `json:"text"`
		Completed bool   `json:"completed"`
	}
	out := make([]taskJSON, 0, len(page.Rows))
	for _, row := range page.Rows {
		out = append(out, taskJSON{ID: row.Task.ID, Text: row.Task.Text, Completed: row.Task.Completed})
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// FormatRow formats a single row: checkbox, id, text. The edited row is
// marked with '*' and shows its scratch text.
func FormatRow(row Row) string {
	marker := " "
	if row.Editing {
		marker = "*"
	}
	return fmt.Sprintf("%s %s %d  %s", marker, Checkbox(row.Task.Completed), row.Task.ID, row.Text)
}

// Checkbox returns the completion checkbox
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// filterBar lists the filter modes with the active one bracketed
func filterBar(active Filter) string {
	parts := make([]string, 0, 3)
	for _, f := range Filters() {
		if f == active {
			parts = append(parts, "<"+f.Label()+">")
		} else {
			parts = append(parts, f.Label())
		}
	}
	return strings.Join(parts, " | ")
}

func (r *Renderer) truncate(line string) string {
	if r.width <= 0 {
		return line
	}
	runes := []rune(line)
	if len(runes) <= r.width {
		return line
	}
	if r.width <= 3 {
		return string(runes[:r.width])
	}
	return string(runes[:r.width-3]) + "..."
}
