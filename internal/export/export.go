// Package export writes the task list in portable formats and reads it back
// for import.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"todoapp/backend"
	"todoapp/internal/markdown"
	"todoapp/internal/store"
)

// Format names an export format
type Format string

const (
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
)

// Title heads markdown and PDF exports
const Title = "todos"

// Formats returns the supported export formats
func Formats() []string {
	return []string{string(FormatJSON), string(FormatMarkdown), string(FormatCSV), string(FormatPDF)}
}

// ParseFormat resolves a format name; "markdown" is accepted for md.
func ParseFormat(name string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json":
		return FormatJSON, true
	case "md", "markdown":
		return FormatMarkdown, true
	case "csv":
		return FormatCSV, true
	case "pdf":
		return FormatPDF, true
	}
	return "", false
}

// FormatFromPath guesses the format from a file extension
func FormatFromPath(path string) (Format, bool) {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return "", false
	}
	return ParseFormat(path[i+1:])
}

// Write writes tasks to w in the given format
func Write(w io.Writer, format Format, tasks []backend.Task) error {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(backend.CloneTasks(tasks), "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatMarkdown:
		return markdown.WriteChecklist(w, Title, tasks)
	case FormatCSV:
		return writeCSV(w, tasks)
	case FormatPDF:
		return writePDF(w, tasks)
	default:
		return fmt.Errorf("unknown format %s", format)
	}
}

func writeCSV(w io.Writer, tasks []backend.Task) error {
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "text", "completed"})
	for _, t := range tasks {
		_ = cw.Write([]string{strconv.FormatInt(t.ID, 10), t.Text, strconv.FormatBool(t.Completed)})
	}
	cw.Flush()
	return cw.Error()
}

func writePDF(w io.Writer, tasks []backend.Task) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, Title)
	pdf.Ln(12)
	pdf.SetFont("Arial", "", 10)

	if len(tasks) == 0 {
		pdf.MultiCell(0, 6, "No tasks", "0", "L", false)
	}
	for _, t := range tasks {
		line := fmt.Sprintf("[%s] %s", markdown.FormatStatusChar(t.Completed), markdown.FormatTaskText(t.Text))
		pdf.MultiCell(0, 6, tr(line), "0", "L", false)
	}

	return pdf.Output(w)
}

// Read parses entries for import. JSON input must match the persisted list
// format; markdown input yields one entry per checklist item. Ids are not
// carried over.
func Read(r io.Reader, format Format) ([]markdown.Item, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(r); err != nil {
			return nil, err
		}
		tasks, err := store.Decode(buf.Bytes())
		if err != nil {
			return nil, err
		}
		items := make([]markdown.Item, 0, len(tasks))
		for _, t := range tasks {
			items = append(items, markdown.Item{Text: t.Text, Completed: t.Completed})
		}
		return items, nil
	case FormatMarkdown:
		return markdown.ParseChecklist(r)
	default:
		return nil, fmt.Errorf("cannot import format %s", format)
	}
}
