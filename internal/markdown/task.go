// Package markdown reads and writes task lists as markdown checklists.
package markdown

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	"todoapp/backend"
)

// Item is one checklist entry
type Item struct {
	Text      string
	Completed bool
}

var itemPattern = regexp.MustCompile(`^\s*[-*+]\s+\[(.)\]\s?(.*)$`)

// ParseStatusChar converts a markdown checkbox character to a completion flag.
func ParseStatusChar(char string) bool {
	return strings.EqualFold(char, "x")
}

// FormatStatusChar converts a completion flag to a markdown checkbox character.
func FormatStatusChar(completed bool) string {
	if completed {
		return "x"
	}
	return " "
}

// WriteTask writes a single "- [x] text" line to sb.
func WriteTask(sb *strings.Builder, task backend.Task) {
	sb.WriteString("- [")
	sb.WriteString(FormatStatusChar(task.Completed))
	sb.WriteString("] ")
	sb.WriteString(FormatTaskText(task.Text))
	sb.WriteString("\n")
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// FormatTaskText replaces line breaks with spaces so the text stays a single
// list item. Other whitespace is kept.
func FormatTaskText(text string) string {
	return lineBreaks.Replace(text)
}

// WriteChecklist writes tasks as a markdown checklist under an optional heading.
func WriteChecklist(w io.Writer, title string, tasks []backend.Task) error {
	var sb strings.Builder
	if title != "" {
		sb.WriteString("# ")
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	for _, task := range tasks {
		WriteTask(&sb, task)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// ParseChecklist reads checklist items from r. Lines that are not checklist
// items (headings, prose, blank lines) are skipped. Item text is everything
// after the single space following the checkbox; items may be empty.
func ParseChecklist(r io.Reader) ([]Item, error) {
	var items []Item
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		matches := itemPattern.FindStringSubmatch(scanner.Text())
		if len(matches) != 3 {
			continue
		}
		text := strings.TrimSuffix(matches[2], "\r")
		items = append(items, Item{Text: text, Completed: ParseStatusChar(matches[1])})
	}
	return items, scanner.Err()
}
