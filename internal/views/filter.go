// Package views projects the task list through a filter and describes how
// it is drawn.
package views

import (
	"strings"

	"todoapp/backend"
	"todoapp/internal/store"
)

// Filters returns the filter modes in display order
func Filters() []Filter {
	return []Filter{FilterAll, FilterActive, FilterCompleted}
}

// ParseFilter maps a mode name to a Filter. Unrecognized names fall back to FilterAll.
func ParseFilter(s string) Filter {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case FilterActive:
		return FilterActive
	case FilterCompleted:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Label returns the display name of the filter
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterCompleted:
		return "Completed"
	default:
		return "All"
	}
}

// Next returns the filter after f, wrapping around
func (f Filter) Next() Filter {
	switch ParseFilter(string(f)) {
	case FilterAll:
		return FilterActive
	case FilterActive:
		return FilterCompleted
	default:
		return FilterAll
	}
}

// Matches reports whether t is visible under f
func (f Filter) Matches(t backend.Task) bool {
	switch ParseFilter(string(f)) {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// FilterTasks returns the tasks visible under f, in their original order
func FilterTasks(tasks []backend.Task, f Filter) []backend.Task {
	result := make([]backend.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Matches(t) {
			result = append(result, t)
		}
	}
	return result
}

// Build maps the list, the filter and the edit state (nil when no edit is in
// progress) to a Page.
func Build(tasks []backend.Task, f Filter, edit *store.Edit) Page {
	f = ParseFilter(string(f))
	page := Page{
		Filter: f,
		Rows:   []Row{},
		Total:  len(tasks),
	}

	for _, t := range tasks {
		if !t.Completed {
			page.Remaining++
		}
		if !f.Matches(t) {
			continue
		}

		row := Row{
			Task:     t,
			Text:     t.Text,
			Controls: []Control{ControlToggle, ControlEdit, ControlDelete},
		}
		if edit != nil && edit.ID == t.ID {
			row.Editing = true
			row.Text = edit.Text
			row.Controls = []Control{ControlToggle, ControlSave, ControlDelete}
		}
		page.Rows = append(page.Rows, row)
	}

	return page
}
