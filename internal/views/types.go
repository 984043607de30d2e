package views

import "todoapp/backend"

// Filter selects which tasks are displayed
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Control is an action a row offers to the user
type Control string

const (
	ControlToggle Control = "toggle"
	ControlEdit   Control = "edit"
	ControlSave   Control = "save"
	ControlDelete Control = "delete"
)

// Row is one visible task
type Row struct {
	Task     backend.Task `json:"task"`
	Editing  bool         `json:"editing"`
	Text     string       `json:"text"` // scratch text while editing, else the task text
	Controls []Control    `json:"controls"`
}

// Page is everything needed to draw the list
type Page struct {
	Filter    Filter `json:"filter"`
	Rows      []Row  `json:"rows"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"` // tasks not completed, across all filters
}
