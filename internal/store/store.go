// Package store holds the ordered task list in memory and mirrors it to a
// persistence slot after every change.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"todoapp/backend"
	"todoapp/internal/utils"
)

// Edit is the in-progress edit of one task: its id and the scratch text.
type Edit struct {
	ID   int64
	Text string
}

// Store is the task list plus the edit state. It is owned by a single
// goroutine and is not safe for concurrent use.
type Store struct {
	kv      backend.KeyValueStore
	key     string
	tasks   []backend.Task
	editing *Edit
	ids     *IDGenerator
}

// Option is a functional option for Store
type Option func(*Store)

// WithKey sets the slot key (backend.DefaultKey by default)
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithClock sets the clock ids are derived from
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.ids = NewIDGenerator(now)
	}
}

// New creates an empty store persisting to kv. Call Load to hydrate it.
func New(kv backend.KeyValueStore, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		key:   backend.DefaultKey,
		tasks: []backend.Task{},
		ids:   NewIDGenerator(time.Now),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the slot key
func (s *Store) Key() string {
	return s.key
}

// Load replaces the in-memory list with the persisted one. Missing or
// malformed data yields an empty list and no error; only a failing backend
// read is reported.
func (s *Store) Load(ctx context.Context) error {
	s.tasks = []backend.Task{}
	s.editing = nil

	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return fmt.Errorf("failed to read %q: %w", s.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		utils.Debugf("no persisted tasks under %q", s.key)
		return nil
	}

	tasks, err := Decode([]byte(raw))
	if err != nil {
		utils.Debugf("ignoring persisted tasks under %q: %v", s.key, err)
		return nil
	}

	seen := make(map[int64]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			utils.Debugf("dropping duplicate task id %d", t.ID)
			continue
		}
		seen[t.ID] = true
		s.ids.Observe(t.ID)
		s.tasks = append(s.tasks, t)
	}
	utils.Debugf("loaded %d tasks from %q", len(s.tasks), s.key)
	return nil
}

// Persist writes the whole list to the slot.
func (s *Store) Persist(ctx context.Context) error {
	data, err := Encode(s.tasks)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("failed to write %q: %w", s.key, err)
	}
	return nil
}

// Tasks returns a copy of the list in insertion order.
func (s *Store) Tasks() []backend.Task {
	return backend.CloneTasks(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns the task with id.
func (s *Store) Get(id int64) (backend.Task, bool) {
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return backend.Task{}, false
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends a new task. Text that is empty after trimming is ignored
// (added is false); otherwise the text is stored as given.
func (s *Store) Add(ctx context.Context, text string) (task backend.Task, added bool, err error) {
	if strings.TrimSpace(text) == "" {
		return backend.Task{}, false, nil
	}

	task = backend.Task{
		ID:        s.ids.Next(),
		Text:      text,
		Completed: false,
	}
	s.tasks = append(s.tasks, task)
	utils.Debugf("added task %d", task.ID)
	return task, true, s.Persist(ctx)
}

// Toggle flips the completion flag of the task with id. Unknown ids are a no-op.
func (s *Store) Toggle(ctx context.Context, id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	utils.Debugf("toggled task %d to completed=%v", id, s.tasks[i].Completed)
	return true, s.Persist(ctx)
}

// Delete removes the task with id. Unknown ids are a no-op.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	utils.Debugf("deleted task %d", id)
	return true, s.Persist(ctx)
}

// BeginEdit marks the task with id as being edited, with text as the scratch
// buffer. Unknown ids are a no-op.
func (s *Store) BeginEdit(id int64, text string) bool {
	if s.indexOf(id) < 0 {
		return false
	}
	s.editing = &Edit{ID: id, Text: text}
	return true
}

// SetEditText replaces the scratch buffer of the current edit.
func (s *Store) SetEditText(text string) {
	if s.editing != nil {
		s.editing.Text = text
	}
}

// Editing returns the current edit, if any.
func (s *Store) Editing() (Edit, bool) {
	if s.editing == nil {
		return Edit{}, false
	}
	return *s.editing, true
}

// CancelEdit drops the current edit without changing any task.
func (s *Store) CancelEdit() {
	s.editing = nil
}

// CommitEdit sets the text of the task with id and ends the edit. The text is
// not trimmed and may be empty. Unknown ids only end the edit.
func (s *Store) CommitEdit(ctx context.Context, id int64, text string) (bool, error) {
	s.editing = nil

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tasks[i].Text = text
	utils.Debugf("edited task %d", id)
	return true, s.Persist(ctx)
}
