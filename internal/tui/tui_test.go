package tui_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"

	"todoapp/backend/memory"
	"todoapp/internal/store"
	"todoapp/internal/tui"
	"todoapp/internal/views"
)

// sendKeyAndWait sends a key message and waits briefly for processing.
func sendKeyAndWait(tm *teatest.TestModel, key tea.KeyMsg) {
	tm.Send(key)
	time.Sleep(20 * time.Millisecond)
}

// sendRunesAndWait sends a rune key message and waits briefly for processing.
func sendRunesAndWait(tm *teatest.TestModel, runes []rune) {
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyRunes, Runes: runes})
}

func typeAndWait(tm *teatest.TestModel, text string) {
	for _, r := range text {
		tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	time.Sleep(20 * time.Millisecond)
}

// readAll reads all output from a reader and returns as bytes
func readAll(t *testing.T, r io.Reader) []byte {
	t.Helper()
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	return out
}

func newStore(t *testing.T, kv *memory.Backend, texts ...string) *store.Store {
	t.Helper()
	s := store.New(kv)
	if err := s.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	for _, text := range texts {
		if _, _, err := s.Add(context.Background(), text); err != nil {
			t.Fatalf("Add(%q): %v", text, err)
		}
	}
	return s
}

// finalModel quits the program and returns the final model
func finalModel(t *testing.T, tm *teatest.TestModel) *tui.Model {
	t.Helper()
	sendRunesAndWait(tm, []rune{'q'})
	m, ok := tm.FinalModel(t, teatest.WithFinalTimeout(time.Second)).(*tui.Model)
	if !ok {
		t.Fatal("final model is not *tui.Model")
	}
	return m
}

// TestTUILaunch renders the empty list and quits
func TestTUILaunch(t *testing.T) {
	model := tui.New(newStore(t, memory.New()), views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	sendRunesAndWait(tm, []rune{'q'})

	out := readAll(t, tm.FinalOutput(t, teatest.WithFinalTimeout(time.Second)))
	if !bytes.Contains(out, []byte("No tasks")) {
		t.Errorf("expected empty list marker in output:\n%s", out)
	}
	if !bytes.Contains(out, []byte("0 of 0 remaining")) {
		t.Errorf("expected counts in status bar:\n%s", out)
	}
}

// TestTUIAddTask adds a task through the input line and checks it was persisted
func TestTUIAddTask(t *testing.T) {
	kv := memory.New()
	model := tui.New(newStore(t, kv), views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	sendRunesAndWait(tm, []rune{'a'})
	typeAndWait(tm, "buy milk")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	teatest.WaitFor(t, tm.Output(), func(b []byte) bool {
		return bytes.Contains(b, []byte("buy milk"))
	}, teatest.WithDuration(time.Second))

	finalModel(t, tm)

	reloaded := newStore(t, kv)
	tasks := reloaded.Tasks()
	if len(tasks) != 1 || tasks[0].Text != "buy milk" {
		t.Errorf("persisted tasks = %+v, want [buy milk]", tasks)
	}
}

// TestTUIToggleAndFilter completes a task and hides it with the active filter
func TestTUIToggleAndFilter(t *testing.T) {
	kv := memory.New()
	s := newStore(t, kv, "buy milk", "walk dog")
	model := tui.New(s, views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	sendRunesAndWait(tm, []rune{'2'})

	m := finalModel(t, tm)
	if m.Filter() != views.FilterActive {
		t.Errorf("filter = %q, want active", m.Filter())
	}

	active := views.FilterTasks(s.Tasks(), m.Filter())
	if len(active) != 1 || active[0].Text != "walk dog" {
		t.Errorf("visible tasks = %+v, want [walk dog]", active)
	}

	persisted := newStore(t, kv).Tasks()
	if len(persisted) != 2 || !persisted[0].Completed || persisted[1].Completed {
		t.Errorf("persisted = %+v, want buy milk completed only", persisted)
	}
}

// TestTUIEditTask edits the selected task inline and saves it
func TestTUIEditTask(t *testing.T) {
	kv := memory.New()
	s := newStore(t, kv, "walk dog")
	model := tui.New(s, views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	sendRunesAndWait(tm, []rune{'e'})
	typeAndWait(tm, " twice")
	sendKeyAndWait(tm, tea.KeyMsg{Type: tea.KeyEnter})

	finalModel(t, tm)

	if _, editing := s.Editing(); editing {
		t.Error("edit state should be cleared after save")
	}
	persisted := newStore(t, kv).Tasks()
	if len(persisted) != 1 || persisted[0].Text != "walk dog twice" {
		t.Errorf("persisted = %+v, want [walk dog twice]", persisted)
	}
}

// TestTUIDeleteTask deletes the selected task without confirmation
func TestTUIDeleteTask(t *testing.T) {
	kv := memory.New()
	s := newStore(t, kv, "buy milk", "walk dog")
	model := tui.New(s, views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	sendRunesAndWait(tm, []rune{'d'})

	finalModel(t, tm)

	persisted := newStore(t, kv).Tasks()
	if len(persisted) != 1 || persisted[0].Text != "walk dog" {
		t.Errorf("persisted = %+v, want [walk dog]", persisted)
	}
}

// TestTUIQuit exits on ctrl+c
func TestTUIQuit(t *testing.T) {
	model := tui.New(newStore(t, memory.New()), views.FilterAll)
	tm := teatest.NewTestModel(t, model, teatest.WithInitialTermSize(80, 24))

	time.Sleep(100 * time.Millisecond)
	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})

	tm.WaitFinished(t, teatest.WithFinalTimeout(time.Second))
}
