package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
)

func newStore(t *testing.T, texts ...string) *todo.Manager {
	t.Helper()
	m, err := todo.NewManager(filepath.Join(t.TempDir(), "taskfile.json"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	for _, text := range texts {
		if _, err := m.Add(todo.NewTaskWithText(text)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m *tuiModel, msgs ...tea.Msg) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var model tea.Model
		model, cmd = m.Update(msg)
		if model != m {
			t.Fatal("Update returned a different model")
		}
	}
	return cmd
}

func TestCursorMovement(t *testing.T) {
	m := newTUIModel(newStore(t, "one", "two", "three"))

	press(t, m, tea.KeyMsg{Type: tea.KeyDown}, keyRunes("j"), keyRunes("j"))
	if m.cursor != 2 {
		t.Errorf("cursor: got %d, want 2 (clamped)", m.cursor)
	}
	press(t, m, tea.KeyMsg{Type: tea.KeyUp}, keyRunes("k"), keyRunes("k"))
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0 (clamped)", m.cursor)
	}
}

func TestMarkDoneAndDelete(t *testing.T) {
	store := newStore(t, "buy milk", "walk dog")
	var events []logging.Event
	m := newTUIModel(store, WithOnChange(func(e logging.Event) { events = append(events, e) }))

	press(t, m, keyRunes("j"), keyRunes("x"))
	if !store.Tasks()[1].Done {
		t.Error("expected walk dog to be done")
	}
	if !m.dirty {
		t.Error("expected model to be dirty")
	}

	press(t, m, keyRunes("d"))
	if store.Len() != 1 || store.Tasks()[0].Text != "buy milk" {
		t.Errorf("tasks after delete: %+v", store.List())
	}
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0 after deleting last row", m.cursor)
	}

	if len(events) != 2 || events[0].Type != logging.EventDone || events[1].Type != logging.EventDelete {
		t.Errorf("events: %+v", events)
	}
	if events[1].Text != "walk dog" {
		t.Errorf("delete event text: got %q", events[1].Text)
	}
}

func TestActionsOnEmptyList(t *testing.T) {
	m := newTUIModel(newStore(t))
	press(t, m, keyRunes("x"), keyRunes("d"), tea.KeyMsg{Type: tea.KeyDown})
	if m.dirty {
		t.Error("no-op actions must not mark the model dirty")
	}
	if !strings.Contains(m.View(), "No tasks") {
		t.Errorf("view: %q", m.View())
	}
}

func TestAddFlow(t *testing.T) {
	store := newStore(t, "buy milk")
	m := newTUIModel(store)

	press(t, m, keyRunes("a"))
	if m.mode != modeAdd {
		t.Fatal("expected add mode")
	}
	press(t, m, keyRunes("call mom"), tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != modeList {
		t.Error("expected list mode after enter")
	}
	if store.Len() != 2 || store.Tasks()[1].Text != "call mom" {
		t.Fatalf("tasks: %+v", store.List())
	}
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}

	press(t, m, keyRunes("a"), keyRunes("BUY MILK"), tea.KeyMsg{Type: tea.KeyEnter})
	if store.Len() != 2 {
		t.Errorf("duplicate was added: %+v", store.List())
	}
	if !strings.Contains(m.notice, "already exists") {
		t.Errorf("notice: got %q", m.notice)
	}

	press(t, m, keyRunes("a"), keyRunes("ignored"), tea.KeyMsg{Type: tea.KeyEsc})
	if store.Len() != 2 || m.mode != modeList {
		t.Error("esc must cancel without adding")
	}
}

func TestQuitSaves(t *testing.T) {
	store := newStore(t, "buy milk")
	saved := 0
	m := newTUIModel(store, WithOnSave(func() { saved++ }))

	press(t, m, keyRunes("x"))
	cmd := press(t, m, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if saved != 1 || m.dirty {
		t.Errorf("saved %d times, dirty %v", saved, m.dirty)
	}

	reloaded, _ := todo.NewManager(store.Path())
	if _, err := reloaded.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reloaded.Len() != 1 || !reloaded.Tasks()[0].Done {
		t.Errorf("saved tasks: %+v", reloaded.List())
	}
}

type failingStore struct {
	*todo.Manager
}

func (failingStore) Save() error { return errors.New("disk full") }

func TestSaveError(t *testing.T) {
	m := newTUIModel(failingStore{newStore(t, "buy milk")})
	press(t, m, keyRunes("x"), keyRunes("w"))
	if m.saveErr == nil || !strings.Contains(m.View(), "disk full") {
		t.Errorf("expected save error in view, got %q", m.View())
	}
	if !m.dirty {
		t.Error("failed save must keep the model dirty")
	}
}

func TestViewAndHelp(t *testing.T) {
	store := newStore(t, "buy milk", "walk dog")
	store.MarkDone("walk dog")
	m := newTUIModel(store)

	view := m.View()
	for _, want := range []string{"taskman", "[ ] buy milk", "[x]", "walk", "2 tasks, 1 done"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	press(t, m, keyRunes("?"))
	if !strings.Contains(m.View(), "Keyboard Shortcuts") {
		t.Error("expected help screen")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&bytes.Buffer{}) {
		t.Error("buffer is not a TTY")
	}
}

func TestDuplicateRowsActOnSelectedTask(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskfile.json")
	content := `[
  {"id": "1", "text": "buy milk", "date": "2024-01-15", "done": false},
  {"id": "2", "text": "Buy Milk", "date": "2024-01-16", "done": false}
]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	store, err := todo.NewManager(path)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	if _, err := store.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var events []logging.Event
	m := newTUIModel(store, WithOnChange(func(ev logging.Event) { events = append(events, ev) }))

	press(t, m, keyRunes("j"), keyRunes("x"))
	tasks := store.Tasks()
	if tasks[0].Done || !tasks[1].Done {
		t.Errorf("x on the second row: done flags %v, %v", tasks[0].Done, tasks[1].Done)
	}

	press(t, m, keyRunes("d"))
	tasks = store.Tasks()
	if len(tasks) != 1 || tasks[0].ID != "1" {
		t.Errorf("d on the second row left %+v", tasks)
	}
	if len(events) != 2 || events[0].TaskID != "2" || events[1].TaskID != "2" {
		t.Errorf("events: %+v", events)
	}
}
