package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskman/internal/fuzzy"
)

// Status is the outcome of a manager operation.
type Status string

const (
	StatusAdded      Status = "added"
	StatusDuplicate  Status = "duplicate"
	StatusFound      Status = "find"
	StatusSuggestion Status = "suggestion"
	StatusNotFound   Status = "not_found"
)

// Result is returned by Add and the name lookups.
//
// Task is set for added, duplicate and find. Suggestion holds the suggested
// task text (lower-cased, as matched) for suggestion.
type Result struct {
	Status     Status
	Task       *Task
	Suggestion string
}

// MarshalJSON encodes the result as {"status", "task"}, where task is the
// task object or the suggested text.
func (r Result) MarshalJSON() ([]byte, error) {
	out := map[string]any{"status": r.Status}
	switch {
	case r.Status == StatusSuggestion:
		out["task"] = r.Suggestion
	case r.Task != nil:
		out["task"] = r.Task
	}
	return json.Marshal(out)
}

// LoadOutcome reports how Load resolved the task file.
type LoadOutcome int

const (
	// LoadOK means the file was read and every entry restored.
	LoadOK LoadOutcome = iota
	// LoadCreated means the file did not exist and was created empty.
	LoadCreated
	// LoadCorrupt means the file was not a JSON task list and was ignored.
	LoadCorrupt
)

func (o LoadOutcome) String() string {
	switch o {
	case LoadOK:
		return "ok"
	case LoadCreated:
		return "created"
	case LoadCorrupt:
		return "corrupt"
	default:
		return fmt.Sprintf("LoadOutcome(%d)", int(o))
	}
}

// Entry is the listing view of a task.
type Entry struct {
	Text string `json:"text" yaml:"text"`
	Date string `json:"date" yaml:"date"`
	Done bool   `json:"done" yaml:"done"`
}

// Manager is an ordered task list backed by a JSON file.
// It is not safe for concurrent use.
type Manager struct {
	path   string
	tasks  []*Task
	logger *log.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *log.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns an empty manager for the task file at path.
func NewManager(path string, opts ...Option) (*Manager, error) {
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	m := &Manager{
		path:   path,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// ValidatePath checks a task file path.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ErrInvalidPath
	}
	return nil
}

// Path returns the task file path.
func (m *Manager) Path() string {
	return m.path
}

// SetPath changes the task file path. The file itself is not checked.
func (m *Manager) SetPath(path string) error {
	if err := ValidatePath(path); err != nil {
		return err
	}
	m.path = path
	return nil
}

// Len returns the number of tasks.
func (m *Manager) Len() int {
	return len(m.tasks)
}

// Tasks returns the tasks in order. The slice is a copy; the tasks are not.
func (m *Manager) Tasks() []*Task {
	out := make([]*Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Add appends task unless a task with the same text (ignoring case)
// exists, in which case the given task is returned with StatusDuplicate.
// Nothing is persisted.
func (m *Manager) Add(task *Task) (Result, error) {
	if task == nil {
		return Result{}, ErrNilTask
	}
	if m.find(task.Text) >= 0 {
		m.logger.Debug("duplicate task", "text", task.Text)
		return Result{Status: StatusDuplicate, Task: task}, nil
	}
	m.tasks = append(m.tasks, task)
	m.logger.Debug("added task", "id", task.ID, "text", task.Text)
	return Result{Status: StatusAdded, Task: task}, nil
}

// Save writes every task to the task file as an indented JSON array,
// replacing the file.
func (m *Manager) Save() error {
	data := make([]*Task, len(m.tasks))
	copy(data, m.tasks)

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal task file: %w", err)
	}
	out = append(out, '\n')

	if dir := filepath.Dir(m.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}
	if err := os.WriteFile(m.path, out, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}
	m.logger.Debug("saved task file", "path", m.path, "tasks", len(m.tasks))
	return nil
}

// Load replaces the in-memory list with the contents of the task file.
//
// A missing file is created holding an empty list. A file that is not a
// JSON list of objects is treated as empty. An entry that cannot be
// restored is returned as an error and leaves the list empty.
func (m *Manager) Load() (LoadOutcome, error) {
	m.tasks = nil

	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := createEmpty(m.path); err != nil {
			return LoadCreated, err
		}
		m.logger.Debug("created task file", "path", m.path)
		return LoadCreated, nil
	}
	if err != nil {
		return LoadOK, fmt.Errorf("read task file: %w", err)
	}

	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		m.logger.Warn("task file is not valid, starting empty", "path", m.path, "err", err)
		return LoadCorrupt, nil
	}

	tasks := make([]*Task, 0, len(entries))
	for i, entry := range entries {
		task, err := TaskFromMap(entry)
		if err != nil {
			return LoadOK, fmt.Errorf("task file entry %d: %w", i, err)
		}
		tasks = append(tasks, task)
	}
	m.tasks = tasks
	m.logger.Debug("loaded task file", "path", m.path, "tasks", len(tasks))
	return LoadOK, nil
}

func createEmpty(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create task dir: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
		return fmt.Errorf("create task file: %w", err)
	}
	return nil
}

// Search looks up a task by name.
func (m *Manager) Search(name string) Result {
	if i := m.find(name); i >= 0 {
		return Result{Status: StatusFound, Task: m.tasks[i]}
	}
	return m.suggest(name)
}

// Delete removes the task matching name exactly.
func (m *Manager) Delete(name string) Result {
	i := m.find(name)
	if i < 0 {
		return m.suggest(name)
	}
	task := m.tasks[i]
	m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
	m.logger.Debug("deleted task", "id", task.ID, "text", task.Text)
	return Result{Status: StatusFound, Task: task}
}

// Remove deletes task itself from the list, leaving other tasks with the
// same text in place. It reports whether task was present.
func (m *Manager) Remove(task *Task) bool {
	for i, t := range m.tasks {
		if t == task {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			m.logger.Debug("removed task", "id", task.ID, "text", task.Text)
			return true
		}
	}
	return false
}

// MarkDone sets done on the task matching name exactly.
func (m *Manager) MarkDone(name string) Result {
	i := m.find(name)
	if i < 0 {
		return m.suggest(name)
	}
	task := m.tasks[i]
	task.MarkDone()
	m.logger.Debug("marked task done", "id", task.ID, "text", task.Text)
	return Result{Status: StatusFound, Task: task}
}

// List returns the text, date and done flag of every task in order.
func (m *Manager) List() []Entry {
	entries := make([]Entry, 0, len(m.tasks))
	for _, t := range m.tasks {
		entries = append(entries, Entry{Text: t.Text, Date: t.Date, Done: t.Done})
	}
	return entries
}

// Clear removes every task. The file is untouched until Save.
func (m *Manager) Clear() {
	m.tasks = nil
	m.logger.Debug("cleared tasks")
}

// Suggest returns the stored text closest to name, lower-cased.
func (m *Manager) Suggest(name string) (string, bool) {
	if len(m.tasks) == 0 {
		return "", false
	}
	texts := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		texts[i] = strings.ToLower(t.Text)
	}
	return fuzzy.Best(strings.ToLower(name), texts, fuzzy.DefaultCutoff)
}

func (m *Manager) suggest(name string) Result {
	if s, ok := m.Suggest(name); ok {
		return Result{Status: StatusSuggestion, Suggestion: s}
	}
	return Result{Status: StatusNotFound}
}

// find returns the index of the first task whose text equals name
// ignoring case, or -1.
func (m *Manager) find(name string) int {
	needle := strings.ToLower(name)
	for i, t := range m.tasks {
		if strings.ToLower(t.Text) == needle {
			return i
		}
	}
	return -1
}
