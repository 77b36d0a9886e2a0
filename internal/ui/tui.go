// Package ui provides the optional terminal interface.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/taskman/internal/logging"
	"github.com/nibzard/taskman/internal/todo"
)

// Store is the task list the TUI edits. *todo.Manager satisfies it.
type Store interface {
	Path() string
	Tasks() []*todo.Task
	Add(task *todo.Task) (todo.Result, error)
	Remove(task *todo.Task) bool
	Save() error
}

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiModel)

// WithOnChange registers a callback for every mutation made in the TUI.
func WithOnChange(fn func(logging.Event)) TUIOption {
	return func(m *tuiModel) {
		m.onChange = fn
	}
}

// WithOnSave registers a callback run after the TUI saves the task file.
func WithOnSave(fn func()) TUIOption {
	return func(m *tuiModel) {
		m.onSave = fn
	}
}

// RunTUI starts the interactive list view over store. Changes are saved on
// quit.
func RunTUI(ctx context.Context, store Store, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	model := newTUIModel(store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	finalModel, err := program.Run()
	if err != nil {
		return err
	}
	if m, ok := finalModel.(*tuiModel); ok && m.saveErr != nil {
		return m.saveErr
	}
	return nil
}

type tuiMode int

const (
	modeList tuiMode = iota
	modeAdd
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	doneStyle   = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	dateStyle   = lipgloss.NewStyle().Faint(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

type tuiModel struct {
	store    Store
	cursor   int
	mode     tuiMode
	input    textinput.Model
	notice   string
	err      error
	saveErr  error
	dirty    bool
	showHelp bool
	onChange func(logging.Event)
	onSave   func()
}

func newTUIModel(store Store, opts ...TUIOption) *tuiModel {
	input := textinput.New()
	input.Placeholder = "new task"
	input.Prompt = "add: "
	input.CharLimit = 256

	m := &tuiModel{
		store: store,
		input: input,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return nil
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeAdd {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	if m.mode == modeAdd {
		return m.updateAdd(key)
	}

	switch key.String() {
	case "ctrl+c", "q":
		m.save()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.store.Tasks())-1 {
			m.cursor++
		}
	case "x", " ":
		m.markDone()
	case "d", "delete":
		m.delete()
	case "a":
		m.mode = modeAdd
		m.notice = ""
		m.err = nil
		m.input.Reset()
		return m, m.input.Focus()
	case "w":
		m.save()
	case "h", "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *tuiModel) updateAdd(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		m.save()
		return m, tea.Quit
	case "esc":
		m.mode = modeList
		m.input.Blur()
		return m, nil
	case "enter":
		m.add(m.input.Value())
		m.mode = modeList
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *tuiModel) add(text string) {
	task := todo.NewTaskWithText(text)
	if task.Text == "" {
		m.notice = "Nothing to add."
		return
	}
	r, err := m.store.Add(task)
	if err != nil {
		m.err = err
		return
	}
	switch r.Status {
	case todo.StatusDuplicate:
		m.notice = fmt.Sprintf("%q already exists.", task.Text)
	default:
		m.notice = fmt.Sprintf("Added %q.", task.Text)
		m.cursor = len(m.store.Tasks()) - 1
		m.changed(logging.Event{Type: logging.EventAdd, Status: string(r.Status), Text: task.Text, TaskID: task.ID})
	}
}

func (m *tuiModel) markDone() {
	task := m.selected()
	if task == nil {
		return
	}
	task.MarkDone()
	m.notice = fmt.Sprintf("Marked %q as done.", task.Text)
	m.changed(logging.Event{Type: logging.EventDone, Status: string(todo.StatusFound), Text: task.Text, TaskID: task.ID})
}

func (m *tuiModel) delete() {
	task := m.selected()
	if task == nil {
		return
	}
	if !m.store.Remove(task) {
		return
	}
	m.notice = fmt.Sprintf("Deleted %q.", task.Text)
	if n := len(m.store.Tasks()); m.cursor >= n && n > 0 {
		m.cursor = n - 1
	}
	m.changed(logging.Event{Type: logging.EventDelete, Status: string(todo.StatusFound), Text: task.Text, TaskID: task.ID})
}

func (m *tuiModel) selected() *todo.Task {
	tasks := m.store.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return nil
	}
	return tasks[m.cursor]
}

func (m *tuiModel) changed(e logging.Event) {
	m.dirty = true
	m.err = nil
	if m.onChange != nil {
		m.onChange(e)
	}
}

func (m *tuiModel) save() {
	if !m.dirty {
		return
	}
	if err := m.store.Save(); err != nil {
		m.saveErr = err
		m.err = err
		return
	}
	m.dirty = false
	m.saveErr = nil
	m.notice = "Saved."
	if m.onSave != nil {
		m.onSave()
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.store.Path(), m.dirty)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}

	writeTasks(&b, m.store.Tasks(), m.cursor)

	if m.mode == modeAdd {
		b.WriteString(m.input.View() + "\n\n")
	}
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	} else if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	writeFooter(&b, m.mode)
	return b.String()
}

func writeTitle(b *strings.Builder, path string, dirty bool) {
	title := "taskman"
	if dirty {
		title += " *"
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(helpStyle.Render(path) + "\n\n")
}

func writeTasks(b *strings.Builder, tasks []*todo.Task, cursor int) {
	if len(tasks) == 0 {
		b.WriteString("  No tasks. Press a to add one.\n\n")
		return
	}

	done := 0
	for i, t := range tasks {
		if t.Done {
			done++
		}
		b.WriteString(formatTask(t, i == cursor))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %d tasks, %d done\n\n", len(tasks), done))
}

func formatTask(t *todo.Task, selected bool) string {
	pointer := "  "
	if selected {
		pointer = cursorStyle.Render("> ")
	}
	box := "[ ]"
	text := t.Text
	if t.Done {
		box = "[x]"
		text = doneStyle.Render(text)
	}
	return fmt.Sprintf("%s%s %s  %s", pointer, box, text, dateStyle.Render(t.Date))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  up/k, down/j  Move\n")
	b.WriteString("  x, space      Mark done\n")
	b.WriteString("  d             Delete\n")
	b.WriteString("  a             Add (enter to confirm, esc to cancel)\n")
	b.WriteString("  w             Save\n")
	b.WriteString("  h, ?          Toggle this help screen\n")
	b.WriteString("  q, ctrl+c     Save and quit\n\n")
}

func writeFooter(b *strings.Builder, mode tuiMode) {
	if mode == modeAdd {
		b.WriteString(helpStyle.Render("enter add | esc cancel") + "\n")
		return
	}
	b.WriteString(helpStyle.Render("a add | x done | d delete | w save | h help | q quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
