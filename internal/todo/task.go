package todo

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the calendar date format stored in the task file.
const DateLayout = "2006-01-02"

// now is replaced in tests.
var now = time.Now

var (
	// ErrInvalidPath is returned when a task file path is unusable.
	ErrInvalidPath = errors.New("task file path must be a non-empty string")
	// ErrNilTask is returned by Add when no task is given.
	ErrNilTask = errors.New("task has to be an instance of Task")
	// ErrNotBool is returned when done is assigned a non-boolean value.
	ErrNotBool = errors.New("done has to be a bool")
	// ErrMissingField is returned when a stored task lacks a required key.
	ErrMissingField = errors.New("missing required field")
)

// FieldError reports a problem with one field of a stored task.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// Task is a single to-do item.
type Task struct {
	ID   string `json:"id" yaml:"id"`
	Text string `json:"text" yaml:"text"`
	Date string `json:"date" yaml:"date"`
	Done bool   `json:"done" yaml:"done"`
}

// NewTask returns a task with a fresh id, today's date and no text.
func NewTask() *Task {
	return newTaskAt(now())
}

// NewTaskWithText returns a fresh task with its text set.
func NewTaskWithText(text any) *Task {
	t := NewTask()
	t.SetText(text)
	return t
}

func newTaskAt(now time.Time) *Task {
	return &Task{
		ID:   uuid.NewString(),
		Date: now.Format(DateLayout),
	}
}

// SetText stores the string form of v with surrounding whitespace removed.
// Empty text is accepted.
func (t *Task) SetText(v any) {
	t.Text = NormalizeText(v)
}

// NormalizeText converts v to its string form and trims it. Values decoded
// from JSON print the way the task file's other writers print them: null is
// "None", booleans are "True" and "False", and integral floats keep ".0".
func NormalizeText(v any) string {
	var s string
	switch val := v.(type) {
	case string:
		s = val
	case nil:
		s = "None"
	case bool:
		s = "False"
		if val {
			s = "True"
		}
	case float64:
		s = formatFloat(val)
	case float32:
		s = formatFloat(float64(val))
	case fmt.Stringer:
		s = val.String()
	default:
		s = fmt.Sprint(val)
	}
	return strings.TrimSpace(s)
}

// formatFloat prints f in shortest form, switching to exponent notation
// outside [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	e := strconv.FormatFloat(f, 'e', -1, 64)
	if exp, err := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:]); err == nil && (exp < -4 || exp >= 16) {
		return e
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsAny(s, ".") {
		s += ".0"
	}
	return s
}

// SetDone assigns the done flag. Only bool values are accepted.
func (t *Task) SetDone(v any) error {
	b, err := CheckBool(v)
	if err != nil {
		return err
	}
	t.Done = b
	return nil
}

// MarkDone sets the done flag.
func (t *Task) MarkDone() {
	t.Done = true
}

// CheckBool returns v as a bool, or an error wrapping ErrNotBool.
func CheckBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w, got %T", ErrNotBool, v)
	}
	return b, nil
}

// TaskFromMap rebuilds a task from its stored form. id and date are copied
// as they are; text and done go through SetText and SetDone.
func TaskFromMap(data map[string]any) (*Task, error) {
	for _, key := range []string{"id", "text", "date", "done"} {
		if _, ok := data[key]; !ok {
			return nil, &FieldError{Field: key, Err: ErrMissingField}
		}
	}

	t := &Task{}
	t.SetText(data["text"])
	t.ID = verbatim(data["id"])
	t.Date = verbatim(data["date"])
	if err := t.SetDone(data["done"]); err != nil {
		return nil, &FieldError{Field: "done", Err: err}
	}
	return t, nil
}

// ToMap returns the stored form of the task.
func (t *Task) ToMap() map[string]any {
	return map[string]any{
		"id":   t.ID,
		"text": t.Text,
		"date": t.Date,
		"done": t.Done,
	}
}

func verbatim(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
