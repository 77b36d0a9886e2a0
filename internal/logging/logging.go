// Package logging writes the JSONL activity journal, tails it, and builds
// the console logger.
package logging

import (
	"bufio"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Event types recorded in the journal.
const (
	EventAdd    = "add"
	EventDelete = "delete"
	EventDone   = "done"
	EventClear  = "clear"
)

// Event is one journal line.
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status,omitempty"`
	Text      string    `json:"text,omitempty"`
	TaskID    string    `json:"task_id,omitempty"`
	Count     int       `json:"count,omitempty"`
}

var now = time.Now

// Journal appends events to a per-day JSONL file for one task file.
type Journal struct {
	Dir     string
	LogPath string
	file    *os.File
	enc     *json.Encoder
}

// OpenJournal opens (or creates) today's journal for taskFile under baseDir.
func OpenJournal(baseDir, taskFile string) (*Journal, error) {
	dir, err := JournalDir(baseDir, taskFile)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	logPath := filepath.Join(dir, now().Format("2006-01-02")+".jsonl")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open journal file: %w", err)
	}

	return &Journal{
		Dir:     dir,
		LogPath: logPath,
		file:    file,
		enc:     json.NewEncoder(file),
	}, nil
}

// Record appends e, stamping it with the current time when unset.
func (j *Journal) Record(e Event) error {
	if j == nil || j.file == nil {
		return nil
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = now().UTC()
	}
	if err := j.enc.Encode(e); err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil || j.file == nil {
		return nil
	}
	return j.file.Close()
}

// JournalDir returns the journal directory for taskFile under baseDir.
// Each task file gets its own directory named after the file plus a hash of
// its absolute path.
func JournalDir(baseDir, taskFile string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("journal base dir is empty")
	}
	if taskFile == "" {
		return "", fmt.Errorf("task file is empty")
	}
	abs, err := filepath.Abs(taskFile)
	if err != nil {
		return "", fmt.Errorf("resolve task file: %w", err)
	}
	return filepath.Join(filepath.Clean(baseDir), fileSlug(abs)), nil
}

func fileSlug(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return fmt.Sprintf("%s-%s", slugify(name), hashPath(path))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "tasks"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_")
	if slug == "" {
		return "tasks"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// FindLatestLog finds the most recently modified JSONL file in a directory.
// A missing directory yields an empty path.
func FindLatestLog(logDir string) (string, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read log dir: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || !info.ModTime().Before(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(logDir, entry.Name())
		}
	}
	return latest, nil
}

// TailLog writes the last n lines of path to w (all lines when n <= 0).
// With follow it keeps copying new data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if err := tailLines(w, file, n); err != nil {
		return err
	}
	if follow {
		return tailFollow(ctx, w, file)
	}
	return nil
}

// tailLines copies the last n lines of r to w, leaving r at EOF.
func tailLines(w io.Writer, r io.Reader, n int) error {
	if n <= 0 {
		_, err := io.Copy(w, r)
		return err
	}

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read log file: %w", err)
	}
	for _, line := range ring {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

const followInterval = 100 * time.Millisecond

// tailFollow follows a file like tail -f.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()
	for {
		if _, err := io.Copy(w, file); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
