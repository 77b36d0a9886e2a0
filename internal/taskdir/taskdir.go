// Package taskdir provides constants and utilities for the .taskman directory structure.
package taskdir

import (
	"os"
	"path/filepath"
)

const (
	// Dir is the name of the taskman state directory.
	Dir = ".taskman"

	// DefaultTaskFile is the default task file name (inside .taskman).
	DefaultTaskFile = "taskfile.json"

	// DefaultConfigFile is the default config file name (inside .taskman).
	DefaultConfigFile = "taskman.toml"

	// DefaultJournalDir is the default journal directory name (inside .taskman).
	DefaultJournalDir = "journal"
)

// TaskPath returns the full path to the task file within a base directory.
func TaskPath(baseDir string) string {
	return joinPath(baseDir, DefaultTaskFile)
}

// ConfigPath returns the full path to the config file within a base directory.
func ConfigPath(baseDir string) string {
	return joinPath(baseDir, DefaultConfigFile)
}

// JournalPath returns the full path to the journal directory within a base directory.
func JournalPath(baseDir string) string {
	return joinPath(baseDir, DefaultJournalDir)
}

// DirPath returns the full path to the .taskman directory within a base directory.
func DirPath(baseDir string) string {
	if baseDir == "." || baseDir == "" {
		return Dir
	}
	return filepath.Join(baseDir, Dir)
}

// Home returns the .taskman directory in the user's home directory.
func Home() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return DirPath(home), nil
}

func joinPath(baseDir, file string) string {
	return filepath.Join(DirPath(baseDir), file)
}
