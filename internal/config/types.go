package config

import "github.com/nibzard/taskman/internal/taskdir"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files that were read, lowest priority first.
	Files []string
	// Warnings holds unknown keys found in config files.
	Warnings []string
}

// Default values.
const (
	DefaultTaskFile   = "~/" + taskdir.Dir + "/" + taskdir.DefaultTaskFile
	DefaultJournalDir = "~/" + taskdir.Dir + "/" + taskdir.DefaultJournalDir
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for taskman.
type Config struct {
	// Paths
	TaskFile   string `toml:"task_file" yaml:"task_file"`
	SchemaFile string `toml:"schema_file" yaml:"schema_file"`
	JournalDir string `toml:"journal_dir" yaml:"journal_dir"`

	// Hooks
	HookCommand string `toml:"hook_command" yaml:"hook_command"`

	// Logging configuration
	LogLevel      string `toml:"log_level" yaml:"log_level"`
	LogFormat     string `toml:"log_format" yaml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps" yaml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller" yaml:"log_caller"`

	// Working directory (computed)
	WorkDir string `toml:"-" yaml:"-"`
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"task_file",
		"schema_file",
		"journal_dir",
		"hook_command",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}
