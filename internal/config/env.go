package config

import (
	"os"

	"github.com/nibzard/taskman/internal/utils"
)

// loadFromEnv overrides config from TASKMAN_* environment variables and
// records each value it applies in sources.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) {
	set := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}

	if v := os.Getenv("TASKMAN_FILE"); v != "" {
		cfg.TaskFile = v
		set("task_file")
	}
	if v := os.Getenv("TASKMAN_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		set("schema_file")
	}
	if v := os.Getenv("TASKMAN_JOURNAL_DIR"); v != "" {
		cfg.JournalDir = v
		set("journal_dir")
	}
	if v := os.Getenv("TASKMAN_HOOK"); v != "" {
		cfg.HookCommand = v
		set("hook_command")
	}

	// Logging configuration
	if v := os.Getenv("TASKMAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		set("log_level")
	}
	if v := os.Getenv("TASKMAN_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		set("log_format")
	}
	if v := os.Getenv("TASKMAN_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = utils.ParseBool(v)
		set("log_timestamps")
	}
	if v := os.Getenv("TASKMAN_LOG_CALLER"); v != "" {
		cfg.LogCaller = utils.ParseBool(v)
		set("log_caller")
	}
}
