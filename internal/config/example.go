package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# taskman configuration file
# Values can be overridden by TASKMAN_* environment variables or CLI flags.

# Task file (supports ~ and $VAR expansion)
task_file = "` + DefaultTaskFile + `"

# External JSON schema used by "taskman doctor" (built-in schema if empty)
# schema_file = "taskfile.schema.json"

# Activity journal directory
journal_dir = "` + DefaultJournalDir + `"

# Command to run after each save; TASKMAN_FILE holds the task file path
# hook_command = "git -C ~/.taskman commit -qam update"

# Logging: debug, info, warn or error; text, json or logfmt
log_level = "` + DefaultLogLevel + `"
log_format = "` + DefaultLogFormat + `"
log_timestamps = false
log_caller = false
`
}
