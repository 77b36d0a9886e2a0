package config

import (
	"github.com/spf13/pflag"
)

// flagFields maps flag names to config field names.
var flagFields = map[string]string{
	"file":           "task_file",
	"schema":         "schema_file",
	"journal-dir":    "journal_dir",
	"hook":           "hook_command",
	"log-level":      "log_level",
	"log-format":     "log_format",
	"log-timestamps": "log_timestamps",
	"log-caller":     "log_caller",
}

// RegisterFlags defines the config flags on fs. Values only take effect
// when the flag is set explicitly, so the other layers stay visible.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("file", "", "Path to task file (default "+DefaultTaskFile+")")
	fs.String("schema", "", "Path to an external task file JSON schema")
	fs.String("journal-dir", "", "Activity journal directory (default "+DefaultJournalDir+")")
	fs.String("hook", "", "Command to run after each save")
	fs.String("log-level", "", "Log level (debug, info, warn, error)")
	fs.String("log-format", "", "Log format (text, json, logfmt)")
	fs.Bool("log-timestamps", false, "Show timestamps in logs")
	fs.Bool("log-caller", false, "Show caller location in logs")
}

// applyFlags copies explicitly set flags into cfg. Flags that were never
// registered on fs are ignored.
func applyFlags(cfg *Config, fs *pflag.FlagSet, sources map[string]ConfigSource) error {
	if fs == nil {
		return nil
	}

	stringFlags := map[string]*string{
		"file":        &cfg.TaskFile,
		"schema":      &cfg.SchemaFile,
		"journal-dir": &cfg.JournalDir,
		"hook":        &cfg.HookCommand,
		"log-level":   &cfg.LogLevel,
		"log-format":  &cfg.LogFormat,
	}
	boolFlags := map[string]*bool{
		"log-timestamps": &cfg.LogTimestamps,
		"log-caller":     &cfg.LogCaller,
	}

	for name, target := range stringFlags {
		if !changed(fs, name) {
			continue
		}
		v, err := fs.GetString(name)
		if err != nil {
			return err
		}
		*target = v
		sources[flagFields[name]] = SourceFlag
	}
	for name, target := range boolFlags {
		if !changed(fs, name) {
			continue
		}
		v, err := fs.GetBool(name)
		if err != nil {
			return err
		}
		*target = v
		sources[flagFields[name]] = SourceFlag
	}
	return nil
}

func changed(fs *pflag.FlagSet, name string) bool {
	f := fs.Lookup(name)
	return f != nil && f.Changed
}
