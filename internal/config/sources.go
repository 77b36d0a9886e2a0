package config

import (
	"os"
	"path/filepath"

	"github.com/nibzard/taskman/internal/taskdir"
)

// findProjectConfigFile returns the first config file found in the working
// directory.
func findProjectConfigFile() string {
	return firstExisting(taskdir.DefaultConfigFile, "."+taskdir.DefaultConfigFile)
}

// findUserConfigFile returns the first user-level config file found.
func findUserConfigFile() string {
	return firstExisting(userConfigCandidates()...)
}

// userConfigCandidates lists user config paths in lookup order: the
// .taskman directory under home, then taskman/ under the platform config
// directory (XDG_CONFIG_HOME, Application Support or APPDATA).
func userConfigCandidates() []string {
	var paths []string
	if dir, err := taskdir.Home(); err == nil {
		paths = append(paths, filepath.Join(dir, taskdir.DefaultConfigFile))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "taskman", taskdir.DefaultConfigFile))
	}
	return paths
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TaskFile = DefaultTaskFile
	cfg.SchemaFile = ""
	cfg.JournalDir = DefaultJournalDir
	cfg.HookCommand = ""
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.LogTimestamps = false
	cfg.LogCaller = false
}

// ConfigFile returns the highest priority config file that was read, or
// an empty string when none was found.
func (cws *ConfigWithSources) ConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
