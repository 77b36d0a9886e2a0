package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

// isolate points home, XDG and the working directory at fresh temp dirs and
// clears TASKMAN_* variables. It returns the home and work directories.
func isolate(t *testing.T) (string, string) {
	t.Helper()
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("APPDATA", filepath.Join(home, "AppData"))
	for _, name := range []string{
		"TASKMAN_FILE", "TASKMAN_SCHEMA", "TASKMAN_JOURNAL_DIR", "TASKMAN_HOOK",
		"TASKMAN_LOG_LEVEL", "TASKMAN_LOG_FORMAT", "TASKMAN_LOG_TIMESTAMPS", "TASKMAN_LOG_CALLER",
	} {
		t.Setenv(name, "")
	}
	prevWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(work); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Setenv("PWD", work)
	t.Cleanup(func() { _ = os.Chdir(prevWD) })
	return home, work
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	home, _ := isolate(t)

	cws, err := LoadWithSources(nil)
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	if want := filepath.Join(home, ".taskman", "taskfile.json"); cfg.TaskFile != want {
		t.Errorf("TaskFile: got %q, want %q", cfg.TaskFile, want)
	}
	if want := filepath.Join(home, ".taskman", "journal"); cfg.JournalDir != want {
		t.Errorf("JournalDir: got %q, want %q", cfg.JournalDir, want)
	}
	if cfg.SchemaFile != "" {
		t.Errorf("SchemaFile: got %q, want empty", cfg.SchemaFile)
	}
	if cfg.LogLevel != "warn" || cfg.LogFormat != "text" {
		t.Errorf("logging: got %q/%q, want warn/text", cfg.LogLevel, cfg.LogFormat)
	}
	for _, field := range configFields() {
		if cws.Sources[field] != SourceDefault {
			t.Errorf("source of %s: got %q, want default", field, cws.Sources[field])
		}
	}
	if cws.ConfigFile() != "" {
		t.Errorf("ConfigFile: got %q, want empty", cws.ConfigFile())
	}
}

func TestLoadPriority(t *testing.T) {
	home, work := isolate(t)

	writeFile(t, filepath.Join(home, ".taskman", "taskman.toml"), `
task_file = "user.json"
hook_command = "echo user"
log_level = "info"
`)
	writeFile(t, filepath.Join(work, "taskman.toml"), `
task_file = "project.json"
log_format = "json"
`)
	t.Setenv("TASKMAN_LOG_FORMAT", "logfmt")
	t.Setenv("TASKMAN_LOG_CALLER", "yes")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cws, err := LoadWithSources(fs)
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	cfg := cws.Config

	tests := []struct {
		field  string
		got    string
		want   string
		source ConfigSource
	}{
		{"task_file", cfg.TaskFile, filepath.Join(work, "project.json"), SourceProjFile},
		{"hook_command", cfg.HookCommand, "echo user", SourceUserFile},
		{"log_format", cfg.LogFormat, "logfmt", SourceEnv},
		{"log_level", cfg.LogLevel, "debug", SourceFlag},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.field, tt.got, tt.want)
		}
		if cws.Sources[tt.field] != tt.source {
			t.Errorf("source of %s: got %q, want %q", tt.field, cws.Sources[tt.field], tt.source)
		}
	}
	if !cfg.LogCaller || cws.Sources["log_caller"] != SourceEnv {
		t.Errorf("log_caller: got %v from %q", cfg.LogCaller, cws.Sources["log_caller"])
	}
	if len(cws.Files) != 2 || cws.ConfigFile() != "taskman.toml" {
		t.Errorf("Files: got %v", cws.Files)
	}
}

func TestLoadFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("TASKMAN_FILE", "custom.json")
	t.Setenv("TASKMAN_SCHEMA", "schema.json")
	t.Setenv("TASKMAN_JOURNAL_DIR", "/tmp/journal")
	t.Setenv("TASKMAN_HOOK", "true")
	t.Setenv("TASKMAN_LOG_TIMESTAMPS", "1")

	cfg := &Config{}
	setDefaults(cfg)
	sources := make(map[string]ConfigSource)
	loadFromEnv(cfg, sources)

	if cfg.TaskFile != "custom.json" {
		t.Errorf("TaskFile: got %q, want custom.json", cfg.TaskFile)
	}
	if cfg.SchemaFile != "schema.json" {
		t.Errorf("SchemaFile: got %q, want schema.json", cfg.SchemaFile)
	}
	if cfg.JournalDir != "/tmp/journal" {
		t.Errorf("JournalDir: got %q, want /tmp/journal", cfg.JournalDir)
	}
	if cfg.HookCommand != "true" {
		t.Errorf("HookCommand: got %q, want true", cfg.HookCommand)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if len(sources) != 5 {
		t.Errorf("sources: got %v, want 5 entries", sources)
	}
}

func TestApplyFlagsOnlyChanged(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	if err := fs.Parse([]string{"--file", "flag.json", "--log-timestamps"}); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	cfg := &Config{}
	setDefaults(cfg)
	cfg.HookCommand = "keep"
	sources := make(map[string]ConfigSource)
	if err := applyFlags(cfg, fs, sources); err != nil {
		t.Fatalf("applyFlags failed: %v", err)
	}

	if cfg.TaskFile != "flag.json" {
		t.Errorf("TaskFile: got %q, want flag.json", cfg.TaskFile)
	}
	if !cfg.LogTimestamps {
		t.Error("LogTimestamps: got false, want true")
	}
	if cfg.HookCommand != "keep" {
		t.Errorf("unset flag overwrote HookCommand: %q", cfg.HookCommand)
	}
	if len(sources) != 2 {
		t.Errorf("sources: got %v, want 2 entries", sources)
	}
}

func TestUnknownKeysWarn(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, ".taskman.toml"), `
task_file = "a.json"
colour = "blue"
`)

	cws, err := LoadWithSources(nil)
	if err != nil {
		t.Fatalf("LoadWithSources failed: %v", err)
	}
	if len(cws.Warnings) != 1 || !strings.Contains(cws.Warnings[0], "colour") {
		t.Errorf("Warnings: got %v", cws.Warnings)
	}
}

func TestInvalidConfigFile(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "taskman.toml"), `task_file = [`)

	if _, err := Load(nil); err == nil {
		t.Error("expected an error for malformed TOML")
	}
}

func TestInvalidLogSettings(t *testing.T) {
	isolate(t)

	t.Setenv("TASKMAN_LOG_LEVEL", "loud")
	if _, err := Load(nil); err == nil || !strings.Contains(err.Error(), "log_level") {
		t.Errorf("invalid level: got %v", err)
	}

	t.Setenv("TASKMAN_LOG_LEVEL", "")
	t.Setenv("TASKMAN_LOG_FORMAT", "xml")
	if _, err := Load(nil); err == nil || !strings.Contains(err.Error(), "log_format") {
		t.Errorf("invalid format: got %v", err)
	}
}

func TestUserConfigInXDG(t *testing.T) {
	home, _ := isolate(t)
	if dir, err := os.UserConfigDir(); err != nil || dir != filepath.Join(home, ".config") {
		t.Skip("XDG config dir not used on this platform")
	}
	writeFile(t, filepath.Join(home, ".config", "taskman", "taskman.toml"), `hook_command = "xdg"`)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.HookCommand != "xdg" {
		t.Errorf("HookCommand: got %q, want xdg", cfg.HookCommand)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv("TASKMAN_TEST_DIR", "/data")

	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"~", home},
		{"~/tasks.json", filepath.Join(home, "tasks.json")},
		{"$TASKMAN_TEST_DIR/tasks.json", "/data/tasks.json"},
		{"plain.json", "plain.json"},
	}
	for _, tt := range tests {
		if got := expandPath(tt.in); got != tt.want {
			t.Errorf("expandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExampleConfigDecodes(t *testing.T) {
	_, work := isolate(t)
	writeFile(t, filepath.Join(work, "taskman.toml"), ExampleConfig())

	cws, err := LoadWithSources(nil)
	if err != nil {
		t.Fatalf("example config failed to load: %v", err)
	}
	if len(cws.Warnings) != 0 {
		t.Errorf("example config has unknown keys: %v", cws.Warnings)
	}
}

func TestUserConfigCandidatesOrder(t *testing.T) {
	home, _ := isolate(t)
	paths := userConfigCandidates()
	if len(paths) == 0 || paths[0] != filepath.Join(home, ".taskman", "taskman.toml") {
		t.Fatalf("candidates: %v", paths)
	}

	writeFile(t, paths[0], `hook_command = "home"`)
	if len(paths) > 1 {
		writeFile(t, paths[1], `hook_command = "platform"`)
	}
	if got := findUserConfigFile(); got != paths[0] {
		t.Errorf("findUserConfigFile: got %q, want %q", got, paths[0])
	}
}
