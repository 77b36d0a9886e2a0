package taskdir

import (
	"path/filepath"
	"testing"
)

func TestPaths(t *testing.T) {
	base := filepath.Join("home", "ann")
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"dir", DirPath(base), filepath.Join("home", "ann", ".taskman")},
		{"task", TaskPath(base), filepath.Join("home", "ann", ".taskman", "taskfile.json")},
		{"config", ConfigPath(base), filepath.Join("home", "ann", ".taskman", "taskman.toml")},
		{"journal", JournalPath(base), filepath.Join("home", "ann", ".taskman", "journal")},
		{"relative dir", DirPath("."), ".taskman"},
		{"relative task", TaskPath(""), filepath.Join(".taskman", "taskfile.json")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := Home()
	if err != nil {
		t.Fatalf("Home failed: %v", err)
	}
	if want := filepath.Join(home, ".taskman"); got != want {
		t.Errorf("Home: got %q, want %q", got, want)
	}
}
