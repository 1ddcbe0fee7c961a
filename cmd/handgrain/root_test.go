package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	tests := []struct {
		name string
		want bool
	}{
		{"run", true},
		{"replay", true},
		{"train", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _, err := root.Find([]string{tt.name})
			found := err == nil && cmd != root && cmd.Name() == tt.name
			if found != tt.want {
				t.Errorf("Find(%q) found = %v, want %v", tt.name, found, tt.want)
			}
		})
	}

	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestReplayCommand_RequiresFile(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"replay"})
	root.SetOut(new(strings.Builder))
	root.SetErr(new(strings.Builder))

	if err := root.Execute(); err == nil {
		t.Error("replay without a file should fail")
	}
}

func TestFindWebDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "web"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got := findWebDir()
	if filepath.Base(got) != "web" {
		t.Errorf("findWebDir() = %q, want a web directory", got)
	}
}
