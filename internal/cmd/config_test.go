package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	configPath = path
	defer func() { configPath = "" }()

	if err := runConfigInitCommand(configInitCmd, nil); err != nil {
		t.Fatalf("runConfigInitCommand() = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	content := string(data)
	for _, want := range []string{"[logs]", "[sonarr]", "only_complete_seasons = true", "multi_tag = 'MULTi.VF'"} {
		if !strings.Contains(content, want) {
			t.Errorf("generated config missing %q:\n%s", want, content)
		}
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("test_mode = true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = path
	defer func() { configPath = "" }()

	if err := runConfigInitCommand(configInitCmd, nil); err == nil {
		t.Error("runConfigInitCommand() on existing file succeeded, want error")
	}
}
