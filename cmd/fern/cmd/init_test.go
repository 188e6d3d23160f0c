package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	projectDir = dir
	defer func() { projectDir = "" }()

	if err := runInit([]string{"garden"}); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	for _, name := range []string{"fern.yaml", filepath.Join("ui", "main.yaml")} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	data, err := os.ReadFile(filepath.Join(dir, "fern.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); !strings.Contains(got, "name: garden") {
		t.Errorf("fern.yaml does not carry the app name:\n%s", got)
	}
}

func TestInitDoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()
	projectDir = dir
	defer func() { projectDir = "" }()

	marker := "app:\n  name: keep-me\n"
	if err := os.WriteFile(filepath.Join(dir, "fern.yaml"), []byte(marker), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := runInit(nil); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "fern.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != marker {
		t.Errorf("fern.yaml was overwritten:\n%s", data)
	}
}
