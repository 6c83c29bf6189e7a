package registry

import (
	"embed"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

//go:embed testdata/*.toml
var testFS embed.FS

func TestLoadFromFS(t *testing.T) {
	reg, err := LoadFromFS(testFS, "testdata")
	if err != nil {
		t.Fatalf("LoadFromFS failed: %v", err)
	}

	types := reg.All()
	if len(types) != 3 {
		t.Errorf("expected 3 card types, got %d", len(types))
	}

	src := reg.Get("test-source")
	if src == nil {
		t.Fatal("test-source not found")
	}
	if src.DisplayName != "Test Source" {
		t.Errorf("expected 'Test Source', got %q", src.DisplayName)
	}
	if src.Width != 200 {
		t.Errorf("expected width 200, got %g", src.Width)
	}
	if len(src.Outputs) != 1 || src.Outputs[0].Value != int64(7) {
		t.Errorf("unexpected outputs %+v", src.Outputs)
	}

	agent := reg.Get("test-agent")
	if agent == nil {
		t.Fatal("test-agent not found")
	}
	if agent.Fields["model"] != "gpt-test" {
		t.Errorf("expected model field, got %v", agent.Fields["model"])
	}
}

func TestLoadFromFSRejectsNamelessType(t *testing.T) {
	fsys := fstest.MapFS{
		"types/bad.toml": {Data: []byte("[[cardtypes]]\ndisplay_name = \"x\"\n")},
	}
	if _, err := LoadFromFS(fsys, "types"); err == nil {
		t.Fatal("expected error for card type without name")
	}
}

func TestLoadFromFSMissingDir(t *testing.T) {
	if _, err := LoadFromFS(testFS, "nope"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestLoadAllUserOverrides(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmp)
	dir := filepath.Join(tmp, "cardstudio", "cardtypes")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	user := "[[cardtypes]]\nname = \"test-sink\"\ndisplay_name = \"My Sink\"\n\n[[cardtypes]]\nname = \"custom\"\n"
	if err := os.WriteFile(filepath.Join(dir, "mine.toml"), []byte(user), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.toml"), []byte("[[cardtypes"), 0o644); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadAll(testFS, "testdata")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(reg.All()) != 4 {
		t.Errorf("expected 4 card types, got %d", len(reg.All()))
	}
	if got := reg.Get("test-sink").DisplayName; got != "My Sink" {
		t.Errorf("user file should override built-in, got %q", got)
	}
	if reg.Get("custom") == nil {
		t.Error("user-only card type missing")
	}
}

func TestLoadAllWithoutPluginDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	reg, err := LoadAll(testFS, "testdata")
	if err != nil {
		t.Fatalf("LoadAll failed: %v", err)
	}
	if len(reg.All()) != 3 {
		t.Errorf("expected 3 card types, got %d", len(reg.All()))
	}
}
