package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Viewport.MinZoom != 0.2 || cfg.Viewport.MaxZoom != 2.0 {
		t.Errorf("unexpected zoom range %g..%g", cfg.Viewport.MinZoom, cfg.Viewport.MaxZoom)
	}
	if cfg.Viewport.PlaneSize != 8000 {
		t.Errorf("expected plane size 8000, got %g", cfg.Viewport.PlaneSize)
	}
	if cfg.Canvas.NavPolicy != NavClamp {
		t.Errorf("expected nav policy %q, got %q", NavClamp, cfg.Canvas.NavPolicy)
	}
	if cfg.Connect.StrictTypes {
		t.Error("strict types should be off by default")
	}
	if !cfg.UI.Color {
		t.Error("default color should be true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg")
	dir := ConfigDir()
	if dir != "/tmp/test-xdg/cardstudio" {
		t.Errorf("expected /tmp/test-xdg/cardstudio, got %q", dir)
	}

	// Test without XDG_CONFIG_HOME
	t.Setenv("XDG_CONFIG_HOME", "")
	dir = ConfigDir()
	home, _ := os.UserHomeDir()
	expected := filepath.Join(home, ".config", "cardstudio")
	if dir != expected {
		t.Errorf("expected %q, got %q", expected, dir)
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)

	cfg := Default()
	cfg.Canvas.NavPolicy = NavWrap
	cfg.Connect.SnapDistance = 42

	if err := Save(cfg); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := Load()
	if loaded.Canvas.NavPolicy != NavWrap {
		t.Errorf("expected nav policy wrap, got %q", loaded.Canvas.NavPolicy)
	}
	if loaded.Connect.SnapDistance != 42 {
		t.Errorf("expected snap distance 42, got %g", loaded.Connect.SnapDistance)
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.toml")
	if err := os.WriteFile(path, []byte("[viewport]\nmax_zoom = 3.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Viewport.MaxZoom != 3.0 {
		t.Errorf("expected max zoom 3, got %g", cfg.Viewport.MaxZoom)
	}
	if cfg.Viewport.MinZoom != 0.2 {
		t.Errorf("min zoom should keep its default, got %g", cfg.Viewport.MinZoom)
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"inverted.toml": "[viewport]\nmin_zoom = 2.0\nmax_zoom = 1.0\n",
		"policy.toml":   "[canvas]\nnav_policy = \"bounce\"\n",
		"syntax.toml":   "[viewport\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadFile(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadMissingFallsBack(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := Load()
	if cfg.Viewport.DefaultZoom != 1 {
		t.Errorf("expected default zoom 1, got %g", cfg.Viewport.DefaultZoom)
	}
}
