//go:build e2e

package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var studioBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "cardstudio-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}
	defer os.RemoveAll(tmp)

	studioBin = filepath.Join(tmp, "cardstudio")
	build := exec.Command("go", "build", "-ldflags", "-X github.com/msalah0e/cardstudio/cmd.version=0.9.0-test", "-o", studioBin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build cardstudio: " + err.Error())
	}

	os.Exit(m.Run())
}

// runStudio executes the binary with an isolated HOME directory.
func runStudio(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(studioBin, args...)
	home := t.TempDir()
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"NO_COLOR=1",
	)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run cardstudio %v: %v", args, err)
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const connectScript = `
name: build a pipeline
steps:
  - add: {id: in, type: input, x: 0, y: 0, outputs: [text]}
  - add: {id: agent, type: agent, x: 600, y: 0, inputs: [prompt], outputs: [reply]}
  - connect: {from: {card: in, socket: text}, to: {card: agent, socket: prompt}}
  - expect: {cards: 2, connections: 1}
`

// --- Core CLI ---

func TestE2E_Version(t *testing.T) {
	out, _, code := runStudio(t, "--version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "0.9.0") {
		t.Errorf("expected version output to contain '0.9.0', got %q", out)
	}
}

func TestE2E_Help(t *testing.T) {
	out, _, code := runStudio(t, "--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, sub := range []string{"Available Commands", "replay", "validate", "export"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to contain %q, got %q", sub, out)
		}
	}
}

// --- Catalog and models ---

func TestE2E_Catalog(t *testing.T) {
	out, _, code := runStudio(t, "catalog")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range []string{"agent", "input", "output", "template", "model"} {
		if !strings.Contains(out, name) {
			t.Errorf("expected catalog to list %q, got %q", name, out)
		}
	}
}

func TestE2E_Models(t *testing.T) {
	out, _, code := runStudio(t, "models", "--provider", "ollama")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "llama3.3") || strings.Contains(out, "gpt-4o") {
		t.Errorf("expected only Ollama models, got %q", out)
	}
}

func TestE2E_ModelsShow(t *testing.T) {
	out, _, code := runStudio(t, "models", "--show", "claude-haiku")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "claude-haiku-4-5-20251001") || !strings.Contains(out, "builtin") {
		t.Errorf("expected model details, got %q", out)
	}

	_, stderr, code := runStudio(t, "models", "--show", "zz-missing")
	if code == 0 {
		t.Fatal("expected non-zero exit for an unknown model")
	}
	if !strings.Contains(stderr, "zz-missing") {
		t.Errorf("expected the query in the error, got %q", stderr)
	}
}

// --- Config ---

func TestE2E_ConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, _, code := runStudio(t, "--config", path, "config", "init")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file: %v", err)
	}

	out, _, code = runStudio(t, "--config", path, "config", "path")
	if code != 0 || strings.TrimSpace(out) != path {
		t.Fatalf("expected %s, got %q (exit %d)", path, out, code)
	}

	out, _, code = runStudio(t, "--config", path, "config", "show")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "nav_policy = \"clamp\"") {
		t.Errorf("expected default nav policy, got %q", out)
	}
}

// --- Replay, export, validate ---

func TestE2E_ReplayExportValidate(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "build.yaml", connectScript)
	doc := filepath.Join(dir, "session.json")
	journal := filepath.Join(dir, "events.jsonl")

	out, _, code := runStudio(t, "replay", script, "--out", doc, "--journal", journal)
	if code != 0 {
		t.Fatalf("replay: expected exit 0, got %d: %s", code, out)
	}
	if !strings.Contains(out, "build a pipeline") {
		t.Errorf("expected script name in output, got %q", out)
	}

	out, _, code = runStudio(t, "validate", doc)
	if code != 0 {
		t.Fatalf("validate: expected exit 0, got %d: %s", code, out)
	}

	out, _, code = runStudio(t, "export", doc, "--format", "dot")
	if code != 0 {
		t.Fatalf("export: expected exit 0, got %d", code)
	}
	if !strings.Contains(out, `"in":"text" -> "agent":"prompt";`) {
		t.Errorf("expected edge in DOT output, got %q", out)
	}

	out, _, code = runStudio(t, "inspect", doc, "--card", "agent")
	if code != 0 {
		t.Fatalf("inspect: expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "prompt") {
		t.Errorf("expected card tree, got %q", out)
	}

	out, _, code = runStudio(t, "journal", journal, "--summary")
	if code != 0 {
		t.Fatalf("journal: expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "connection_added") {
		t.Errorf("expected journal summary, got %q", out)
	}
}

func TestE2E_ValidateDirtyDocument(t *testing.T) {
	dir := t.TempDir()
	doc := writeFile(t, dir, "dirty.json", `{"version":1,"activeIndex":0,"canvases":[{"cards":[],
	  "connections":[{"sourceCardId":"a","sourceSocketId":"o","targetCardId":"b","targetSocketId":"i"}]}]}`)

	out, _, code := runStudio(t, "validate", doc)
	if code == 0 {
		t.Fatal("expected non-zero exit for a dropped connection")
	}
	if !strings.Contains(out, "connection") {
		t.Errorf("expected the problem to be listed, got %q", out)
	}
}

func TestE2E_ReplayFailingExpectation(t *testing.T) {
	script := writeFile(t, t.TempDir(), "bad.yaml", "steps:\n  - expect: {cards: 3}\n")
	_, stderr, code := runStudio(t, "replay", script)
	if code == 0 {
		t.Fatal("expected non-zero exit")
	}
	if !strings.Contains(stderr, "step 1") {
		t.Errorf("expected failing step in error, got %q", stderr)
	}
}
