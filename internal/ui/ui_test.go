package ui

import (
	"bytes"
	"strings"
	"testing"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	SetColor(false)
	var buf bytes.Buffer
	prev := Out
	Out = &buf
	t.Cleanup(func() { Out = prev })
	return &buf
}

func TestTableAligns(t *testing.T) {
	buf := capture(t)
	Table([]string{"NAME", "TYPE"}, [][]string{{"agent", "core"}, {"x", "ai"}})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "  NAME   TYPE" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if lines[3] != "  x      ai" {
		t.Errorf("unexpected row %q", lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	buf := capture(t)
	Table([]string{"A"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestKV(t *testing.T) {
	buf := capture(t)
	KV("Cards", 3)
	if got := buf.String(); got != "  Cards             3\n" {
		t.Errorf("unexpected line %q", got)
	}
}
