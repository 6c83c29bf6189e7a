package registry

import (
	"testing"

	"github.com/msalah0e/cardstudio/internal/model"
)

func sampleTypes() []CardType {
	return []CardType{
		{
			Name:        "agent",
			DisplayName: "Agent",
			Description: "Runs a model against a prompt",
			Category:    "ai",
			Tags:        []string{"llm", "agent"},
			Width:       400,
			Height:      220,
			Fields:      map[string]any{"model": "", "temperature": 0.7},
			Inputs:      []SocketDefault{{}},
			Outputs:     []SocketDefault{{Name: "Answer"}},
		},
		{
			Name:        "input",
			DisplayName: "Input",
			Description: "Feeds values into the workflow",
			Category:    "io",
			Tags:        []string{"source"},
			Outputs:     []SocketDefault{{Name: "Value", Value: "seed"}},
		},
		{
			Name:        "output",
			DisplayName: "Output",
			Description: "Collects results",
			Category:    "io",
			Tags:        []string{"sink"},
		},
	}
}

func TestNew(t *testing.T) {
	reg := New(sampleTypes())
	if len(reg.All()) != 3 {
		t.Errorf("expected 3 card types, got %d", len(reg.All()))
	}
}

func TestGet(t *testing.T) {
	reg := New(sampleTypes())

	ct := reg.Get("agent")
	if ct == nil {
		t.Fatal("expected to find agent")
	}
	if ct.DisplayName != "Agent" {
		t.Errorf("expected 'Agent', got %q", ct.DisplayName)
	}

	if reg.Get("nonexistent") != nil {
		t.Error("expected nil for nonexistent card type")
	}

	var nilReg *Registry
	if nilReg.Get("agent") != nil {
		t.Error("nil registry should find nothing")
	}
}

func TestSearch(t *testing.T) {
	reg := New(sampleTypes())

	tests := []struct {
		query    string
		expected int
	}{
		{"agent", 1},
		{"io", 2},
		{"source", 1},
		{"workflow", 1},
		{"zzz", 0},
	}

	for _, tt := range tests {
		results := reg.Search(tt.query)
		if len(results) != tt.expected {
			t.Errorf("Search(%q): expected %d results, got %d", tt.query, tt.expected, len(results))
		}
	}
}

func TestByCategoryAndCategories(t *testing.T) {
	reg := New(sampleTypes())

	if got := len(reg.ByCategory("io")); got != 2 {
		t.Errorf("expected 2 io types, got %d", got)
	}
	cats := reg.Categories()
	if len(cats) != 2 || cats[0] != "ai" || cats[1] != "io" {
		t.Errorf("unexpected categories %v", cats)
	}
}

func TestDedupKeepsLast(t *testing.T) {
	types := []CardType{
		{Name: "a", DisplayName: "first"},
		{Name: "b"},
		{Name: "a", DisplayName: "second"},
	}
	got := dedup(types)
	if len(got) != 2 {
		t.Fatalf("expected 2, got %d", len(got))
	}
	if got[0].Name != "a" || got[0].DisplayName != "second" {
		t.Errorf("expected last a in first slot, got %+v", got[0])
	}
}

func TestNewCardFromDefaults(t *testing.T) {
	reg := New(sampleTypes())
	card := reg.NewCard(model.CardAgent, -20, 35)

	if card.UUID == "" {
		t.Error("expected generated uuid")
	}
	if card.UI.Name != "Agent" || card.UI.Width != 400 || card.UI.Height != 220 {
		t.Errorf("unexpected ui %+v", card.UI)
	}
	if card.UI.X != -20 || card.UI.Y != 35 {
		t.Errorf("unexpected position %g,%g", card.UI.X, card.UI.Y)
	}
	if card.UI.Display != DefaultDisplay || card.UI.ZIndex != model.ZDefault {
		t.Errorf("unexpected display/tier %q %v", card.UI.Display, card.UI.ZIndex)
	}
	if len(card.Data.Sockets.Inputs) != 1 || card.Data.Sockets.Inputs[0].Name != "Input 1" {
		t.Errorf("unexpected inputs %+v", card.Data.Sockets.Inputs)
	}
	if card.Data.Sockets.Outputs[0].Name != "Answer" || card.Data.Sockets.Outputs[0].Type != model.Output {
		t.Errorf("unexpected outputs %+v", card.Data.Sockets.Outputs)
	}
	if card.Data.Fields["temperature"] != 0.7 {
		t.Errorf("expected default field, got %v", card.Data.Fields)
	}
}

func TestInitializeKeepsExisting(t *testing.T) {
	reg := New(sampleTypes())
	in := model.Card{Type: model.CardInput}
	in.UI.Name = "Question"
	in.UI.Width = 500
	in.Data.Fields = map[string]any{"note": "kept"}
	in.Data.Sockets.Outputs = []model.Socket{{ID: "x", Name: "mine", Index: 4}}

	card := Initialize(in, reg.Get("input"))
	if card.UI.Name != "Question" || card.UI.Width != 500 {
		t.Errorf("existing ui overwritten: %+v", card.UI)
	}
	if card.UI.Height != DefaultHeight {
		t.Errorf("expected default height, got %g", card.UI.Height)
	}
	outs := card.Data.Sockets.Outputs
	if len(outs) != 1 || outs[0].ID != "x" || outs[0].Index != 0 || outs[0].Type != model.Output {
		t.Errorf("existing sockets not preserved: %+v", outs)
	}
	if card.Data.Fields["note"] != "kept" {
		t.Errorf("existing field lost: %v", card.Data.Fields)
	}
	if len(card.Data.Sockets.Inputs) != 0 {
		t.Errorf("expected no inputs, got %d", len(card.Data.Sockets.Inputs))
	}
}

func TestInitializeUnknownType(t *testing.T) {
	card := Initialize(model.Card{Type: "mystery"}, nil)
	if card.UI.Name != DefaultName || card.UI.Description != DefaultDescription {
		t.Errorf("unexpected fallback ui %+v", card.UI)
	}
	if card.UI.Width != DefaultWidth || card.UI.Height != DefaultHeight {
		t.Errorf("unexpected fallback size %gx%g", card.UI.Width, card.UI.Height)
	}
}
