package models

import (
	"testing"

	"github.com/msalah0e/cardstudio/internal/model"
)

func TestBuiltinProviders(t *testing.T) {
	providers := BuiltinProviders()
	names := make(map[string]bool)
	for _, p := range providers {
		names[p.Name] = true
		if len(p.Models) == 0 {
			t.Errorf("provider %s has no models", p.Name)
		}
	}

	for _, expected := range []string{"OpenAI", "Anthropic", "AzureAI", "Ollama"} {
		if !names[expected] {
			t.Errorf("missing provider: %s", expected)
		}
	}
}

func TestAllModelsCarryEndpointAndSource(t *testing.T) {
	for _, m := range AllModels() {
		if m.Source != SourceBuiltin {
			t.Errorf("%s: expected builtin source, got %q", m.ID, m.Source)
		}
		if m.Provider == "Ollama" && m.Endpoint != "http://localhost:11434" {
			t.Errorf("%s: expected provider endpoint, got %q", m.ID, m.Endpoint)
		}
	}
}

func TestFindModel(t *testing.T) {
	tests := []struct {
		query    string
		expected string
	}{
		{"gpt-4o", "gpt-4o"},
		{"claude-haiku", "claude-haiku-4-5-20251001"},
		{"llama", "llama3.3"},
		{"zz", ""},
		{"nonexistent-model", ""},
	}

	all := AllModels()
	for _, tt := range tests {
		m := FindModel(all, tt.query)
		if tt.expected == "" {
			if m != nil {
				t.Errorf("FindModel(%q): expected nil, got %q", tt.query, m.ID)
			}
			continue
		}
		if m == nil {
			t.Errorf("FindModel(%q): expected %q, got nil", tt.query, tt.expected)
			continue
		}
		if m.ID != tt.expected {
			t.Errorf("FindModel(%q): expected %q, got %q", tt.query, tt.expected, m.ID)
		}
	}
}

func TestFormatContext(t *testing.T) {
	tests := []struct {
		ctx      int
		expected string
	}{
		{128000, "128k"},
		{1047576, "1.0M"},
		{8191, "8k"},
		{0, "-"},
	}

	for _, tt := range tests {
		if got := FormatContext(tt.ctx); got != tt.expected {
			t.Errorf("FormatContext(%d): expected %q, got %q", tt.ctx, tt.expected, got)
		}
	}
}

func TestCardModelValid(t *testing.T) {
	ok := CardModel{DisplayName: "Mine", Model: "m1", Provider: "OpenAI", APIKey: "k"}
	if !ok.Valid() {
		t.Error("complete entry should be valid")
	}

	blank := ok
	blank.APIKey = "   "
	if blank.Valid() {
		t.Error("blank api key should be invalid")
	}

	azure := ok
	azure.Provider = "AzureAI"
	if azure.Valid() {
		t.Error("AzureAI without endpoint should be invalid")
	}
	azure.APIEndpoint = "https://example.openai.azure.com"
	if !azure.Valid() {
		t.Error("AzureAI with endpoint should be valid")
	}
}

func modelCard(id string, entries ...map[string]any) model.Card {
	list := make([]any, len(entries))
	for i, e := range entries {
		list[i] = e
	}
	return model.Card{
		UUID: id,
		Type: model.CardModel,
		Data: model.Data{Fields: map[string]any{FieldModels: list}},
	}
}

func entry(name, id, provider string) map[string]any {
	return map[string]any{"displayName": name, "model": id, "provider": provider, "apiKey": "secret"}
}

func TestRegistryUpdate(t *testing.T) {
	r := NewRegistry(AllModels())
	agent := model.Card{UUID: "agent", Type: model.CardAgent}
	cards := []model.Card{
		agent,
		modelCard("m1", entry("Custom 4o", "gpt-4o", "OpenAI"), entry("", "broken", "OpenAI")),
		modelCard("m2", entry("Local", "my-local", "Ollama")),
	}

	if !r.Update(cards) {
		t.Fatal("first update should report a change")
	}
	if r.Update(cards) {
		t.Error("identical cards should not report a change")
	}

	if got := r.ForCard("m1"); len(got) != 1 || got[0].Name != "Custom 4o" {
		t.Errorf("unexpected models for m1: %+v", got)
	}
	if got := r.ForCard("agent"); got != nil {
		t.Errorf("non-model card should have no models, got %+v", got)
	}

	all := r.All()
	if len(all) != len(AllModels())+1 {
		t.Errorf("expected one extra model, got %d vs %d", len(all), len(AllModels()))
	}
	m := FindModel(all, "gpt-4o")
	if m == nil || m.Source != "m1" || m.Name != "Custom 4o" {
		t.Errorf("canvas model should override builtin, got %+v", m)
	}
	if all[0].ID != "gpt-4o" {
		t.Errorf("override should keep the builtin slot, got %q first", all[0].ID)
	}

	if !r.Update([]model.Card{agent}) {
		t.Error("removing model cards should report a change")
	}
	if len(r.All()) != len(AllModels()) {
		t.Error("expected only builtins after model cards removed")
	}
}
