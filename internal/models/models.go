// Package models lists the LLM models an agent card can pick from: a
// built-in catalog plus whatever the canvas's model cards declare.
package models

import "fmt"

// Provider represents an LLM provider.
type Provider struct {
	Name     string
	Endpoint string
	Models   []Model
}

// Model is one selectable model. Source is "builtin" or the id of the model
// card that declared it.
type Model struct {
	ID       string `json:"model" toml:"id"`
	Name     string `json:"name" toml:"name"`
	Provider string `json:"provider" toml:"provider"`
	Endpoint string `json:"apiEndpoint,omitempty" toml:"endpoint"`
	Context  int    `json:"context,omitempty" toml:"context"`
	Type     string `json:"type,omitempty" toml:"type"` // chat, embedding
	Source   string `json:"source" toml:"-"`
	APIKey   string `json:"-" toml:"-"`
}

// SourceBuiltin marks catalog models.
const SourceBuiltin = "builtin"

// BuiltinProviders returns the providers every session starts with.
func BuiltinProviders() []Provider {
	return []Provider{
		{
			Name:     "OpenAI",
			Endpoint: "https://api.openai.com/v1",
			Models: []Model{
				{ID: "gpt-4o", Name: "GPT-4o", Provider: "OpenAI", Context: 128000, Type: "chat"},
				{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Provider: "OpenAI", Context: 128000, Type: "chat"},
				{ID: "gpt-4.1", Name: "GPT-4.1", Provider: "OpenAI", Context: 1047576, Type: "chat"},
				{ID: "text-embedding-3-large", Name: "Embedding 3 Large", Provider: "OpenAI", Context: 8191, Type: "embedding"},
			},
		},
		{
			Name:     "Anthropic",
			Endpoint: "https://api.anthropic.com/v1",
			Models: []Model{
				{ID: "claude-sonnet-4-5-20250929", Name: "Claude Sonnet 4.5", Provider: "Anthropic", Context: 200000, Type: "chat"},
				{ID: "claude-haiku-4-5-20251001", Name: "Claude Haiku 4.5", Provider: "Anthropic", Context: 200000, Type: "chat"},
			},
		},
		{
			Name:     "AzureAI",
			Endpoint: "",
			Models: []Model{
				{ID: "azure-gpt-4o", Name: "GPT-4o (Azure)", Provider: "AzureAI", Context: 128000, Type: "chat"},
			},
		},
		{
			Name:     "Ollama",
			Endpoint: "http://localhost:11434",
			Models: []Model{
				{ID: "llama3.3", Name: "Llama 3.3 70B", Provider: "Ollama", Context: 131072, Type: "chat"},
				{ID: "mistral", Name: "Mistral 7B", Provider: "Ollama", Context: 32768, Type: "chat"},
			},
		},
	}
}

// AllModels returns a flat list of the built-in models.
func AllModels() []Model {
	var all []Model
	for _, p := range BuiltinProviders() {
		for _, m := range p.Models {
			m.Endpoint = p.Endpoint
			m.Source = SourceBuiltin
			all = append(all, m)
		}
	}
	return all
}

// FindModel searches the given models by exact id, then by id prefix of at
// least three characters.
func FindModel(all []Model, query string) *Model {
	for _, m := range all {
		if m.ID == query {
			return &m
		}
	}
	// Fuzzy: prefix match
	for _, m := range all {
		if len(query) >= 3 && len(m.ID) >= len(query) && m.ID[:len(query)] == query {
			return &m
		}
	}
	return nil
}

// FormatContext returns a human-readable context window size.
func FormatContext(ctx int) string {
	switch {
	case ctx <= 0:
		return "-"
	case ctx >= 1000000:
		return fmt.Sprintf("%.1fM", float64(ctx)/1000000)
	default:
		return fmt.Sprintf("%dk", ctx/1000)
	}
}
