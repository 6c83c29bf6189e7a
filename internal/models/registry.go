package models

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/msalah0e/cardstudio/internal/model"
)

// FieldModels is the model card field holding its model list.
const FieldModels = "models"

// CardModel is one entry of a model card as the card editor stores it.
type CardModel struct {
	DisplayName string `json:"displayName" validate:"required"`
	Model       string `json:"model" validate:"required"`
	Provider    string `json:"provider" validate:"required"`
	APIKey      string `json:"apiKey" validate:"required"`
	APIEndpoint string `json:"apiEndpoint" validate:"required_if=Provider AzureAI"`
}

var validate = validator.New()

// Valid reports whether the entry is complete. Blank strings count as
// missing, and AzureAI entries also need an endpoint.
func (m CardModel) Valid() bool {
	m.DisplayName = strings.TrimSpace(m.DisplayName)
	m.Model = strings.TrimSpace(m.Model)
	m.Provider = strings.TrimSpace(m.Provider)
	m.APIKey = strings.TrimSpace(m.APIKey)
	m.APIEndpoint = strings.TrimSpace(m.APIEndpoint)
	return validate.Struct(m) == nil
}

// Registry is the model list of one session. It is rebuilt from the model
// cards of the active canvas and never shared between sessions.
type Registry struct {
	builtin []Model
	cards   []cardEntry
}

type cardEntry struct {
	cardID string
	models []Model
}

// NewRegistry starts a registry from the given catalog, usually AllModels.
func NewRegistry(builtin []Model) *Registry {
	return &Registry{builtin: builtin}
}

// Update rebuilds the per-card lists from cards. Only model cards are
// read and invalid entries are skipped. It reports whether anything
// changed; an unchanged configuration leaves the registry as it was.
func (r *Registry) Update(cards []model.Card) bool {
	var next []cardEntry
	for _, c := range cards {
		if c.Type != model.CardModel {
			continue
		}
		next = append(next, cardEntry{cardID: c.UUID, models: cardModels(c)})
	}
	if reflect.DeepEqual(next, r.cards) {
		return false
	}
	r.cards = next
	return true
}

func cardModels(c model.Card) []Model {
	raw, ok := c.Data.Fields[FieldModels]
	if !ok {
		return nil
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var entries []CardModel
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil
	}
	var out []Model
	for _, e := range entries {
		if !e.Valid() {
			continue
		}
		m := Model{
			ID:       e.Model,
			Name:     e.DisplayName,
			Provider: e.Provider,
			APIKey:   e.APIKey,
			Type:     "chat",
			Source:   c.UUID,
		}
		if e.Provider == "AzureAI" {
			m.Endpoint = e.APIEndpoint
		}
		out = append(out, m)
	}
	return out
}

// ForCard returns the models declared by one model card.
func (r *Registry) ForCard(cardID string) []Model {
	for _, e := range r.cards {
		if e.cardID == cardID {
			return e.models
		}
	}
	return nil
}

// All returns the built-in models merged with the canvas models. A canvas
// model replaces a built-in with the same id, keeping the built-in's slot.
func (r *Registry) All() []Model {
	var out []Model
	index := make(map[string]int)
	add := func(m Model) {
		if m.ID == "" {
			return
		}
		if i, ok := index[m.ID]; ok {
			out[i] = m
			return
		}
		index[m.ID] = len(out)
		out = append(out, m)
	}
	for _, m := range r.builtin {
		add(m)
	}
	for _, e := range r.cards {
		for _, m := range e.models {
			add(m)
		}
	}
	return out
}
