package registry

import (
	"strings"
)

// Registry holds all known card types.
type Registry struct {
	types  []CardType
	byName map[string]*CardType
}

// New creates a registry from a list of card types.
func New(types []CardType) *Registry {
	r := &Registry{
		types:  types,
		byName: make(map[string]*CardType, len(types)),
	}
	for i := range r.types {
		r.byName[r.types[i].Name] = &r.types[i]
	}
	return r
}

// All returns all card types in the registry.
func (r *Registry) All() []CardType {
	return r.types
}

// Get returns a card type by name, or nil if not found.
func (r *Registry) Get(name string) *CardType {
	if r == nil {
		return nil
	}
	return r.byName[name]
}

// Search finds card types matching a query against name, description, category, and tags.
func (r *Registry) Search(query string) []CardType {
	q := strings.ToLower(query)
	var results []CardType
	for _, t := range r.types {
		if matches(t, q) {
			results = append(results, t)
		}
	}
	return results
}

// ByCategory returns card types filtered by category.
func (r *Registry) ByCategory(category string) []CardType {
	var results []CardType
	for _, t := range r.types {
		if t.Category == category {
			results = append(results, t)
		}
	}
	return results
}

// Categories returns all unique categories in first-seen order.
func (r *Registry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, t := range r.types {
		if !seen[t.Category] {
			seen[t.Category] = true
			cats = append(cats, t.Category)
		}
	}
	return cats
}

func matches(t CardType, query string) bool {
	if strings.Contains(strings.ToLower(t.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.DisplayName), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	if strings.ToLower(t.Category) == query {
		return true
	}
	for _, tag := range t.Tags {
		if strings.ToLower(tag) == query {
			return true
		}
	}
	return false
}
