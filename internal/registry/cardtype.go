package registry

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/msalah0e/cardstudio/internal/model"
)

// Fallback values for cards whose type has no catalog entry.
const (
	DefaultName        = "Card"
	DefaultDescription = "Card Node"
	DefaultWidth       = 300
	DefaultHeight      = 150
	DefaultDisplay     = "default"
)

// CardType describes one kind of card and the defaults a new card of that
// kind starts with.
type CardType struct {
	Name        string          `toml:"name"`
	DisplayName string          `toml:"display_name"`
	Description string          `toml:"description"`
	Category    string          `toml:"category"`
	Tags        []string        `toml:"tags"`
	Width       float64         `toml:"width"`
	Height      float64         `toml:"height"`
	Display     string          `toml:"display"`
	Fields      map[string]any  `toml:"fields"`
	Inputs      []SocketDefault `toml:"inputs"`
	Outputs     []SocketDefault `toml:"outputs"`
}

// SocketDefault seeds one socket of a new card.
type SocketDefault struct {
	Name  string `toml:"name"`
	Value any    `toml:"value"`
}

// Initialize fills the gaps of card from its type's defaults. Existing
// sockets are kept as they are; default sockets are only created for a
// direction that has none. def may be nil.
func Initialize(card model.Card, def *CardType) model.Card {
	d := CardType{
		DisplayName: DefaultName,
		Description: DefaultDescription,
		Width:       DefaultWidth,
		Height:      DefaultHeight,
		Display:     DefaultDisplay,
	}
	if def != nil {
		if def.DisplayName != "" {
			d.DisplayName = def.DisplayName
		}
		if def.Description != "" {
			d.Description = def.Description
		}
		if def.Width > 0 {
			d.Width = def.Width
		}
		if def.Height > 0 {
			d.Height = def.Height
		}
		if def.Display != "" {
			d.Display = def.Display
		}
		d.Fields, d.Inputs, d.Outputs = def.Fields, def.Inputs, def.Outputs
	}

	out := card.Clone()
	if out.UI.Name == "" {
		out.UI.Name = d.DisplayName
	}
	if out.UI.Description == "" {
		out.UI.Description = d.Description
	}
	if out.UI.Display == "" {
		out.UI.Display = d.Display
	}
	if out.UI.Width <= 0 {
		out.UI.Width = d.Width
	}
	if out.UI.Height <= 0 {
		out.UI.Height = d.Height
	}
	if out.UI.ZIndex == 0 {
		out.UI.ZIndex = model.ZDefault
	}

	if len(d.Fields) > 0 {
		fields := make(map[string]any, len(d.Fields)+len(out.Data.Fields))
		for k, v := range d.Fields {
			fields[k] = v
		}
		for k, v := range out.Data.Fields {
			fields[k] = v
		}
		out.Data.Fields = fields
	}

	out.Data.Sockets.Inputs = seed(out.Data.Sockets.Inputs, d.Inputs, model.Input)
	out.Data.Sockets.Outputs = seed(out.Data.Sockets.Outputs, d.Outputs, model.Output)
	return out
}

func seed(existing []model.Socket, defaults []SocketDefault, dir model.Direction) []model.Socket {
	if len(existing) > 0 {
		out := model.CopySockets(existing)
		for i := range out {
			out[i].Type = dir
			out[i].Index = i
		}
		return out
	}
	out := make([]model.Socket, len(defaults))
	for i, sd := range defaults {
		name := sd.Name
		if name == "" {
			name = fmt.Sprintf("%s %d", strings.ToUpper(string(dir[:1]))+string(dir[1:]), i+1)
		}
		out[i] = model.Socket{ID: uuid.NewString(), Type: dir, Name: name, Value: sd.Value, Index: i}
	}
	return out
}

// NewCard builds a fresh card of the given type at a world position.
func (r *Registry) NewCard(typ model.CardType, x, y float64) model.Card {
	card := model.Card{UUID: uuid.NewString(), Type: typ}
	card.UI.X, card.UI.Y = x, y
	return Initialize(card, r.Get(string(typ)))
}
