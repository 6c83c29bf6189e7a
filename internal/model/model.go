// Package model holds the card graph data types shared by every layer of
// the engine.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/msalah0e/cardstudio/internal/geom"
)

// Direction says which list a socket belongs to.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// Valid reports whether d is one of the two known directions.
func (d Direction) Valid() bool { return d == Input || d == Output }

// Opposite returns the direction a connection from d must end on.
func (d Direction) Opposite() Direction {
	if d == Input {
		return Output
	}
	return Input
}

// CardType names the kind of a card. The set is open; these are the types
// the editor ships with.
type CardType string

const (
	CardAgent    CardType = "agent"
	CardInput    CardType = "input"
	CardOutput   CardType = "output"
	CardTemplate CardType = "template"
	CardModel    CardType = "model"
)

// ZTier is a named stacking layer. Cards are only ever placed on a tier,
// never on an arbitrary integer.
type ZTier int

const (
	ZDefault  ZTier = 1
	ZSelected ZTier = 100
	ZDragging ZTier = 200
)

// String returns the tier name.
func (z ZTier) String() string {
	switch z {
	case ZSelected:
		return "selected"
	case ZDragging:
		return "dragging"
	default:
		return "default"
	}
}

// Socket is a typed, named slot on a card.
type Socket struct {
	ID    string    `json:"id" yaml:"id"`
	Type  Direction `json:"type" yaml:"type"`
	Name  string    `json:"name" yaml:"name"`
	Value any       `json:"value" yaml:"value"`
	Index int       `json:"index" yaml:"index"`
}

// Sockets holds both direction lists of a card.
type Sockets struct {
	Inputs  []Socket `json:"inputs" yaml:"inputs"`
	Outputs []Socket `json:"outputs" yaml:"outputs"`
}

// List returns the list for dir.
func (s Sockets) List(dir Direction) []Socket {
	if dir == Input {
		return s.Inputs
	}
	return s.Outputs
}

// UI is the placement and presentation state of a card. X and Y are world
// coordinates.
type UI struct {
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description" yaml:"description"`
	Display     string  `json:"display" yaml:"display"`
	X           float64 `json:"x" yaml:"x"`
	Y           float64 `json:"y" yaml:"y"`
	Width       float64 `json:"width" yaml:"width"`
	Height      float64 `json:"height" yaml:"height"`
	ZIndex      ZTier   `json:"zIndex" yaml:"zIndex"`
}

// Data is the type-specific payload of a card. Fields is owned by the card
// collaborator; the engine only interprets Sockets. In JSON the fields sit
// at the same level as "sockets".
type Data struct {
	Fields  map[string]any `json:"-" yaml:",inline"`
	Sockets Sockets        `json:"sockets" yaml:"sockets"`
}

// SocketsKey is the reserved data key holding the socket lists.
const SocketsKey = "sockets"

// MarshalJSON writes the fields inline next to "sockets".
func (d Data) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Fields)+1)
	for k, v := range d.Fields {
		out[k] = v
	}
	out[SocketsKey] = d.Sockets
	return json.Marshal(out)
}

// UnmarshalJSON reads "sockets" into Sockets and every other key into Fields.
func (d *Data) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*d = Data{}
	if s, ok := raw[SocketsKey]; ok {
		if err := json.Unmarshal(s, &d.Sockets); err != nil {
			return fmt.Errorf("%s: %w", SocketsKey, err)
		}
		delete(raw, SocketsKey)
	}
	if len(raw) == 0 {
		return nil
	}
	d.Fields = make(map[string]any, len(raw))
	for k, v := range raw {
		var val any
		if err := json.Unmarshal(v, &val); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		d.Fields[k] = val
	}
	return nil
}

// Card is a node of the graph.
type Card struct {
	UUID string   `json:"uuid" yaml:"uuid"`
	Type CardType `json:"type" yaml:"type"`
	UI   UI       `json:"ui" yaml:"ui"`
	Data Data     `json:"data" yaml:"data"`
}

// Socket looks up a socket by id in either direction.
func (c *Card) Socket(id string) (Socket, bool) {
	for _, s := range c.Data.Sockets.Inputs {
		if s.ID == id {
			return s, true
		}
	}
	for _, s := range c.Data.Sockets.Outputs {
		if s.ID == id {
			return s, true
		}
	}
	return Socket{}, false
}

// SocketIn looks up a socket by id in one direction only.
func (c *Card) SocketIn(dir Direction, id string) (Socket, bool) {
	for _, s := range c.Data.Sockets.List(dir) {
		if s.ID == id {
			return s, true
		}
	}
	return Socket{}, false
}

// Clone returns a deep copy of the card. Socket values and fields are copied
// one level deep; nested maps inside values are shared.
func (c Card) Clone() Card {
	out := c
	out.Data.Sockets.Inputs = CopySockets(c.Data.Sockets.Inputs)
	out.Data.Sockets.Outputs = CopySockets(c.Data.Sockets.Outputs)
	if c.Data.Fields != nil {
		out.Data.Fields = make(map[string]any, len(c.Data.Fields))
		for k, v := range c.Data.Fields {
			out.Data.Fields[k] = v
		}
	}
	return out
}

// Connection is a directed edge from an output socket to an input socket.
// SourcePoint and TargetPoint are cached world-space anchors.
type Connection struct {
	ID             string     `json:"id" yaml:"id"`
	SourceCardID   string     `json:"sourceCardId" yaml:"sourceCardId"`
	SourceSocketID string     `json:"sourceSocketId" yaml:"sourceSocketId"`
	TargetCardID   string     `json:"targetCardId" yaml:"targetCardId"`
	TargetSocketID string     `json:"targetSocketId" yaml:"targetSocketId"`
	SourcePoint    geom.Point `json:"sourcePoint" yaml:"sourcePoint"`
	TargetPoint    geom.Point `json:"targetPoint" yaml:"targetPoint"`
}

// Touches reports whether the connection has an endpoint on cardID.
func (c Connection) Touches(cardID string) bool {
	return c.SourceCardID == cardID || c.TargetCardID == cardID
}

// Endpoint returns the socket id the connection uses on the given side.
// Output sockets are always the source, inputs the target.
func (c Connection) Endpoint(dir Direction) (cardID, socketID string) {
	if dir == Output {
		return c.SourceCardID, c.SourceSocketID
	}
	return c.TargetCardID, c.TargetSocketID
}

// Canvas is one named graph in a session.
type Canvas struct {
	ID          string       `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Cards       []Card       `json:"cards" yaml:"cards"`
	Connections []Connection `json:"connections" yaml:"connections"`
}

// Clone deep-copies the canvas.
func (c Canvas) Clone() Canvas {
	out := Canvas{ID: c.ID, Name: c.Name}
	out.Cards = make([]Card, len(c.Cards))
	for i, card := range c.Cards {
		out.Cards[i] = card.Clone()
	}
	out.Connections = make([]Connection, len(c.Connections))
	copy(out.Connections, c.Connections)
	return out
}

// CopySockets returns a non-nil copy of list.
func CopySockets(list []Socket) []Socket {
	out := make([]Socket, len(list))
	copy(out, list)
	return out
}
