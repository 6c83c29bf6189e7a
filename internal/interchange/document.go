// Package interchange reads and writes whole sessions: a versioned JSON
// document of every canvas, and a Graphviz view of one.
package interchange

import (
	"encoding/json"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/model"
)

// Version is the document version written by Export.
const Version = 1

// Document is the on-disk form of a session.
type Document struct {
	Version     int         `json:"version" validate:"gte=1"`
	ActiveIndex int         `json:"activeIndex" validate:"gte=0"`
	Canvases    []CanvasDoc `json:"canvases" validate:"required,min=1"`
}

// CanvasDoc is one canvas entry. Cards and connections are validated one by
// one so a bad entry can be dropped without rejecting the document.
type CanvasDoc struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Cards       []CardDoc       `json:"cards"`
	Connections []ConnectionDoc `json:"connections"`
}

// CardDoc is one card entry.
type CardDoc struct {
	UUID string         `json:"uuid" validate:"required"`
	Type model.CardType `json:"type" validate:"required"`
	UI   UIDoc          `json:"ui"`
	Data DataDoc        `json:"data"`
}

// UIDoc is the placement of a card.
type UIDoc struct {
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Display     string      `json:"display,omitempty"`
	X           float64     `json:"x"`
	Y           float64     `json:"y"`
	Width       float64     `json:"width" validate:"gt=0"`
	Height      float64     `json:"height" validate:"gt=0"`
	ZIndex      model.ZTier `json:"zIndex" validate:"oneof=0 1 100 200"`
}

// DataDoc is the payload of a card: the type-specific keys with the socket
// lists under "sockets".
type DataDoc struct {
	Fields  map[string]any
	Sockets SocketsDoc
}

// SocketsDoc holds both socket lists of a card.
type SocketsDoc struct {
	Inputs  []SocketDoc `json:"inputs" validate:"dive"`
	Outputs []SocketDoc `json:"outputs" validate:"dive"`
}

// MarshalJSON writes the same shape as model.Data.
func (d DataDoc) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.data())
}

// UnmarshalJSON reads the same shape as model.Data.
func (d *DataDoc) UnmarshalJSON(b []byte) error {
	var m model.Data
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	*d = fromData(m)
	return nil
}

func fromData(m model.Data) DataDoc {
	return DataDoc{
		Fields: m.Fields,
		Sockets: SocketsDoc{
			Inputs:  fromSockets(m.Sockets.Inputs),
			Outputs: fromSockets(m.Sockets.Outputs),
		},
	}
}

func (d DataDoc) data() model.Data {
	return model.Data{
		Fields: d.Fields,
		Sockets: model.Sockets{
			Inputs:  toSockets(d.Sockets.Inputs),
			Outputs: toSockets(d.Sockets.Outputs),
		},
	}
}

// SocketDoc is one socket entry.
type SocketDoc struct {
	ID    string          `json:"id" validate:"required"`
	Type  model.Direction `json:"type" validate:"omitempty,oneof=input output"`
	Name  string          `json:"name"`
	Value any             `json:"value"`
	Index int             `json:"index" validate:"gte=0"`
}

// ConnectionDoc is one connection entry. Anchor points are written for
// readers that draw without the engine; they are recomputed on import.
type ConnectionDoc struct {
	ID             string     `json:"id"`
	SourceCardID   string     `json:"sourceCardId" validate:"required"`
	SourceSocketID string     `json:"sourceSocketId" validate:"required"`
	TargetCardID   string     `json:"targetCardId" validate:"required"`
	TargetSocketID string     `json:"targetSocketId" validate:"required"`
	SourcePoint    geom.Point `json:"sourcePoint"`
	TargetPoint    geom.Point `json:"targetPoint"`
}

func fromCanvas(c model.Canvas) CanvasDoc {
	out := CanvasDoc{
		ID:          c.ID,
		Name:        c.Name,
		Cards:       make([]CardDoc, len(c.Cards)),
		Connections: make([]ConnectionDoc, len(c.Connections)),
	}
	for i, card := range c.Cards {
		out.Cards[i] = fromCard(card)
	}
	for i, conn := range c.Connections {
		out.Connections[i] = ConnectionDoc(conn)
	}
	return out
}

func fromCard(c model.Card) CardDoc {
	return CardDoc{
		UUID: c.UUID,
		Type: c.Type,
		UI:   UIDoc(c.UI),
		Data: fromData(c.Data),
	}
}

func fromSockets(list []model.Socket) []SocketDoc {
	out := make([]SocketDoc, len(list))
	for i, s := range list {
		out[i] = SocketDoc(s)
	}
	return out
}

func (d CardDoc) card() model.Card {
	return model.Card{
		UUID: d.UUID,
		Type: d.Type,
		UI:   model.UI(d.UI),
		Data: d.Data.data(),
	}
}

func toSockets(list []SocketDoc) []model.Socket {
	out := make([]model.Socket, len(list))
	for i, s := range list {
		out[i] = model.Socket(s)
	}
	return out
}
