package graph

import "github.com/msalah0e/cardstudio/internal/model"

// EventKind names what a mutation changed.
type EventKind string

const (
	CardAdded         EventKind = "card_added"
	CardUpdated       EventKind = "card_updated"
	CardRemoved       EventKind = "card_removed"
	SocketsChanged    EventKind = "sockets_changed"
	SocketValue       EventKind = "socket_value"
	ConnectionAdded   EventKind = "connection_added"
	ConnectionRemoved EventKind = "connection_removed"
	GeometryRefreshed EventKind = "geometry_refreshed"
	Triggered         EventKind = "triggered"
	CanvasAdded       EventKind = "canvas_added"
	CanvasRemoved     EventKind = "canvas_removed"
	CanvasRenamed     EventKind = "canvas_renamed"
	CanvasSwitched    EventKind = "canvas_switched"
	Reset             EventKind = "reset"
)

// Event describes one completed mutation.
type Event struct {
	Kind           EventKind       `json:"kind"`
	CanvasID       string          `json:"canvas,omitempty"`
	CardID         string          `json:"card,omitempty"`
	Direction      model.Direction `json:"direction,omitempty"`
	Connections    []string        `json:"connections,omitempty"`
	DeletedSockets []string        `json:"deletedSockets,omitempty"`
}

// Observer is called after a mutation is fully applied.
type Observer func(s *Store, e Event)

// Subscribe registers an observer and returns a function that removes it.
func (s *Store) Subscribe(o Observer) func() {
	s.observers = append(s.observers, o)
	i := len(s.observers) - 1
	return func() { s.observers[i] = nil }
}

func (s *Store) notify(e Event) {
	if e.CanvasID == "" {
		e.CanvasID = s.cur().ID
	}
	for _, o := range s.observers {
		if o != nil {
			o(s, e)
		}
	}
}
