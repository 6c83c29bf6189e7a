package graph

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/model"
)

// Endpoint names one socket on one card.
type Endpoint struct {
	CardID   string `json:"cardId" yaml:"cardId"`
	SocketID string `json:"socketId" yaml:"socketId"`
}

// Connections returns copies of the active canvas's connections.
func (s *Store) Connections() []model.Connection {
	return slices.Clone(s.cur().Connections)
}

// Connection returns one connection of the active canvas.
func (s *Store) Connection(id string) (model.Connection, error) {
	for _, conn := range s.cur().Connections {
		if conn.ID == id {
			return conn, nil
		}
	}
	return model.Connection{}, fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
}

// Connect joins the socket a drag started on to another socket. Which end
// is the source follows from the origin socket's direction: a drag from an
// output runs forward, a drag from an input runs backward. A pair that
// fails validation returns ErrRejected and changes nothing.
func (s *Store) Connect(origin, other Endpoint) (string, error) {
	card, err := s.card(origin.CardID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRejected, err)
	}
	sock, ok := card.Socket(origin.SocketID)
	if !ok {
		return "", fmt.Errorf("%w: %w: %s", ErrRejected, ErrSocketNotFound, origin.SocketID)
	}
	conn := model.Connection{
		SourceCardID: origin.CardID, SourceSocketID: origin.SocketID,
		TargetCardID: other.CardID, TargetSocketID: other.SocketID,
	}
	if sock.Type == model.Input {
		conn = model.Connection{
			SourceCardID: other.CardID, SourceSocketID: other.SocketID,
			TargetCardID: origin.CardID, TargetSocketID: origin.SocketID,
		}
	}
	return s.AddConnection(conn)
}

// AddConnection adds a connection with explicit source and target. Missing
// ids are generated and cached points are computed here.
func (s *Store) AddConnection(conn model.Connection) (string, error) {
	c := s.cur()
	if err := s.policy.Check(c, conn); err != nil {
		s.log.Debug("connection rejected", zap.Error(err))
		return "", err
	}
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	for _, existing := range c.Connections {
		if existing.ID == conn.ID {
			return "", fmt.Errorf("%w: connection %s already exists", ErrRejected, conn.ID)
		}
	}
	s.place(c, &conn)
	c.Connections = append(c.Connections, conn)
	s.log.Debug("connection added",
		zap.String("connection", conn.ID),
		zap.String("source", conn.SourceSocketID),
		zap.String("target", conn.TargetSocketID))
	s.notify(Event{Kind: ConnectionAdded, Connections: []string{conn.ID}})
	return conn.ID, nil
}

// RemoveConnection deletes one connection.
func (s *Store) RemoveConnection(id string) error {
	c := s.cur()
	for i, conn := range c.Connections {
		if conn.ID == id {
			c.Connections = append(c.Connections[:i], c.Connections[i+1:]...)
			s.log.Debug("connection removed", zap.String("connection", id))
			s.notify(Event{Kind: ConnectionRemoved, Connections: []string{id}})
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrConnectionNotFound, id)
}

// Trigger copies the card's current output values to every connected input
// one hop downstream. Outputs with no value are skipped. It returns the
// number of inputs written.
func (s *Store) Trigger(cardID string) (int, error) {
	src, err := s.card(cardID)
	if err != nil {
		return 0, err
	}
	c := s.cur()
	written := 0
	var touched []string
	for _, conn := range c.Connections {
		if conn.SourceCardID != cardID {
			continue
		}
		out, ok := src.SocketIn(model.Output, conn.SourceSocketID)
		if !ok || out.Value == nil {
			continue
		}
		ti := findCard(c, conn.TargetCardID)
		if ti < 0 {
			continue
		}
		inputs := c.Cards[ti].Data.Sockets.Inputs
		for j := range inputs {
			if inputs[j].ID == conn.TargetSocketID {
				inputs[j].Value = out.Value
				written++
				touched = append(touched, conn.ID)
			}
		}
	}
	s.log.Debug("card triggered", zap.String("card", cardID), zap.Int("written", written))
	s.notify(Event{Kind: Triggered, CardID: cardID, Connections: touched})
	return written, nil
}

// ─── Geometry ───

// place computes the cached endpoints of conn from its cards.
func (s *Store) place(c *model.Canvas, conn *model.Connection) {
	if s.layout == nil {
		return
	}
	if i := findCard(c, conn.SourceCardID); i >= 0 {
		if sock, ok := c.Cards[i].SocketIn(model.Output, conn.SourceSocketID); ok {
			conn.SourcePoint = s.layout.AnchorPoint(&c.Cards[i], sock)
		}
	}
	if i := findCard(c, conn.TargetCardID); i >= 0 {
		if sock, ok := c.Cards[i].SocketIn(model.Input, conn.TargetSocketID); ok {
			conn.TargetPoint = s.layout.AnchorPoint(&c.Cards[i], sock)
		}
	}
}

// recompute refreshes the points of every connection touching cardID.
func (s *Store) recompute(c *model.Canvas, cardID string) {
	for i := range c.Connections {
		if c.Connections[i].Touches(cardID) {
			s.place(c, &c.Connections[i])
		}
	}
}

// recomputeAll refreshes every connection point and reports how many moved.
func (s *Store) recomputeAll(c *model.Canvas) int {
	changed := 0
	for i := range c.Connections {
		before := c.Connections[i]
		s.place(c, &c.Connections[i])
		if before != c.Connections[i] {
			changed++
		}
	}
	return changed
}

// RefreshGeometry recomputes every connection point on the active canvas.
// It is idempotent: a second call with nothing changed does no work and
// notifies no one.
func (s *Store) RefreshGeometry() int {
	changed := s.recomputeAll(s.cur())
	if changed > 0 {
		s.notify(Event{Kind: GeometryRefreshed})
	}
	return changed
}

func sortedKeys(m map[string]bool) []string {
	return slices.Sorted(maps.Keys(m))
}
