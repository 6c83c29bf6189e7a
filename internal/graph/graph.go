// Package graph owns the canvases of a session and is the only writer of
// their cards and connections. Every mutation completes its structural step
// and its geometry recompute before observers are notified, so readers never
// see a connection pointing at a socket that no longer exists.
package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/model"
)

var (
	ErrCardNotFound       = errors.New("card not found")
	ErrSocketNotFound     = errors.New("socket not found")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrCanvasNotFound     = errors.New("canvas not found")
	ErrInvalidEdit        = errors.New("invalid edit")
	// ErrRejected marks a connection that failed validation. Interactive
	// callers treat it as a cancelled gesture.
	ErrRejected = errors.New("connection rejected")
)

// Anchorer computes the world-space attachment point of a socket.
// router.Layout satisfies it.
type Anchorer interface {
	AnchorPoint(c *model.Card, s model.Socket) geom.Point
}

// Nav is the bound policy for moving between canvases.
type Nav string

const (
	NavClamp Nav = "clamp"
	NavWrap  Nav = "wrap"
)

// DefaultCanvasName names canvases created without a name.
const DefaultCanvasName = "Untitled Canvas"

// Store holds the ordered canvases of one session and the active index.
type Store struct {
	canvases []model.Canvas
	active   int

	layout     Anchorer
	policy     Policy
	nav        Nav
	canvasName string
	log        *zap.Logger

	observers []Observer
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLayout sets how socket anchors are computed.
func WithLayout(a Anchorer) Option {
	return func(s *Store) { s.layout = a }
}

// WithPolicy sets the connection validation policy.
func WithPolicy(p Policy) Option {
	return func(s *Store) { s.policy = p }
}

// WithNav sets the canvas navigation bound policy.
func WithNav(n Nav) Option {
	return func(s *Store) {
		if n == NavWrap {
			s.nav = NavWrap
		} else {
			s.nav = NavClamp
		}
	}
}

// WithCanvasName sets the name given to new canvases.
func WithCanvasName(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.canvasName = name
		}
	}
}

// New creates a store holding one empty canvas.
func New(layout Anchorer, opts ...Option) *Store {
	s := &Store{
		layout:     layout,
		nav:        NavClamp,
		canvasName: DefaultCanvasName,
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	s.canvases = []model.Canvas{s.emptyCanvas("")}
	return s
}

func (s *Store) emptyCanvas(name string) model.Canvas {
	if name == "" {
		name = s.canvasName
	}
	return model.Canvas{
		ID:          uuid.NewString(),
		Name:        name,
		Cards:       []model.Card{},
		Connections: []model.Connection{},
	}
}

// Policy returns the connection validation policy in use.
func (s *Store) Policy() Policy { return s.policy }

// Layout returns the anchor layout in use.
func (s *Store) Layout() Anchorer { return s.layout }

// ─── Canvases ───

// Canvases returns deep copies of every canvas in order.
func (s *Store) Canvases() []model.Canvas {
	out := make([]model.Canvas, len(s.canvases))
	for i, c := range s.canvases {
		out[i] = c.Clone()
	}
	return out
}

// Active returns a deep copy of the active canvas.
func (s *Store) Active() model.Canvas {
	return s.canvases[s.active].Clone()
}

// ActiveIndex returns the position of the active canvas.
func (s *Store) ActiveIndex() int { return s.active }

// Len returns the number of canvases.
func (s *Store) Len() int { return len(s.canvases) }

func (s *Store) cur() *model.Canvas { return &s.canvases[s.active] }

func (s *Store) canvasIndex(id string) (int, error) {
	for i := range s.canvases {
		if s.canvases[i].ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrCanvasNotFound, id)
}

// AddCanvas appends an empty canvas and makes it active.
func (s *Store) AddCanvas(name string) string {
	c := s.emptyCanvas(name)
	s.canvases = append(s.canvases, c)
	s.active = len(s.canvases) - 1
	s.log.Debug("canvas added", zap.String("canvas", c.ID), zap.Int("index", s.active))
	s.notify(Event{Kind: CanvasAdded, CanvasID: c.ID})
	return c.ID
}

// RemoveCanvas deletes a canvas. The last canvas cannot be removed.
func (s *Store) RemoveCanvas(id string) error {
	i, err := s.canvasIndex(id)
	if err != nil {
		return err
	}
	if len(s.canvases) == 1 {
		return fmt.Errorf("%w: cannot remove the only canvas", ErrInvalidEdit)
	}
	s.canvases = append(s.canvases[:i], s.canvases[i+1:]...)
	if s.active > i || s.active == len(s.canvases) {
		s.active--
	}
	s.log.Debug("canvas removed", zap.String("canvas", id))
	s.notify(Event{Kind: CanvasRemoved, CanvasID: id})
	return nil
}

// RenameCanvas changes a canvas name.
func (s *Store) RenameCanvas(id, name string) error {
	i, err := s.canvasIndex(id)
	if err != nil {
		return err
	}
	if name == "" {
		return fmt.Errorf("%w: canvas name cannot be empty", ErrInvalidEdit)
	}
	s.canvases[i].Name = name
	s.notify(Event{Kind: CanvasRenamed, CanvasID: id})
	return nil
}

// SwitchTo makes canvas i active.
func (s *Store) SwitchTo(i int) error {
	if i < 0 || i >= len(s.canvases) {
		return fmt.Errorf("%w: index %d of %d", ErrCanvasNotFound, i, len(s.canvases))
	}
	if i == s.active {
		return nil
	}
	s.active = i
	s.notify(Event{Kind: CanvasSwitched, CanvasID: s.cur().ID})
	return nil
}

// Navigate moves the active canvas by step positions, clamping or wrapping
// at the ends according to the nav policy. It reports whether the active
// canvas changed.
func (s *Store) Navigate(step int) bool {
	n := len(s.canvases)
	next := s.active + step
	switch s.nav {
	case NavWrap:
		next = ((next % n) + n) % n
	default:
		next = max(0, min(next, n-1))
	}
	if next == s.active {
		return false
	}
	s.active = next
	s.log.Debug("canvas switched", zap.Int("index", next))
	s.notify(Event{Kind: CanvasSwitched, CanvasID: s.cur().ID})
	return true
}

// Next moves to the following canvas.
func (s *Store) Next() bool { return s.Navigate(1) }

// Prev moves to the preceding canvas.
func (s *Store) Prev() bool { return s.Navigate(-1) }

// Replace swaps in a whole set of canvases at once, as an import does. The
// canvases must already be validated; geometry is recomputed here.
func (s *Store) Replace(canvases []model.Canvas, active int) error {
	if len(canvases) == 0 {
		return fmt.Errorf("%w: no canvases", ErrInvalidEdit)
	}
	if active < 0 || active >= len(canvases) {
		active = 0
	}
	next := make([]model.Canvas, len(canvases))
	for i, c := range canvases {
		next[i] = c.Clone()
		if next[i].ID == "" {
			next[i].ID = uuid.NewString()
		}
		s.recomputeAll(&next[i])
	}
	s.canvases = next
	s.active = active
	s.log.Debug("canvases replaced", zap.Int("count", len(next)))
	s.notify(Event{Kind: Reset, CanvasID: s.cur().ID})
	return nil
}

// ─── Stats ───

// Stats holds summary counts for the whole session.
type Stats struct {
	Canvases    int
	Cards       int
	Sockets     int
	Connections int
	Types       int
}

// GetStats returns summary statistics.
func (s *Store) GetStats() Stats {
	types := make(map[model.CardType]bool)
	st := Stats{Canvases: len(s.canvases)}
	for _, c := range s.canvases {
		st.Cards += len(c.Cards)
		st.Connections += len(c.Connections)
		for _, card := range c.Cards {
			st.Sockets += len(card.Data.Sockets.Inputs) + len(card.Data.Sockets.Outputs)
			types[card.Type] = true
		}
	}
	st.Types = len(types)
	return st
}
