// Package session wires one editing session together: the graph store,
// the viewport, the interaction controller and the per-session model list.
package session

import (
	"io"

	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/config"
	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/interact"
	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/models"
	"github.com/msalah0e/cardstudio/internal/registry"
)

// Session is a single-user editing session.
type Session struct {
	store  *graph.Store
	vp     *geom.Viewport
	ctl    *interact.Controller
	types  *registry.Registry
	models *models.Registry
	log    *zap.Logger

	journal    *Journal
	journalErr error

	viewW, viewH float64

	// Zoom refresh is deferred to the next frame and keyed by level, so a
	// burst of zoom steps costs one geometry pass.
	pending       bool
	refreshedZoom float64
	refreshes     int

	modelsDirty bool
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger shared by the session's parts.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithJournal records every store event to w as JSON lines.
func WithJournal(w io.Writer) Option {
	return func(s *Session) { s.journal = NewJournal(w) }
}

// WithViewSize sets the size of the visible canvas area.
func WithViewSize(w, h float64) Option {
	return func(s *Session) { s.viewW, s.viewH = w, h }
}

// New builds a session from cfg. types may be nil, in which case new cards
// get the generic defaults.
func New(cfg *config.Config, types *registry.Registry, opts ...Option) *Session {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Session{
		types:  types,
		models: models.NewRegistry(models.AllModels()),
		log:    zap.NewNop(),
		viewW:  1280,
		viewH:  800,
	}
	for _, o := range opts {
		o(s)
	}

	layout := cfg.RouterLayout()
	s.store = graph.New(layout,
		graph.WithLogger(s.log.Named("graph")),
		graph.WithPolicy(graph.Policy{StrictTypes: cfg.Connect.StrictTypes}),
		graph.WithNav(graph.Nav(cfg.Canvas.NavPolicy)),
		graph.WithCanvasName(cfg.Canvas.DefaultName))
	s.vp = geom.NewViewport(cfg.Bounds(), cfg.Viewport.DefaultZoom)
	s.vp.Center(s.viewW, s.viewH)
	s.refreshedZoom = s.vp.Zoom

	s.ctl = interact.New(s.store, s.vp, layout,
		interact.WithLogger(s.log.Named("interact")),
		interact.WithSnapDistance(cfg.Connect.SnapDistance),
		interact.WithSelectDistance(cfg.Connect.SelectDistance),
		interact.WithViewSize(s.viewW, s.viewH),
		interact.OnZoom(s.requestRefresh))

	s.store.Subscribe(s.observe)
	s.modelsDirty = true
	return s
}

// Store returns the session's graph store.
func (s *Session) Store() *graph.Store { return s.store }

// Viewport returns the session's viewport.
func (s *Session) Viewport() *geom.Viewport { return s.vp }

// Controller returns the session's interaction controller.
func (s *Session) Controller() *interact.Controller { return s.ctl }

// Handle feeds one input to the controller.
func (s *Session) Handle(in interact.Input) { s.ctl.Handle(in) }

// Resize updates the visible canvas area.
func (s *Session) Resize(w, h float64) {
	s.viewW, s.viewH = w, h
	s.ctl.SetViewSize(w, h)
}

// Center scrolls so the world origin sits in the middle of the view.
func (s *Session) Center() { s.vp.Center(s.viewW, s.viewH) }

// ZoomPercent returns the zoom level as a whole percentage.
func (s *Session) ZoomPercent() int { return s.vp.ZoomPercent() }

func (s *Session) requestRefresh() { s.pending = true }

// Frame is the paint hook. It runs the deferred geometry refresh if the
// zoom level changed since the last one and reports whether it ran.
func (s *Session) Frame() bool {
	if !s.pending {
		return false
	}
	s.pending = false
	if s.vp.Zoom == s.refreshedZoom {
		return false
	}
	s.store.RefreshGeometry()
	s.refreshedZoom = s.vp.Zoom
	s.refreshes++
	s.log.Debug("geometry refreshed", zap.Float64("zoom", s.vp.Zoom))
	return true
}

// Refreshes returns how many zoom refreshes have run.
func (s *Session) Refreshes() int { return s.refreshes }

// AddCard creates a card of the given type at the centre of the view, as
// the toolbar does, and lifts it above the others.
func (s *Session) AddCard(typ model.CardType) (string, error) {
	at := s.vp.ScreenToWorld(geom.Point{X: s.viewW / 2, Y: s.viewH / 2})
	card := s.types.NewCard(typ, at.X, at.Y)
	card.UI.ZIndex = model.ZSelected
	return s.store.AddCard(card)
}

// Models returns the models available to agent cards on the active canvas.
func (s *Session) Models() []models.Model {
	if s.modelsDirty {
		s.models.Update(s.store.Cards())
		s.modelsDirty = false
	}
	return s.models.All()
}

// ModelsForCard returns the models one model card declares.
func (s *Session) ModelsForCard(cardID string) []models.Model {
	s.Models()
	return s.models.ForCard(cardID)
}

func (s *Session) observe(_ *graph.Store, e graph.Event) {
	switch e.Kind {
	case graph.CardAdded, graph.CardUpdated, graph.CardRemoved,
		graph.CanvasSwitched, graph.CanvasAdded, graph.CanvasRemoved, graph.Reset:
		s.modelsDirty = true
	}
	if s.journal != nil && s.journalErr == nil {
		s.journalErr = s.journal.Record(e)
	}
}

// Err returns the first journal write error, if any.
func (s *Session) Err() error { return s.journalErr }
