// Package interact turns pointer and keyboard input into graph mutations.
//
// The controller is a small state machine. From Idle, a press on the
// background pans, a press on a card selects (and drags) it, and a drag
// started on a socket draws a connection. Every gesture ends back in Idle.
package interact

import (
	"errors"

	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/router"
)

// State is the controller's current gesture.
type State int

const (
	Idle State = iota
	Panning
	ConnectingDrag
	Selecting
)

func (s State) String() string {
	switch s {
	case Panning:
		return "panning"
	case ConnectingDrag:
		return "connecting"
	case Selecting:
		return "selecting"
	default:
		return "idle"
	}
}

// Graph is the part of the store the controller mutates.
type Graph interface {
	Active() model.Canvas
	Card(id string) (model.Card, error)
	MoveCard(id string, x, y float64) error
	SetZ(id string, z model.ZTier) error
	Connect(origin, other graph.Endpoint) (string, error)
	RemoveConnection(id string) error
	RemoveCard(id string) error
	Navigate(step int) bool
}

// ActiveDrag is the connection being drawn. Points are world space.
type ActiveDrag struct {
	Origin       graph.Endpoint
	Direction    model.Direction
	StartPoint   geom.Point
	CurrentPoint geom.Point
	Snap         *router.Hit
}

// press is a card held down during Selecting.
type press struct {
	cardID string
	last   geom.Point
	moved  bool
}

// Controller is the interaction state machine for one session.
type Controller struct {
	g      Graph
	vp     *geom.Viewport
	layout router.Layout
	log    *zap.Logger

	snapDistance   float64
	selectDistance float64
	viewW, viewH   float64
	onZoom         func()

	state    State
	selected []string
	conn     string
	drag     *ActiveDrag
	press    *press
	last     geom.Point
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithSnapDistance sets how close, in screen pixels, the pointer must be
// to a socket for a drag to snap onto it.
func WithSnapDistance(d float64) Option {
	return func(c *Controller) { c.snapDistance = d }
}

// WithSelectDistance sets how close, in screen pixels, a click must be to
// a connection curve to select it.
func WithSelectDistance(d float64) Option {
	return func(c *Controller) { c.selectDistance = d }
}

// WithViewSize sets the size of the visible canvas area.
func WithViewSize(w, h float64) Option {
	return func(c *Controller) { c.viewW, c.viewH = w, h }
}

// OnZoom registers the callback run after a zoom level change.
func OnZoom(fn func()) Option {
	return func(c *Controller) { c.onZoom = fn }
}

// New creates a controller working on g through viewport vp.
func New(g Graph, vp *geom.Viewport, layout router.Layout, opts ...Option) *Controller {
	c := &Controller{
		g:              g,
		vp:             vp,
		layout:         layout,
		log:            zap.NewNop(),
		snapDistance:   30,
		selectDistance: 8,
		viewW:          1280,
		viewH:          800,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the current gesture.
func (c *Controller) State() State { return c.state }

// Selection returns the selected card ids in selection order.
func (c *Controller) Selection() []string {
	return append([]string(nil), c.selected...)
}

// SelectedConnection returns the selected connection id, if any.
func (c *Controller) SelectedConnection() string { return c.selectedConn() }

// selectedConn drops the connection selection once the connection is gone,
// for example after a cascade from removing one of its cards.
func (c *Controller) selectedConn() string {
	if c.conn == "" {
		return ""
	}
	for _, conn := range c.g.Active().Connections {
		if conn.ID == c.conn {
			return c.conn
		}
	}
	c.conn = ""
	return ""
}

// Drag returns the connection being drawn, if any.
func (c *Controller) Drag() (ActiveDrag, bool) {
	if c.drag == nil {
		return ActiveDrag{}, false
	}
	return *c.drag, true
}

// SetViewSize updates the visible canvas area.
func (c *Controller) SetViewSize(w, h float64) { c.viewW, c.viewH = w, h }

// Handle feeds one input to the state machine.
func (c *Controller) Handle(in Input) {
	switch ev := in.(type) {
	case PointerDown:
		c.pointerDown(ev)
	case PointerMove:
		c.pointerMove(ev.At)
	case PointerUp:
		c.pointerUp(ev.At)
	case PointerLeave:
		c.pointerLeave()
	case DragStart:
		c.dragStart(ev)
	case KeyDown:
		c.keyDown(ev)
	case ZoomIn:
		c.zoom(c.vp.ZoomIn(c.centre()))
	case ZoomOut:
		c.zoom(c.vp.ZoomOut(c.centre()))
	case Wheel:
		switch {
		case ev.Delta < 0:
			c.zoom(c.vp.ZoomIn(ev.At))
		case ev.Delta > 0:
			c.zoom(c.vp.ZoomOut(ev.At))
		}
	case PrevCanvas:
		c.navigate(-1)
	case NextCanvas:
		c.navigate(1)
	}
}

func (c *Controller) centre() geom.Point {
	return geom.Point{X: c.viewW / 2, Y: c.viewH / 2}
}

func (c *Controller) zoom(changed bool) {
	if changed && c.onZoom != nil {
		c.onZoom()
	}
}

// ─── Pointer ───

func (c *Controller) pointerDown(ev PointerDown) {
	if c.state != Idle {
		return
	}
	t := ev.Target
	if t.Kind == TargetAuto {
		t = c.HitTest(ev.At)
	}
	switch t.Kind {
	case TargetCard:
		if _, err := c.g.Card(t.CardID); err != nil {
			return
		}
		c.conn = ""
		c.selectCard(t.CardID, ev.Modifier)
		c.press = &press{cardID: t.CardID, last: c.vp.ScreenToWorld(ev.At)}
		c.state = Selecting
	case TargetConnection:
		c.conn = t.ConnectionID
	default:
		c.clearSelection()
		c.last = ev.At
		c.state = Panning
	}
}

func (c *Controller) pointerMove(at geom.Point) {
	switch c.state {
	case Panning:
		d := at.Sub(c.last)
		c.vp.PanBy(d.X, d.Y)
		c.last = at
	case ConnectingDrag:
		c.track(at)
	case Selecting:
		c.dragCard(at)
	}
}

func (c *Controller) pointerUp(at geom.Point) {
	switch c.state {
	case ConnectingDrag:
		c.track(at)
		c.drop()
	case Selecting:
		c.release()
	}
	c.state = Idle
}

func (c *Controller) pointerLeave() {
	switch c.state {
	case ConnectingDrag:
		c.drag = nil
	case Selecting:
		c.release()
	}
	c.state = Idle
}

// ─── Selection ───

func (c *Controller) isSelected(id string) bool {
	for _, s := range c.selected {
		if s == id {
			return true
		}
	}
	return false
}

func (c *Controller) selectCard(id string, toggle bool) {
	if toggle {
		if c.isSelected(id) {
			c.deselect(id)
			return
		}
		c.selected = append(c.selected, id)
		_ = c.g.SetZ(id, model.ZSelected)
		return
	}
	for _, other := range c.Selection() {
		if other != id {
			c.deselect(other)
		}
	}
	if !c.isSelected(id) {
		c.selected = append(c.selected, id)
	}
	_ = c.g.SetZ(id, model.ZSelected)
}

func (c *Controller) deselect(id string) {
	for i, s := range c.selected {
		if s == id {
			c.selected = append(c.selected[:i], c.selected[i+1:]...)
			break
		}
	}
	_ = c.g.SetZ(id, model.ZDefault)
}

func (c *Controller) clearSelection() {
	for _, id := range c.Selection() {
		c.deselect(id)
	}
	c.conn = ""
}

func (c *Controller) dragCard(at geom.Point) {
	if c.press == nil {
		return
	}
	w := c.vp.ScreenToWorld(at)
	card, err := c.g.Card(c.press.cardID)
	if err != nil {
		c.press = nil
		return
	}
	if !c.press.moved {
		c.press.moved = true
		_ = c.g.SetZ(card.UUID, model.ZDragging)
	}
	d := w.Sub(c.press.last)
	_ = c.g.MoveCard(card.UUID, card.UI.X+d.X, card.UI.Y+d.Y)
	c.press.last = w
}

func (c *Controller) release() {
	if c.press != nil && c.press.moved {
		tier := model.ZDefault
		if c.isSelected(c.press.cardID) {
			tier = model.ZSelected
		}
		_ = c.g.SetZ(c.press.cardID, tier)
	}
	c.press = nil
}

// ─── Connecting ───

func (c *Controller) dragStart(ev DragStart) {
	if c.state != Idle {
		return
	}
	card, err := c.g.Card(ev.CardID)
	if err != nil {
		return
	}
	sock, ok := card.Socket(ev.SocketID)
	if !ok {
		return
	}
	a := c.layout.AnchorPoint(&card, sock)
	c.drag = &ActiveDrag{
		Origin:       graph.Endpoint{CardID: ev.CardID, SocketID: ev.SocketID},
		Direction:    sock.Type,
		StartPoint:   a,
		CurrentPoint: a,
	}
	c.state = ConnectingDrag
}

// track moves the drag end and re-evaluates the snap target.
func (c *Controller) track(at geom.Point) {
	if c.drag == nil {
		return
	}
	c.drag.CurrentPoint = c.vp.ScreenToWorld(at)
	want := c.drag.Direction.Opposite()
	origin := c.drag.Origin.CardID
	cv := c.g.Active()
	hit, ok := c.layout.NearestSocket(c.drag.CurrentPoint, cv.Cards, c.snapDistance/c.vp.Zoom,
		func(card *model.Card, s model.Socket) bool {
			return card.UUID != origin && s.Type == want
		})
	if ok {
		c.drag.Snap = &hit
	} else {
		c.drag.Snap = nil
	}
}

// drop ends the drag. An invalid or missing target is a cancel.
func (c *Controller) drop() {
	d := c.drag
	c.drag = nil
	if d == nil || d.Snap == nil {
		return
	}
	other := graph.Endpoint{CardID: d.Snap.CardID, SocketID: d.Snap.Socket.ID}
	id, err := c.g.Connect(d.Origin, other)
	if err != nil {
		if !errors.Is(err, graph.ErrRejected) {
			c.log.Warn("connect failed", zap.Error(err))
		}
		return
	}
	c.log.Debug("connected", zap.String("connection", id))
}

// Preview returns the dashed curve for the connection being drawn, running
// from output side to input side. The end snaps to the highlighted socket.
func (c *Controller) Preview() (router.Curve, bool) {
	if c.drag == nil {
		return router.Curve{}, false
	}
	end := c.drag.CurrentPoint
	if c.drag.Snap != nil {
		end = c.drag.Snap.Anchor
	}
	if c.drag.Direction == model.Input {
		return c.layout.Path(end, c.drag.StartPoint), true
	}
	return c.layout.Path(c.drag.StartPoint, end), true
}

// ─── Keyboard and navigation ───

func (c *Controller) keyDown(ev KeyDown) {
	if ev.InTextField {
		return
	}
	switch ev.Key {
	case "Delete", "Backspace":
		c.deleteSelection()
	case "Escape":
		if c.state == ConnectingDrag {
			c.drag = nil
			c.state = Idle
		}
	}
}

// deleteSelection removes the selected connection if there is one, and
// otherwise every selected card. Never both.
func (c *Controller) deleteSelection() {
	if c.selectedConn() != "" {
		if err := c.g.RemoveConnection(c.conn); err != nil {
			c.log.Debug("selected connection already gone", zap.String("connection", c.conn))
		}
		c.conn = ""
		return
	}
	for _, id := range c.selected {
		if err := c.g.RemoveCard(id); err != nil {
			c.log.Debug("selected card already gone", zap.String("card", id))
		}
	}
	c.selected = nil
}

func (c *Controller) navigate(step int) {
	c.release()
	c.clearSelection()
	c.drag = nil
	c.state = Idle
	c.g.Navigate(step)
}
