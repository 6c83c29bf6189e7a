package script

import (
	"fmt"
	"reflect"
	"slices"

	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/interact"
	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/session"
)

// Expect checks the session after the preceding steps. Unset fields are
// not checked.
type Expect struct {
	Cards       *int        `yaml:"cards,omitempty"`
	Connections *int        `yaml:"connections,omitempty"`
	Canvases    *int        `yaml:"canvases,omitempty"`
	Active      *int        `yaml:"active,omitempty"`
	Zoom        *int        `yaml:"zoom,omitempty"` // percent
	Refreshes   *int        `yaml:"refreshes,omitempty"`
	State       string      `yaml:"state,omitempty"`
	Selected    []string    `yaml:"selected,omitempty"`
	Linked      []LinkSpec  `yaml:"linked,omitempty"`
	Sockets     *SocketSpec `yaml:"sockets,omitempty"`
	Value       *ValueSpec  `yaml:"value,omitempty"`
	Z           *ZSpec      `yaml:"z,omitempty"`
}

// ZSpec checks a card's stacking tier by name.
type ZSpec struct {
	Card string `yaml:"card"`
	Tier string `yaml:"tier"`
}

// StepError reports the step that failed.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string { return fmt.Sprintf("step %d: %v", e.Step, e.Err) }

func (e *StepError) Unwrap() error { return e.Err }

// Result summarises a replay.
type Result struct {
	Steps   int
	Checks  int
	Events  int
	Refresh int
}

// Run replays a script through sess and stops at the first failed step.
func Run(sess *session.Session, sc *Script, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var res Result
	cancel := sess.Store().Subscribe(func(*graph.Store, graph.Event) { res.Events++ })
	defer cancel()

	if sc.View != nil {
		sess.Resize(sc.View.W, sc.View.H)
		sess.Center()
	}
	for i, st := range sc.Steps {
		if err := step(sess, st); err != nil {
			log.Debug("script step failed", zap.String("script", sc.Name), zap.Int("step", i+1), zap.Error(err))
			return res, &StepError{Step: i + 1, Err: err}
		}
		res.Steps++
		if st.Expect != nil {
			res.Checks++
		}
	}
	res.Refresh = sess.Refreshes()
	return res, nil
}

func step(sess *session.Session, st Step) error {
	s := sess.Store()
	switch {
	case st.Add != nil:
		_, err := s.AddCard(st.Add.card())
		return err
	case st.Remove != "":
		return s.RemoveCard(st.Remove)
	case st.Place != nil:
		p := st.Place
		if err := s.MoveCard(p.Card, p.X, p.Y); err != nil {
			return err
		}
		if p.Width > 0 || p.Height > 0 {
			c, err := s.Card(p.Card)
			if err != nil {
				return err
			}
			w, h := c.UI.Width, c.UI.Height
			if p.Width > 0 {
				w = p.Width
			}
			if p.Height > 0 {
				h = p.Height
			}
			return s.ResizeCard(p.Card, w, h)
		}
		return nil
	case st.Connect != nil:
		_, err := s.Connect(st.Connect.From.graph(), st.Connect.To.graph())
		return err
	case st.Disconnect != "":
		return s.RemoveConnection(st.Disconnect)
	case st.Sockets != nil:
		return replaceSockets(s, st.Sockets)
	case st.Value != nil:
		return s.UpdateSocketValue(st.Value.Card, st.Value.Socket, st.Value.Value)
	case st.Trigger != "":
		_, err := s.Trigger(st.Trigger)
		return err
	case st.Canvas != "":
		switch st.Canvas {
		case "next":
			sess.Handle(interact.NextCanvas{})
		case "prev":
			sess.Handle(interact.PrevCanvas{})
		case "new":
			s.AddCanvas("")
		default:
			return fmt.Errorf("%w: unknown canvas action %q", ErrScript, st.Canvas)
		}
		return nil
	case st.Down != nil:
		sess.Handle(interact.PointerDown{At: st.Down.geom(), Target: st.Down.Target, Modifier: st.Down.Modifier})
	case st.Drag != nil:
		sess.Handle(interact.PointerMove{At: st.Drag.geom()})
	case st.Up != nil:
		sess.Handle(interact.PointerUp{At: st.Up.geom()})
	case st.Leave:
		sess.Handle(interact.PointerLeave{})
	case st.Grab != nil:
		sess.Handle(interact.DragStart{CardID: st.Grab.Card, SocketID: st.Grab.Socket})
	case st.Key != "":
		sess.Handle(interact.KeyDown{Key: st.Key})
	case st.Zoom != "":
		switch st.Zoom {
		case "in":
			sess.Handle(interact.ZoomIn{})
		case "out":
			sess.Handle(interact.ZoomOut{})
		default:
			return fmt.Errorf("%w: unknown zoom %q", ErrScript, st.Zoom)
		}
	case st.Wheel != nil:
		sess.Handle(interact.Wheel{Delta: st.Wheel.Delta, At: st.Wheel.geom()})
	case st.Frame:
		sess.Frame()
	case st.Center:
		sess.Center()
	case st.Expect != nil:
		return check(sess, st.Expect)
	}
	return nil
}

func (c *CardSpec) card() model.Card {
	card := model.Card{UUID: c.ID, Type: c.Type}
	card.UI.Name = c.Name
	if card.UI.Name == "" {
		card.UI.Name = c.ID
	}
	card.UI.X, card.UI.Y = c.X, c.Y
	card.UI.Width, card.UI.Height = c.Width, c.Height
	if card.UI.Width == 0 {
		card.UI.Width = 300
	}
	if card.UI.Height == 0 {
		card.UI.Height = 150
	}
	card.Data.Fields = c.Fields
	card.Data.Sockets.Inputs = named(c.Inputs)
	card.Data.Sockets.Outputs = named(c.Outputs)
	return card
}

func named(ids []string) []model.Socket {
	out := make([]model.Socket, len(ids))
	for i, id := range ids {
		out[i] = model.Socket{ID: id, Name: id}
	}
	return out
}

func (e Endpoint) graph() graph.Endpoint {
	return graph.Endpoint{CardID: e.Card, SocketID: e.Socket}
}

func replaceSockets(s *graph.Store, spec *SocketSpec) error {
	card, err := s.Card(spec.Card)
	if err != nil {
		return err
	}
	if !spec.Direction.Valid() {
		return fmt.Errorf("%w: unknown direction %q", ErrScript, spec.Direction)
	}
	cur := card.Data.Sockets.List(spec.Direction)
	next := make([]model.Socket, len(spec.List))
	for i, id := range spec.List {
		next[i] = model.Socket{ID: id, Name: id}
		for _, old := range cur {
			if old.ID == id {
				next[i] = old
				break
			}
		}
	}
	_, err = s.ReplaceSockets(spec.Card, spec.Direction, next)
	return err
}

func check(sess *session.Session, e *Expect) error {
	s := sess.Store()
	active := s.Active()
	intEq := func(what string, want *int, got int) error {
		if want != nil && *want != got {
			return fmt.Errorf("expected %d %s, got %d", *want, what, got)
		}
		return nil
	}
	for _, err := range []error{
		intEq("cards", e.Cards, len(active.Cards)),
		intEq("connections", e.Connections, len(active.Connections)),
		intEq("canvases", e.Canvases, s.Len()),
		intEq("as active index", e.Active, s.ActiveIndex()),
		intEq("% zoom", e.Zoom, sess.ZoomPercent()),
		intEq("refreshes", e.Refreshes, sess.Refreshes()),
	} {
		if err != nil {
			return err
		}
	}

	ctl := sess.Controller()
	if e.State != "" && e.State != ctl.State().String() {
		return fmt.Errorf("expected state %s, got %s", e.State, ctl.State())
	}
	if e.Selected != nil {
		got := slices.Clone(ctl.Selection())
		want := slices.Clone(e.Selected)
		slices.Sort(got)
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return fmt.Errorf("expected selection %v, got %v", want, got)
		}
	}

	for _, l := range e.Linked {
		if !linked(active, l) {
			return fmt.Errorf("expected %s.%s linked to %s.%s", l.From.Card, l.From.Socket, l.To.Card, l.To.Socket)
		}
	}

	if e.Sockets != nil {
		card, err := s.Card(e.Sockets.Card)
		if err != nil {
			return err
		}
		var got []string
		for _, so := range card.Data.Sockets.List(e.Sockets.Direction) {
			got = append(got, so.ID)
		}
		if !slices.Equal(got, e.Sockets.List) {
			return fmt.Errorf("expected %s sockets %v, got %v", e.Sockets.Direction, e.Sockets.List, got)
		}
	}

	if e.Value != nil {
		card, err := s.Card(e.Value.Card)
		if err != nil {
			return err
		}
		so, ok := card.Socket(e.Value.Socket)
		if !ok {
			return fmt.Errorf("%w: %s", graph.ErrSocketNotFound, e.Value.Socket)
		}
		if !sameValue(so.Value, e.Value.Value) {
			return fmt.Errorf("expected %s value %v, got %v", e.Value.Socket, e.Value.Value, so.Value)
		}
	}

	if e.Z != nil {
		card, err := s.Card(e.Z.Card)
		if err != nil {
			return err
		}
		if card.UI.ZIndex.String() != e.Z.Tier {
			return fmt.Errorf("expected %s on tier %s, got %s", e.Z.Card, e.Z.Tier, card.UI.ZIndex)
		}
	}

	if problems := s.Check(); len(problems) > 0 {
		return fmt.Errorf("integrity: %s", problems[0])
	}
	return nil
}

func linked(c model.Canvas, l LinkSpec) bool {
	for _, conn := range c.Connections {
		if conn.SourceCardID == l.From.Card && conn.SourceSocketID == l.From.Socket &&
			conn.TargetCardID == l.To.Card && conn.TargetSocketID == l.To.Socket {
			return true
		}
	}
	return false
}

// sameValue compares loosely so an int in the script matches a float that
// went through JSON.
func sameValue(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}
