// Package script replays YAML event scripts through a session. A script is
// a list of steps, each either a graph edit, an input event for the
// interaction controller, or an expectation about the resulting state.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/interact"
	"github.com/msalah0e/cardstudio/internal/model"
)

// ErrScript is returned for a script that cannot be parsed or has a
// malformed step.
var ErrScript = errors.New("invalid script")

// Script is a named list of steps.
type Script struct {
	Name  string `yaml:"name"`
	View  *Size  `yaml:"view,omitempty"`
	Steps []Step `yaml:"steps"`
}

// Size is a view size in screen pixels.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// Point is a screen or world position.
type Point struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (p Point) geom() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// Step holds exactly one action.
type Step struct {
	// Graph edits.
	Add        *CardSpec   `yaml:"add,omitempty"`
	Remove     string      `yaml:"remove,omitempty"`
	Place      *PlaceSpec  `yaml:"place,omitempty"`
	Connect    *LinkSpec   `yaml:"connect,omitempty"`
	Disconnect string      `yaml:"disconnect,omitempty"`
	Sockets    *SocketSpec `yaml:"sockets,omitempty"`
	Value      *ValueSpec  `yaml:"value,omitempty"`
	Trigger    string      `yaml:"trigger,omitempty"`
	Canvas     string      `yaml:"canvas,omitempty"` // next, prev, new

	// Input events.
	Down  *PointerSpec `yaml:"down,omitempty"`
	Drag  *Point       `yaml:"drag,omitempty"`
	Up    *Point       `yaml:"up,omitempty"`
	Leave bool         `yaml:"leave,omitempty"`
	Grab  *Endpoint    `yaml:"grab,omitempty"`
	Key   string       `yaml:"key,omitempty"`
	Zoom  string       `yaml:"zoom,omitempty"` // in, out
	Wheel *WheelSpec   `yaml:"wheel,omitempty"`

	// Session hooks.
	Frame  bool `yaml:"frame,omitempty"`
	Center bool `yaml:"center,omitempty"`

	Expect *Expect `yaml:"expect,omitempty"`
}

// CardSpec describes a card to add. Socket entries are ids; the name
// defaults to the id.
type CardSpec struct {
	ID      string         `yaml:"id"`
	Type    model.CardType `yaml:"type"`
	Name    string         `yaml:"name,omitempty"`
	X       float64        `yaml:"x"`
	Y       float64        `yaml:"y"`
	Width   float64        `yaml:"width,omitempty"`
	Height  float64        `yaml:"height,omitempty"`
	Inputs  []string       `yaml:"inputs,omitempty"`
	Outputs []string       `yaml:"outputs,omitempty"`
	Fields  map[string]any `yaml:"fields,omitempty"`
}

// PlaceSpec moves and optionally resizes a card.
type PlaceSpec struct {
	Card   string  `yaml:"card"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// Endpoint names a socket on a card.
type Endpoint struct {
	Card   string `yaml:"card"`
	Socket string `yaml:"socket"`
}

// LinkSpec is a connection between two sockets. Either may be the output.
type LinkSpec struct {
	From Endpoint `yaml:"from"`
	To   Endpoint `yaml:"to"`
}

// SocketSpec replaces one socket list. Ids already on the card keep their
// socket; new ids create a socket named after the id.
type SocketSpec struct {
	Card      string          `yaml:"card"`
	Direction model.Direction `yaml:"direction"`
	List      []string        `yaml:"list"`
}

// ValueSpec sets a socket value.
type ValueSpec struct {
	Card   string `yaml:"card"`
	Socket string `yaml:"socket"`
	Value  any    `yaml:"value"`
}

// PointerSpec is a pointer press.
type PointerSpec struct {
	Point    `yaml:",inline"`
	Target   interact.Target `yaml:"target,omitempty"`
	Modifier bool            `yaml:"modifier,omitempty"`
}

// WheelSpec is a wheel turn at a point.
type WheelSpec struct {
	Point `yaml:",inline"`
	Delta float64 `yaml:"delta"`
}

// Parse reads a script from YAML. Unknown keys are an error.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScript, err)
	}
	for i, st := range s.Steps {
		if n := st.actions(); n != 1 {
			return nil, fmt.Errorf("%w: step %d has %d actions, want 1", ErrScript, i+1, n)
		}
	}
	return &s, nil
}

// Load reads a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (st Step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Add != nil, st.Remove != "", st.Place != nil, st.Connect != nil,
		st.Disconnect != "", st.Sockets != nil, st.Value != nil, st.Trigger != "",
		st.Canvas != "", st.Down != nil, st.Drag != nil, st.Up != nil, st.Leave,
		st.Grab != nil, st.Key != "", st.Zoom != "", st.Wheel != nil,
		st.Frame, st.Center, st.Expect != nil,
	} {
		if set {
			n++
		}
	}
	return n
}
