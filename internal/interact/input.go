package interact

import "github.com/msalah0e/cardstudio/internal/geom"

// Input is one pointer, keyboard or toolbar event. Points are in screen
// coordinates relative to the canvas container.
type Input interface {
	input()
}

// TargetKind says what a pointer-down landed on.
type TargetKind string

const (
	// TargetAuto asks the controller to hit-test the point itself.
	TargetAuto       TargetKind = ""
	TargetBackground TargetKind = "background"
	TargetCard       TargetKind = "card"
	TargetConnection TargetKind = "connection"
)

// Target is the thing under the pointer.
type Target struct {
	Kind         TargetKind `yaml:"kind"`
	CardID       string     `yaml:"card"`
	ConnectionID string     `yaml:"connection"`
}

type (
	// PointerDown presses the primary button. Modifier is the multi-select
	// key (shift or ctrl).
	PointerDown struct {
		At       geom.Point
		Target   Target
		Modifier bool
	}
	PointerMove  struct{ At geom.Point }
	PointerUp    struct{ At geom.Point }
	PointerLeave struct{}
	// DragStart begins drawing a connection from a socket.
	DragStart struct {
		CardID   string
		SocketID string
	}
	KeyDown struct {
		Key         string
		InTextField bool
	}
	ZoomIn  struct{}
	ZoomOut struct{}
	// Wheel zooms around At: negative Delta zooms in.
	Wheel struct {
		Delta float64
		At    geom.Point
	}
	PrevCanvas struct{}
	NextCanvas struct{}
)

func (PointerDown) input()  {}
func (PointerMove) input()  {}
func (PointerUp) input()    {}
func (PointerLeave) input() {}
func (DragStart) input()    {}
func (KeyDown) input()      {}
func (ZoomIn) input()       {}
func (ZoomOut) input()      {}
func (Wheel) input()        {}
func (PrevCanvas) input()   {}
func (NextCanvas) input()   {}
