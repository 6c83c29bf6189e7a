// Package geom maps between world space and viewport space.
//
// The canvas is a fixed square plane of PlaneSize units with the world
// origin at its centre, so card coordinates may be negative. A viewport
// point is obtained by scaling the plane by the zoom factor and subtracting
// the scroll offset. Zoom and scroll are independent: panning only ever
// touches the scroll offset.
package geom

import "math"

// Point is a 2D coordinate. Whether it lives in world or viewport space is
// up to the caller.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Bounds holds the session-wide limits shared by the viewport and the
// container sizing.
type Bounds struct {
	MinZoom   float64
	MaxZoom   float64
	Step      float64
	PlaneSize float64
}

// DefaultBounds mirrors the values the editor shipped with.
func DefaultBounds() Bounds {
	return Bounds{MinZoom: 0.2, MaxZoom: 2.0, Step: 0.1, PlaneSize: 8000}
}

// Origin is the plane coordinate of world (0,0).
func (b Bounds) Origin() float64 { return b.PlaneSize / 2 }

// Clamp limits z to [MinZoom, MaxZoom]. Non-positive or NaN values fall back
// to MinZoom.
func (b Bounds) Clamp(z float64) float64 {
	if math.IsNaN(z) || z < b.MinZoom {
		return b.MinZoom
	}
	if z > b.MaxZoom {
		return b.MaxZoom
	}
	return z
}

// Viewport is the pan/zoom state of one session.
type Viewport struct {
	ScrollX float64
	ScrollY float64
	Zoom    float64

	bounds Bounds
}

// NewViewport returns a viewport at the given zoom (clamped) with zero scroll.
func NewViewport(b Bounds, zoom float64) *Viewport {
	return &Viewport{Zoom: b.Clamp(zoom), bounds: b}
}

// Bounds returns the limits this viewport was created with.
func (v *Viewport) Bounds() Bounds { return v.bounds }

// WorldToScreen projects a world point into viewport space.
func (v *Viewport) WorldToScreen(w Point) Point {
	o := v.bounds.Origin()
	return Point{
		X: (w.X+o)*v.Zoom - v.ScrollX,
		Y: (w.Y+o)*v.Zoom - v.ScrollY,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v *Viewport) ScreenToWorld(s Point) Point {
	o := v.bounds.Origin()
	return Point{
		X: (s.X+v.ScrollX)/v.Zoom - o,
		Y: (s.Y+v.ScrollY)/v.Zoom - o,
	}
}

// SetZoom changes the zoom factor while keeping the world point under focal
// visually stationary. It reports whether the zoom actually changed.
func (v *Viewport) SetZoom(z float64, focal Point) bool {
	z = v.bounds.Clamp(z)
	if z == v.Zoom {
		return false
	}
	anchor := v.ScreenToWorld(focal)
	v.Zoom = z
	o := v.bounds.Origin()
	v.ScrollX = (anchor.X+o)*z - focal.X
	v.ScrollY = (anchor.Y+o)*z - focal.Y
	return true
}

// ZoomIn steps the zoom up by one configured step.
func (v *Viewport) ZoomIn(focal Point) bool {
	return v.SetZoom(roundZoom(v.Zoom+v.bounds.Step), focal)
}

// ZoomOut steps the zoom down by one configured step.
func (v *Viewport) ZoomOut(focal Point) bool {
	return v.SetZoom(roundZoom(v.Zoom-v.bounds.Step), focal)
}

// PanBy moves the scroll offset by the raw device delta. Dragging right
// reveals content on the left, so the offset moves against the pointer.
func (v *Viewport) PanBy(dx, dy float64) {
	v.ScrollX -= dx
	v.ScrollY -= dy
}

// Center scrolls so that world (0,0) sits in the middle of a view of the
// given size.
func (v *Viewport) Center(viewW, viewH float64) {
	o := v.bounds.Origin()
	v.ScrollX = o*v.Zoom - viewW/2
	v.ScrollY = o*v.Zoom - viewH/2
}

// ZoomPercent is the zoom factor as a rounded percentage.
func (v *Viewport) ZoomPercent() int {
	return int(math.Round(v.Zoom * 100))
}

// PlaneExtent is the on-screen size of the whole plane at the current zoom.
// It never drops below PlaneSize so the scroll container stays scrollable.
func (v *Viewport) PlaneExtent() float64 {
	return math.Max(v.bounds.PlaneSize*v.Zoom, v.bounds.PlaneSize)
}

// roundZoom keeps repeated additive steps from drifting (0.1+0.2 != 0.3).
func roundZoom(z float64) float64 {
	return math.Round(z*1000) / 1000
}
