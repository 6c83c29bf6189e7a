// Package router computes where connections attach to cards and the curves
// drawn between them. Everything here works in world space; zoom and scroll
// never enter the computation, so anchors are stable across zoom changes.
package router

import (
	"fmt"
	"math"

	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/model"
)

// Layout describes how sockets are stacked along a card edge.
type Layout struct {
	HeaderHeight  float64
	SocketOffset  float64
	SocketSpacing float64
	// MinHandle is the smallest control-point offset of a connection curve,
	// so short or backwards connections still leave and enter horizontally.
	MinHandle float64
}

// DefaultLayout matches the card chrome the editor renders.
func DefaultLayout() Layout {
	return Layout{HeaderHeight: 40, SocketOffset: 16, SocketSpacing: 28, MinHandle: 50}
}

// AnchorPoint returns the attachment point of socket s on card c. Inputs
// sit on the left edge and outputs on the right, stacked by their position
// in the card's current list. A socket that is not (or no longer) in the
// list falls back to its recorded index.
func (l Layout) AnchorPoint(c *model.Card, s model.Socket) geom.Point {
	pos := s.Index
	for i, cur := range c.Data.Sockets.List(s.Type) {
		if cur.ID == s.ID {
			pos = i
			break
		}
	}
	x := c.UI.X
	if s.Type == model.Output {
		x += c.UI.Width
	}
	return geom.Point{
		X: x,
		Y: c.UI.Y + l.HeaderHeight + l.SocketOffset + float64(pos)*l.SocketSpacing,
	}
}

// Curve is a cubic Bézier from P0 to P1 with control points C1 and C2.
type Curve struct {
	P0, C1, C2, P1 geom.Point
}

// Path returns the curve from an output anchor p0 to an input anchor p1.
// It leaves p0 heading right and enters p1 heading right, so the result
// only depends on the two endpoints.
func (l Layout) Path(p0, p1 geom.Point) Curve {
	h := math.Max(math.Abs(p1.X-p0.X)/2, l.MinHandle)
	return Curve{
		P0: p0,
		C1: geom.Point{X: p0.X + h, Y: p0.Y},
		C2: geom.Point{X: p1.X - h, Y: p1.Y},
		P1: p1,
	}
}

// At evaluates the curve at t in [0,1].
func (c Curve) At(t float64) geom.Point {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return geom.Point{
		X: a*c.P0.X + b*c.C1.X + d*c.C2.X + e*c.P1.X,
		Y: a*c.P0.Y + b*c.C1.Y + d*c.C2.Y + e*c.P1.Y,
	}
}

// SVG renders the curve as an SVG path "d" attribute.
func (c Curve) SVG() string {
	return fmt.Sprintf("M %s C %s, %s, %s", fmtPt(c.P0), fmtPt(c.C1), fmtPt(c.C2), fmtPt(c.P1))
}

func fmtPt(p geom.Point) string {
	return fmt.Sprintf("%g %g", round2(p.X), round2(p.Y))
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

const curveSamples = 32

// Distance approximates the shortest distance from p to the curve by
// flattening it into line segments.
func (c Curve) Distance(p geom.Point) float64 {
	best := math.Inf(1)
	prev := c.P0
	for i := 1; i <= curveSamples; i++ {
		cur := c.At(float64(i) / curveSamples)
		if d := segmentDist(p, prev, cur); d < best {
			best = d
		}
		prev = cur
	}
	return best
}

func segmentDist(p, a, b geom.Point) float64 {
	ab := b.Sub(a)
	l2 := ab.X*ab.X + ab.Y*ab.Y
	if l2 == 0 {
		return p.Dist(a)
	}
	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / l2
	t = math.Max(0, math.Min(1, t))
	return p.Dist(a.Add(ab.Scale(t)))
}
