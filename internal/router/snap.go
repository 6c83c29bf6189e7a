package router

import (
	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/model"
)

// Hit is a socket found near a point.
type Hit struct {
	CardID   string
	Socket   model.Socket
	Anchor   geom.Point
	Distance float64
}

// Filter decides whether a socket is a snap candidate at all.
type Filter func(card *model.Card, s model.Socket) bool

// NearestSocket returns the socket whose anchor is closest to p. A
// candidate is disqualified only when its distance exceeds maxDistance; a
// distance exactly equal still qualifies. The best hit is only replaced by
// a strictly closer one, so on exact ties the first candidate in card and
// list order wins.
func (l Layout) NearestSocket(p geom.Point, cards []model.Card, maxDistance float64, keep Filter) (Hit, bool) {
	var best Hit
	found := false
	for ci := range cards {
		card := &cards[ci]
		for _, dir := range []model.Direction{model.Input, model.Output} {
			for _, s := range card.Data.Sockets.List(dir) {
				if keep != nil && !keep(card, s) {
					continue
				}
				a := l.AnchorPoint(card, s)
				d := a.Dist(p)
				if d > maxDistance {
					continue
				}
				if !found || d < best.Distance {
					best = Hit{CardID: card.UUID, Socket: s, Anchor: a, Distance: d}
					found = true
				}
			}
		}
	}
	return best, found
}

// NearestConnection returns the id of the connection whose curve passes
// closest to p, within maxDistance.
func (l Layout) NearestConnection(p geom.Point, conns []model.Connection, maxDistance float64) (string, bool) {
	bestID := ""
	best := 0.0
	for _, c := range conns {
		d := l.Path(c.SourcePoint, c.TargetPoint).Distance(p)
		if d > maxDistance {
			continue
		}
		if bestID == "" || d < best {
			bestID, best = c.ID, d
		}
	}
	return bestID, bestID != ""
}
