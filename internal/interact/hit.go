package interact

import (
	"github.com/msalah0e/cardstudio/internal/geom"
	"github.com/msalah0e/cardstudio/internal/model"
)

// HitTest finds what lies under a screen point: the topmost card, else a
// connection within the select distance, else the background. Among cards
// a higher tier wins, and on equal tiers the later card is drawn on top.
func (c *Controller) HitTest(at geom.Point) Target {
	w := c.vp.ScreenToWorld(at)
	cv := c.g.Active()

	best := -1
	for i, card := range cv.Cards {
		if !inside(card, w) {
			continue
		}
		if best < 0 || card.UI.ZIndex >= cv.Cards[best].UI.ZIndex {
			best = i
		}
	}
	if best >= 0 {
		return Target{Kind: TargetCard, CardID: cv.Cards[best].UUID}
	}

	if id, ok := c.layout.NearestConnection(w, cv.Connections, c.selectDistance/c.vp.Zoom); ok {
		return Target{Kind: TargetConnection, ConnectionID: id}
	}
	return Target{Kind: TargetBackground}
}

func inside(card model.Card, p geom.Point) bool {
	return p.X >= card.UI.X && p.X <= card.UI.X+card.UI.Width &&
		p.Y >= card.UI.Y && p.Y <= card.UI.Y+card.UI.Height
}
