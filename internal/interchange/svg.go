package interchange

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/router"
)

const svgMargin = 40

// ExportSVG draws a canvas in world space: cards as boxes with their
// sockets and connections as the same curves the editor draws.
func ExportSVG(c model.Canvas, l router.Layout) string {
	minX, minY, maxX, maxY := 0.0, 0.0, 0.0, 0.0
	for i, card := range c.Cards {
		if i == 0 {
			minX, minY = card.UI.X, card.UI.Y
			maxX, maxY = card.UI.X+card.UI.Width, card.UI.Y+card.UI.Height
			continue
		}
		minX = math.Min(minX, card.UI.X)
		minY = math.Min(minY, card.UI.Y)
		maxX = math.Max(maxX, card.UI.X+card.UI.Width)
		maxY = math.Max(maxY, card.UI.Y+card.UI.Height)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		minX-svgMargin, minY-svgMargin, maxX-minX+2*svgMargin, maxY-minY+2*svgMargin)

	for _, conn := range c.Connections {
		fmt.Fprintf(&b, `  <path id=%q d=%q fill="none" stroke="#888" stroke-width="2"/>`+"\n",
			conn.ID, l.Path(conn.SourcePoint, conn.TargetPoint).SVG())
	}

	for _, card := range c.Cards {
		name := card.UI.Name
		if name == "" {
			name = string(card.Type)
		}
		fmt.Fprintf(&b, `  <g id=%q>`+"\n", card.UUID)
		fmt.Fprintf(&b, `    <rect x="%g" y="%g" width="%g" height="%g" rx="8" fill="#fff" stroke="#333"/>`+"\n",
			card.UI.X, card.UI.Y, card.UI.Width, card.UI.Height)
		fmt.Fprintf(&b, `    <text x="%g" y="%g" font-size="14">%s</text>`+"\n",
			card.UI.X+12, card.UI.Y+l.HeaderHeight/2+5, html.EscapeString(name))
		for _, s := range card.Data.Sockets.Inputs {
			writeSocket(&b, l, &card, s)
		}
		for _, s := range card.Data.Sockets.Outputs {
			writeSocket(&b, l, &card, s)
		}
		b.WriteString("  </g>\n")
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func writeSocket(b *strings.Builder, l router.Layout, card *model.Card, s model.Socket) {
	p := l.AnchorPoint(card, s)
	fmt.Fprintf(b, `    <circle cx="%g" cy="%g" r="5" class=%q/>`+"\n", p.X, p.Y, s.Type)
}
