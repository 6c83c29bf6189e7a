package graph

import (
	"fmt"
	"strings"

	"github.com/msalah0e/cardstudio/internal/model"
)

// ShowEdge is one connection seen from a card, with the card on its far end.
type ShowEdge struct {
	Connection model.Connection `json:"connection"`
	Local      model.Socket     `json:"local"`
	Remote     model.Socket     `json:"remote"`
	Card       model.Card       `json:"card"`
}

// ShowResult holds a card with the connections entering and leaving it.
type ShowResult struct {
	Card     model.Card `json:"card"`
	Incoming []ShowEdge `json:"incoming"`
	Outgoing []ShowEdge `json:"outgoing"`
}

// ShowCard collects a card of canvas c with its connections in both
// directions, in connection order.
func ShowCard(c *model.Canvas, cardID string) (*ShowResult, error) {
	i := findCard(c, cardID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, cardID)
	}
	card := c.Cards[i]
	res := &ShowResult{Card: card.Clone()}
	for _, conn := range c.Connections {
		switch {
		case conn.TargetCardID == cardID:
			e := ShowEdge{Connection: conn}
			e.Local, _ = card.SocketIn(model.Input, conn.TargetSocketID)
			if j := findCard(c, conn.SourceCardID); j >= 0 {
				e.Card = c.Cards[j].Clone()
				e.Remote, _ = c.Cards[j].SocketIn(model.Output, conn.SourceSocketID)
			}
			res.Incoming = append(res.Incoming, e)
		case conn.SourceCardID == cardID:
			e := ShowEdge{Connection: conn}
			e.Local, _ = card.SocketIn(model.Output, conn.SourceSocketID)
			if j := findCard(c, conn.TargetCardID); j >= 0 {
				e.Card = c.Cards[j].Clone()
				e.Remote, _ = c.Cards[j].SocketIn(model.Input, conn.TargetSocketID)
			}
			res.Outgoing = append(res.Outgoing, e)
		}
	}
	return res, nil
}

func socketLabel(s model.Socket) string {
	if s.Name != "" {
		return s.Name
	}
	return s.ID
}

func cardLabel(c model.Card) string {
	if c.UI.Name != "" {
		return c.UI.Name
	}
	return c.UUID
}

// RenderCard produces a terminal tree view of a card and its connections.
func RenderCard(c *model.Canvas, cardID string, brandFn, subtleFn, infoFn func(string) string) (string, error) {
	res, err := ShowCard(c, cardID)
	if err != nil {
		return "", err
	}

	var b strings.Builder

	// Incoming connections (above the card)
	for _, e := range res.Incoming {
		fmt.Fprintf(&b, "  ├── %s %s %s\n", brandFn(cardLabel(e.Card)), subtleFn("."+socketLabel(e.Remote)+" ──▶"), subtleFn(socketLabel(e.Local)))
		b.WriteString("  │\n")
	}

	b.WriteString(fmt.Sprintf("  ● %s\n", brandFn(cardLabel(res.Card))))
	b.WriteString(fmt.Sprintf("  │  %s\n", subtleFn(fmt.Sprintf("%s  (%g, %g)  %gx%g", res.Card.Type,
		res.Card.UI.X, res.Card.UI.Y, res.Card.UI.Width, res.Card.UI.Height))))
	for _, s := range res.Card.Data.Sockets.Inputs {
		b.WriteString(fmt.Sprintf("  │  %s %s\n", subtleFn("in "), infoFn(socketLabel(s))))
	}
	for _, s := range res.Card.Data.Sockets.Outputs {
		b.WriteString(fmt.Sprintf("  │  %s %s\n", subtleFn("out"), infoFn(socketLabel(s))))
	}

	// Outgoing connections (below the card)
	if len(res.Outgoing) > 0 {
		b.WriteString("  │\n")
	}
	for i, e := range res.Outgoing {
		prefix := "  ├── "
		if i == len(res.Outgoing)-1 {
			prefix = "  └── "
		}
		fmt.Fprintf(&b, "%s%s %s %s\n", prefix, subtleFn(socketLabel(e.Local)+" ──▶"), brandFn(cardLabel(e.Card)), subtleFn("."+socketLabel(e.Remote)))
	}

	return b.String(), nil
}
