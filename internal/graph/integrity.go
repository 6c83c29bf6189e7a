package graph

import (
	"fmt"

	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/reindex"
)

// Problem is one broken invariant found by Check.
type Problem struct {
	CanvasID string `json:"canvas"`
	Subject  string `json:"subject"`
	Detail   string `json:"detail"`
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Subject, p.Detail)
}

// Check scans every canvas for broken invariants: duplicate or malformed
// socket lists and connections whose endpoints do not exist. A store only
// ever mutated through its methods returns nothing.
func (s *Store) Check() []Problem {
	var out []Problem
	for i := range s.canvases {
		out = append(out, CheckCanvas(&s.canvases[i])...)
	}
	return out
}

// CheckCanvas runs the integrity scan over one canvas.
func CheckCanvas(c *model.Canvas) []Problem {
	var out []Problem
	add := func(subject, format string, args ...any) {
		out = append(out, Problem{CanvasID: c.ID, Subject: subject, Detail: fmt.Sprintf(format, args...)})
	}

	cards := make(map[string]int, len(c.Cards))
	for i, card := range c.Cards {
		if _, dup := cards[card.UUID]; dup {
			add("card "+card.UUID, "duplicate card id")
		}
		cards[card.UUID] = i
		for _, dir := range []model.Direction{model.Input, model.Output} {
			if err := reindex.CheckList(card.Data.Sockets.List(dir), dir); err != nil {
				add("card "+card.UUID, "%s sockets: %v", dir, err)
			}
		}
	}

	for _, conn := range c.Connections {
		subject := "connection " + conn.ID
		si, ok := cards[conn.SourceCardID]
		if !ok {
			add(subject, "source card %s missing", conn.SourceCardID)
		} else if _, ok := c.Cards[si].SocketIn(model.Output, conn.SourceSocketID); !ok {
			add(subject, "source socket %s missing", conn.SourceSocketID)
		}
		ti, ok := cards[conn.TargetCardID]
		if !ok {
			add(subject, "target card %s missing", conn.TargetCardID)
		} else if _, ok := c.Cards[ti].SocketIn(model.Input, conn.TargetSocketID); !ok {
			add(subject, "target socket %s missing", conn.TargetSocketID)
		}
	}
	return out
}
