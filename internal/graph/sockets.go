package graph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/reindex"
)

// ReplaceSockets swaps one socket list of a card for next, computing the
// migration itself. Connections on deleted sockets are dropped and the rest
// follow their socket to its new position. The applied change is returned.
func (s *Store) ReplaceSockets(cardID string, dir model.Direction, next []model.Socket) (reindex.Change, error) {
	card, err := s.card(cardID)
	if err != nil {
		return reindex.Change{}, err
	}
	ch, err := reindex.Compute(cardID, dir, card.Data.Sockets.List(dir), next)
	if err != nil {
		return reindex.Change{}, fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}
	s.applyChange(ch)
	return ch, nil
}

// ApplySocketChange applies a migration computed by a card editor. The
// payload is validated first and its old list must match what the store
// holds; a stale or malformed payload is rejected with no change.
func (s *Store) ApplySocketChange(ch reindex.Change) error {
	if err := ch.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEdit, err)
	}
	card, err := s.card(ch.CardID)
	if err != nil {
		return err
	}
	cur := card.Data.Sockets.List(ch.Direction)
	if len(cur) != len(ch.OldSockets) {
		return fmt.Errorf("%w: card %s has %d %s sockets, change expects %d",
			ErrInvalidEdit, ch.CardID, len(cur), ch.Direction, len(ch.OldSockets))
	}
	for i := range cur {
		if cur[i].ID != ch.OldSockets[i].ID {
			return fmt.Errorf("%w: card %s %s socket %d is %s, change expects %s",
				ErrInvalidEdit, ch.CardID, ch.Direction, i, cur[i].ID, ch.OldSockets[i].ID)
		}
	}
	s.applyChange(ch)
	return nil
}

// applyChange runs the migration as one edit: drop connections on deleted
// sockets, rewrite surviving endpoints, replace the list, recompute
// geometry, then notify. The change must already be valid.
func (s *Store) applyChange(ch reindex.Change) {
	c := s.cur()
	deleted := ch.Deleted()

	var dropped, moved []string
	kept := make([]model.Connection, 0, len(c.Connections))
	for _, conn := range c.Connections {
		cardID, socketID := conn.Endpoint(ch.Direction)
		if cardID != ch.CardID {
			kept = append(kept, conn)
			continue
		}
		if deleted[socketID] {
			dropped = append(dropped, conn.ID)
			continue
		}
		target, ok := ch.Target(socketID)
		if !ok {
			// Endpoint was not in the old list; it was already dangling.
			dropped = append(dropped, conn.ID)
			continue
		}
		if target != socketID {
			if ch.Direction == model.Output {
				conn.SourceSocketID = target
			} else {
				conn.TargetSocketID = target
			}
			moved = append(moved, conn.ID)
		}
		kept = append(kept, conn)
	}

	card := &c.Cards[findCard(c, ch.CardID)]
	setList(card, ch.Direction, reindex.Normalize(ch.NewSockets, ch.Direction))
	c.Connections = removeDuplicateEdges(kept, &dropped)
	s.recompute(c, ch.CardID)

	s.log.Debug("sockets reconciled",
		zap.String("card", ch.CardID),
		zap.String("direction", string(ch.Direction)),
		zap.Ints("reindex", ch.ReindexMap),
		zap.Strings("deleted", ch.DeletedSocketIDs),
		zap.Int("dropped", len(dropped)),
		zap.Int("moved", len(moved)))
	s.notify(Event{
		Kind:           SocketsChanged,
		CardID:         ch.CardID,
		Direction:      ch.Direction,
		Connections:    append(dropped, moved...),
		DeletedSockets: sortedKeys(deleted),
	})
}

// removeDuplicateEdges keeps the first of any connections that a rewrite
// left joining the same pair of sockets.
func removeDuplicateEdges(conns []model.Connection, dropped *[]string) []model.Connection {
	type key struct{ sc, ss, tc, ts string }
	seen := make(map[key]bool, len(conns))
	out := conns[:0]
	for _, conn := range conns {
		k := key{conn.SourceCardID, conn.SourceSocketID, conn.TargetCardID, conn.TargetSocketID}
		if seen[k] {
			*dropped = append(*dropped, conn.ID)
			continue
		}
		seen[k] = true
		out = append(out, conn)
	}
	return out
}
