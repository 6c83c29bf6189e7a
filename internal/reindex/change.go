package reindex

import (
	"fmt"
	"reflect"

	"github.com/msalah0e/cardstudio/internal/model"
)

// Change is the "sockets changed" notification a card editor sends when it
// restructures one of its socket lists itself.
type Change struct {
	CardID           string          `json:"cardId" yaml:"cardId"`
	Direction        model.Direction `json:"type" yaml:"type"`
	OldSockets       []model.Socket  `json:"oldSockets" yaml:"oldSockets"`
	NewSockets       []model.Socket  `json:"newSockets" yaml:"newSockets"`
	ReindexMap       []int           `json:"reindexMap" yaml:"reindexMap"`
	DeletedSocketIDs []string        `json:"deletedSocketIds" yaml:"deletedSocketIds"`
}

// Compute fills in ReindexMap and DeletedSocketIDs from the two lists.
func Compute(cardID string, dir model.Direction, old, new []model.Socket) (Change, error) {
	res, err := Reconcile(old, new, dir)
	if err != nil {
		return Change{}, err
	}
	return Change{
		CardID:           cardID,
		Direction:        dir,
		OldSockets:       model.CopySockets(old),
		NewSockets:       model.CopySockets(new),
		ReindexMap:       res.ReindexMap,
		DeletedSocketIDs: res.DeletedSocketIDs,
	}, nil
}

// Validate checks that the payload describes a consistent migration.
func (c Change) Validate() error {
	if c.CardID == "" {
		return fmt.Errorf("%w: missing card id", ErrInvalidChange)
	}
	if err := CheckList(c.NewSockets, c.Direction); err != nil {
		return err
	}
	if len(c.ReindexMap) != len(c.OldSockets) {
		return fmt.Errorf("%w: reindex map has %d entries for %d old sockets",
			ErrInvalidChange, len(c.ReindexMap), len(c.OldSockets))
	}
	used := make(map[int]bool, len(c.ReindexMap))
	for i, j := range c.ReindexMap {
		if j == Removed {
			continue
		}
		if j < 0 || j >= len(c.NewSockets) {
			return fmt.Errorf("%w: old socket %d maps to out-of-range index %d", ErrInvalidChange, i, j)
		}
		if used[j] {
			return fmt.Errorf("%w: new index %d claimed twice", ErrInvalidChange, j)
		}
		used[j] = true
	}
	oldIDs := make(map[string]bool, len(c.OldSockets))
	for _, s := range c.OldSockets {
		oldIDs[s.ID] = true
	}
	for _, id := range c.DeletedSocketIDs {
		if !oldIDs[id] {
			return fmt.Errorf("%w: deleted socket %s is not in the old list", ErrInvalidChange, id)
		}
	}
	return nil
}

// Deleted returns every old socket id whose connections must be dropped:
// the listed deletions plus any old socket the map sends to Removed. A
// listed deletion wins over a map entry.
func (c Change) Deleted() map[string]bool {
	out := make(map[string]bool, len(c.DeletedSocketIDs))
	for _, id := range c.DeletedSocketIDs {
		out[id] = true
	}
	for i, j := range c.ReindexMap {
		if j == Removed && i < len(c.OldSockets) {
			out[c.OldSockets[i].ID] = true
		}
	}
	return out
}

// Target returns the new socket id that old socket id migrates to.
func (c Change) Target(oldID string) (string, bool) {
	for i, s := range c.OldSockets {
		if s.ID != oldID {
			continue
		}
		j := c.ReindexMap[i]
		if j == Removed {
			return "", false
		}
		return c.NewSockets[j].ID, true
	}
	return "", false
}

// Modification pairs the before and after state of a socket that kept its id.
type Modification struct {
	Old model.Socket
	New model.Socket
}

// Diff classifies socket edits by id: sockets only in new were added, only
// in old were removed, and in both with a different name or value were
// modified. Order follows the lists.
type Diff struct {
	Added    []model.Socket
	Removed  []model.Socket
	Modified []Modification
}

// Empty reports whether nothing changed.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Modified) == 0
}

// DiffSockets joins old and new on socket id.
func DiffSockets(old, new []model.Socket) Diff {
	var d Diff
	oldByID := make(map[string]model.Socket, len(old))
	for _, s := range old {
		oldByID[s.ID] = s
	}
	newIDs := make(map[string]bool, len(new))
	for _, s := range new {
		newIDs[s.ID] = true
		prev, ok := oldByID[s.ID]
		if !ok {
			d.Added = append(d.Added, s)
			continue
		}
		if prev.Name != s.Name || !reflect.DeepEqual(prev.Value, s.Value) {
			d.Modified = append(d.Modified, Modification{Old: prev, New: s})
		}
	}
	for _, s := range old {
		if !newIDs[s.ID] {
			d.Removed = append(d.Removed, s)
		}
	}
	return d
}
