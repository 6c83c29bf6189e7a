// Package reindex reconciles a card's socket list across a structural edit.
//
// A structural edit may regenerate socket objects (and their ids) for slots
// that logically survive, so correspondence is not purely by id. Reconcile
// first joins old and new sockets on id; any old socket left over falls back
// to its position, claiming the new socket at the same index when no id match
// already took that slot. Whatever is still unmatched has been deleted.
package reindex

import (
	"errors"
	"fmt"

	"github.com/msalah0e/cardstudio/internal/model"
)

// Removed marks an old socket with no counterpart in the new list.
const Removed = -1

var (
	// ErrInvalidSockets is returned for a malformed new socket list.
	ErrInvalidSockets = errors.New("invalid socket list")
	// ErrInvalidChange is returned when an externally computed change
	// payload does not describe a consistent migration.
	ErrInvalidChange = errors.New("invalid socket change")
)

// Result is the migration from one socket list to the next.
type Result struct {
	// ReindexMap[i] is the new index of old[i], or Removed.
	ReindexMap []int
	// DeletedSocketIDs lists the ids of old sockets mapped to Removed, in
	// old order.
	DeletedSocketIDs []string
}

// Reconcile computes the migration from old to new for one direction.
// The new list must have unique, non-empty ids and, where a type is set, it
// must match dir. The old list is trusted to be the current valid state.
func Reconcile(old, new []model.Socket, dir model.Direction) (Result, error) {
	if err := CheckList(new, dir); err != nil {
		return Result{}, err
	}

	newIdx := make(map[string]int, len(new))
	for j, s := range new {
		newIdx[s.ID] = j
	}

	m := make([]int, len(old))
	claimed := make([]bool, len(new))
	var pending []int
	for i, s := range old {
		if j, ok := newIdx[s.ID]; ok {
			m[i] = j
			claimed[j] = true
			continue
		}
		pending = append(pending, i)
	}

	for _, i := range pending {
		if i < len(new) && !claimed[i] {
			m[i] = i
			claimed[i] = true
			continue
		}
		m[i] = Removed
	}

	res := Result{ReindexMap: m, DeletedSocketIDs: []string{}}
	for i, j := range m {
		if j == Removed {
			res.DeletedSocketIDs = append(res.DeletedSocketIDs, old[i].ID)
		}
	}
	return res, nil
}

// CheckList validates a socket list for one direction.
func CheckList(list []model.Socket, dir model.Direction) error {
	if !dir.Valid() {
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidSockets, dir)
	}
	seen := make(map[string]bool, len(list))
	for i, s := range list {
		if s.ID == "" {
			return fmt.Errorf("%w: socket %d has no id", ErrInvalidSockets, i)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate socket id %s", ErrInvalidSockets, s.ID)
		}
		seen[s.ID] = true
		if s.Type != "" && s.Type != dir {
			return fmt.Errorf("%w: socket %s is %s, list is %s", ErrInvalidSockets, s.ID, s.Type, dir)
		}
	}
	return nil
}

// Normalize returns a copy of list with Type set to dir and Index set to
// each socket's position.
func Normalize(list []model.Socket, dir model.Direction) []model.Socket {
	out := model.CopySockets(list)
	for i := range out {
		out[i].Type = dir
		out[i].Index = i
	}
	return out
}
