package graph

import (
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/reindex"
)

func findCard(c *model.Canvas, id string) int {
	for i := range c.Cards {
		if c.Cards[i].UUID == id {
			return i
		}
	}
	return -1
}

func (s *Store) card(id string) (*model.Card, error) {
	c := s.cur()
	i := findCard(c, id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return &c.Cards[i], nil
}

// Card returns a copy of a card on the active canvas.
func (s *Store) Card(id string) (model.Card, error) {
	card, err := s.card(id)
	if err != nil {
		return model.Card{}, err
	}
	return card.Clone(), nil
}

// Cards returns copies of every card on the active canvas.
func (s *Store) Cards() []model.Card {
	return s.Active().Cards
}

// prepareCard fills ids, tier and socket indexes, and checks the socket
// lists. It works on a copy.
func prepareCard(in model.Card) (model.Card, error) {
	card := in.Clone()
	if card.UUID == "" {
		card.UUID = uuid.NewString()
	}
	if card.UI.Width <= 0 || card.UI.Height <= 0 {
		return model.Card{}, fmt.Errorf("%w: card %s has size %gx%g", ErrInvalidEdit, card.UUID, card.UI.Width, card.UI.Height)
	}
	if card.UI.ZIndex == 0 {
		card.UI.ZIndex = model.ZDefault
	}
	for _, dir := range []model.Direction{model.Input, model.Output} {
		list := card.Data.Sockets.List(dir)
		for i := range list {
			if list[i].ID == "" {
				list[i].ID = uuid.NewString()
			}
		}
		if err := reindex.CheckList(list, dir); err != nil {
			return model.Card{}, fmt.Errorf("%w: card %s: %w", ErrInvalidEdit, card.UUID, err)
		}
		setList(&card, dir, reindex.Normalize(list, dir))
	}
	return card, nil
}

func setList(card *model.Card, dir model.Direction, list []model.Socket) {
	if dir == model.Input {
		card.Data.Sockets.Inputs = list
	} else {
		card.Data.Sockets.Outputs = list
	}
}

// AddCard places a card on the active canvas and returns its id. Missing
// card and socket ids are generated.
func (s *Store) AddCard(in model.Card) (string, error) {
	card, err := prepareCard(in)
	if err != nil {
		return "", err
	}
	c := s.cur()
	if findCard(c, card.UUID) >= 0 {
		return "", fmt.Errorf("%w: card %s already exists", ErrInvalidEdit, card.UUID)
	}
	c.Cards = append(c.Cards, card)
	s.log.Debug("card added", zap.String("card", card.UUID), zap.String("type", string(card.Type)))
	s.notify(Event{Kind: CardAdded, CardID: card.UUID})
	return card.UUID, nil
}

// UpdateCard replaces a card's presentation and type-specific fields.
// Socket lists are left alone; they change only through ReplaceSockets or
// ApplySocketChange.
func (s *Store) UpdateCard(in model.Card) error {
	card, err := s.card(in.UUID)
	if err != nil {
		return err
	}
	if in.UI.Width <= 0 || in.UI.Height <= 0 {
		return fmt.Errorf("%w: card %s has size %gx%g", ErrInvalidEdit, in.UUID, in.UI.Width, in.UI.Height)
	}
	ui := in.UI
	if ui.ZIndex == 0 {
		ui.ZIndex = card.UI.ZIndex
	}
	card.UI = ui
	card.Data.Fields = in.Clone().Data.Fields
	s.recompute(s.cur(), card.UUID)
	s.notify(Event{Kind: CardUpdated, CardID: card.UUID})
	return nil
}

// MoveCard sets a card's world position.
func (s *Store) MoveCard(id string, x, y float64) error {
	card, err := s.card(id)
	if err != nil {
		return err
	}
	card.UI.X, card.UI.Y = x, y
	s.recompute(s.cur(), id)
	s.notify(Event{Kind: CardUpdated, CardID: id})
	return nil
}

// ResizeCard sets a card's size.
func (s *Store) ResizeCard(id string, w, h float64) error {
	card, err := s.card(id)
	if err != nil {
		return err
	}
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: size %gx%g", ErrInvalidEdit, w, h)
	}
	card.UI.Width, card.UI.Height = w, h
	s.recompute(s.cur(), id)
	s.notify(Event{Kind: CardUpdated, CardID: id})
	return nil
}

// SetZ puts a card on a stacking tier.
func (s *Store) SetZ(id string, z model.ZTier) error {
	card, err := s.card(id)
	if err != nil {
		return err
	}
	if card.UI.ZIndex == z {
		return nil
	}
	card.UI.ZIndex = z
	s.notify(Event{Kind: CardUpdated, CardID: id})
	return nil
}

// RemoveCard deletes a card and every connection touching it.
func (s *Store) RemoveCard(id string) error {
	c := s.cur()
	i := findCard(c, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}

	// Cascade: remove all connections involving this card
	var dropped []string
	kept := make([]model.Connection, 0, len(c.Connections))
	for _, conn := range c.Connections {
		if conn.Touches(id) {
			dropped = append(dropped, conn.ID)
			continue
		}
		kept = append(kept, conn)
	}
	c.Connections = kept
	c.Cards = append(c.Cards[:i], c.Cards[i+1:]...)

	s.log.Debug("card removed", zap.String("card", id), zap.Int("connections", len(dropped)))
	s.notify(Event{Kind: CardRemoved, CardID: id, Connections: dropped})
	return nil
}

// UpdateSocketValue sets the value of one socket. It is not a structural
// edit, so connections are untouched.
func (s *Store) UpdateSocketValue(cardID, socketID string, value any) error {
	card, err := s.card(cardID)
	if err != nil {
		return err
	}
	for _, dir := range []model.Direction{model.Input, model.Output} {
		list := card.Data.Sockets.List(dir)
		for i := range list {
			if list[i].ID == socketID {
				list[i].Value = value
				s.notify(Event{Kind: SocketValue, CardID: cardID, Direction: dir})
				return nil
			}
		}
	}
	return fmt.Errorf("%w: %s on card %s", ErrSocketNotFound, socketID, cardID)
}
