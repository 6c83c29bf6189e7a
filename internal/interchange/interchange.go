package interchange

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/msalah0e/cardstudio/internal/graph"
	"github.com/msalah0e/cardstudio/internal/model"
	"github.com/msalah0e/cardstudio/internal/reindex"
)

// ErrFormat is returned for a document that cannot be read at all.
var ErrFormat = errors.New("invalid document")

var validate = validator.New()

// Export writes every canvas of the store as an indented JSON document.
func Export(s *graph.Store) ([]byte, error) {
	canvases := s.Canvases()
	doc := Document{
		Version:     Version,
		ActiveIndex: s.ActiveIndex(),
		Canvases:    make([]CanvasDoc, len(canvases)),
	}
	for i, c := range canvases {
		doc.Canvases[i] = fromCanvas(c)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// Options tunes an import.
type Options struct {
	// Policy decides which connections are kept. The zero value applies the
	// structural rules only.
	Policy graph.Policy
	Logger *zap.Logger
}

// Report counts what an import kept and dropped.
type Report struct {
	Canvases           int      `json:"canvases"`
	Cards              int      `json:"cards"`
	Connections        int      `json:"connections"`
	DroppedCards       int      `json:"droppedCards"`
	DroppedConnections int      `json:"droppedConnections"`
	Problems           []string `json:"problems,omitempty"`
}

// Clean reports whether nothing was dropped.
func (r Report) Clean() bool {
	return r.DroppedCards == 0 && r.DroppedConnections == 0
}

func (r *Report) drop(log *zap.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Problems = append(r.Problems, msg)
	log.Debug("import entry dropped", zap.String("reason", msg))
}

// Decode parses and repairs a document. Entries that fail validation and
// connections whose endpoints are missing or not admissible are dropped and
// counted. Only a document that is unreadable as a whole returns an error.
func Decode(data []byte, opts Options) ([]model.Canvas, int, Report, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	var rep Report

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, rep, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, 0, rep, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if doc.Version > Version {
		return nil, 0, rep, fmt.Errorf("%w: version %d is newer than %d", ErrFormat, doc.Version, Version)
	}

	canvases := make([]model.Canvas, 0, len(doc.Canvases))
	seen := make(map[string]bool)
	for _, cd := range doc.Canvases {
		c := decodeCanvas(cd, opts.Policy, &rep, log)
		if c.ID == "" || seen[c.ID] {
			c.ID = uuid.NewString()
		}
		seen[c.ID] = true
		canvases = append(canvases, c)
	}

	active := doc.ActiveIndex
	if active >= len(canvases) {
		active = 0
	}
	rep.Canvases = len(canvases)
	return canvases, active, rep, nil
}

func decodeCanvas(cd CanvasDoc, policy graph.Policy, rep *Report, log *zap.Logger) model.Canvas {
	c := model.Canvas{
		ID:          cd.ID,
		Name:        cd.Name,
		Cards:       make([]model.Card, 0, len(cd.Cards)),
		Connections: make([]model.Connection, 0, len(cd.Connections)),
	}

	ids := make(map[string]bool)
	for _, entry := range cd.Cards {
		if err := validate.Struct(entry); err != nil {
			rep.DroppedCards++
			rep.drop(log, "card %q: %v", entry.UUID, err)
			continue
		}
		if ids[entry.UUID] {
			rep.DroppedCards++
			rep.drop(log, "card %q: duplicate id", entry.UUID)
			continue
		}
		card := entry.card()
		if err := checkSockets(card); err != nil {
			rep.DroppedCards++
			rep.drop(log, "card %q: %v", entry.UUID, err)
			continue
		}
		card.Data.Sockets.Inputs = reindex.Normalize(card.Data.Sockets.Inputs, model.Input)
		card.Data.Sockets.Outputs = reindex.Normalize(card.Data.Sockets.Outputs, model.Output)
		if card.UI.ZIndex == 0 {
			card.UI.ZIndex = model.ZDefault
		}
		ids[card.UUID] = true
		c.Cards = append(c.Cards, card)
	}
	rep.Cards += len(c.Cards)

	connIDs := make(map[string]bool)
	for _, entry := range cd.Connections {
		if err := validate.Struct(entry); err != nil {
			rep.DroppedConnections++
			rep.drop(log, "connection %q: %v", entry.ID, err)
			continue
		}
		if entry.ID != "" && connIDs[entry.ID] {
			rep.DroppedConnections++
			rep.drop(log, "connection %q: duplicate id", entry.ID)
			continue
		}
		conn := model.Connection(entry)
		if err := policy.Check(&c, conn); err != nil {
			rep.DroppedConnections++
			rep.drop(log, "connection %q: %v", entry.ID, err)
			continue
		}
		if conn.ID == "" {
			conn.ID = uuid.NewString()
		}
		connIDs[conn.ID] = true
		c.Connections = append(c.Connections, conn)
	}
	rep.Connections += len(c.Connections)
	return c
}

func checkSockets(card model.Card) error {
	seen := make(map[string]bool)
	for _, dir := range []model.Direction{model.Input, model.Output} {
		list := card.Data.Sockets.List(dir)
		if err := reindex.CheckList(list, dir); err != nil {
			return fmt.Errorf("%s sockets: %w", dir, err)
		}
		for _, s := range list {
			if seen[s.ID] {
				return fmt.Errorf("socket %s used in both directions", s.ID)
			}
			seen[s.ID] = true
		}
	}
	return nil
}

// Import decodes data and replaces the store's canvases with the result.
// On error the store is left as it was.
func Import(s *graph.Store, data []byte, opts Options) (Report, error) {
	canvases, active, rep, err := Decode(data, opts)
	if err != nil {
		return rep, err
	}
	if err := s.Replace(canvases, active); err != nil {
		return rep, err
	}
	return rep, nil
}
