package graph

import (
	"fmt"
	"reflect"

	"github.com/msalah0e/cardstudio/internal/model"
)

// Policy decides which connections are admissible. The structural rules
// always apply; StrictTypes adds a value kind check on top.
type Policy struct {
	// StrictTypes requires both socket values to have the same JSON kind
	// unless either is unset.
	StrictTypes bool
}

// Check returns nil if conn may be added to canvas c, or an error wrapping
// ErrRejected naming the first rule it breaks.
func (p Policy) Check(c *model.Canvas, conn model.Connection) error {
	if conn.SourceCardID == conn.TargetCardID {
		return fmt.Errorf("%w: card %s cannot connect to itself", ErrRejected, conn.SourceCardID)
	}
	src, err := endpointSocket(c, conn.SourceCardID, conn.SourceSocketID)
	if err != nil {
		return err
	}
	dst, err := endpointSocket(c, conn.TargetCardID, conn.TargetSocketID)
	if err != nil {
		return err
	}
	if src.Type == dst.Type {
		return fmt.Errorf("%w: both sockets are %s", ErrRejected, src.Type)
	}
	if src.Type != model.Output {
		return fmt.Errorf("%w: source %s is not an output", ErrRejected, src.ID)
	}
	for _, e := range c.Connections {
		if e.SourceCardID == conn.SourceCardID && e.SourceSocketID == conn.SourceSocketID &&
			e.TargetCardID == conn.TargetCardID && e.TargetSocketID == conn.TargetSocketID {
			return fmt.Errorf("%w: %s -> %s already connected", ErrRejected, src.ID, dst.ID)
		}
	}
	if p.StrictTypes && !Compatible(src.Value, dst.Value) {
		return fmt.Errorf("%w: %s value does not fit %s value", ErrRejected, Kind(src.Value), Kind(dst.Value))
	}
	return nil
}

func endpointSocket(c *model.Canvas, cardID, socketID string) (model.Socket, error) {
	i := findCard(c, cardID)
	if i < 0 {
		return model.Socket{}, fmt.Errorf("%w: %w: %s", ErrRejected, ErrCardNotFound, cardID)
	}
	s, ok := c.Cards[i].Socket(socketID)
	if !ok {
		return model.Socket{}, fmt.Errorf("%w: %w: %s on card %s", ErrRejected, ErrSocketNotFound, socketID, cardID)
	}
	return s, nil
}

// Compatible reports whether two socket values may be joined under strict
// typing.
func Compatible(a, b any) bool {
	if a == nil || b == nil {
		return true
	}
	return Kind(a) == Kind(b)
}

// Kind classifies a value the way JSON would: "null", "bool", "number",
// "string", "array" or "object".
func Kind(v any) string {
	if v == nil {
		return "null"
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return "bool"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.String:
		return "string"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	case reflect.Pointer, reflect.Interface:
		rv := reflect.ValueOf(v)
		if rv.IsNil() {
			return "null"
		}
		return Kind(rv.Elem().Interface())
	default:
		return "object"
	}
}
