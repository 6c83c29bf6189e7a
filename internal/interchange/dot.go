package interchange

import (
	"fmt"
	"strings"

	"github.com/msalah0e/cardstudio/internal/model"
)

// ExportDOT returns a canvas in Graphviz DOT format. Cards become record
// nodes with one port per socket so edges attach to the right slot.
func ExportDOT(c model.Canvas) string {
	var b strings.Builder
	b.WriteString("digraph cardstudio {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=record, style=rounded];\n")
	if c.Name != "" {
		b.WriteString(fmt.Sprintf("  label=%q;\n", c.Name))
	}
	b.WriteString("\n")

	for _, card := range c.Cards {
		b.WriteString(fmt.Sprintf("  %q [label=%q];\n", card.UUID, recordLabel(card)))
	}

	b.WriteString("\n")
	for _, conn := range c.Connections {
		b.WriteString(fmt.Sprintf("  %q:%q -> %q:%q;\n",
			conn.SourceCardID, conn.SourceSocketID, conn.TargetCardID, conn.TargetSocketID))
	}

	b.WriteString("}\n")
	return b.String()
}

func recordLabel(card model.Card) string {
	name := card.UI.Name
	if name == "" {
		name = string(card.Type)
	}
	return fmt.Sprintf("{%s}|%s (%s)|{%s}",
		ports(card.Data.Sockets.Inputs), escapeRecord(name), escapeRecord(string(card.Type)),
		ports(card.Data.Sockets.Outputs))
}

func ports(list []model.Socket) string {
	parts := make([]string, len(list))
	for i, s := range list {
		parts[i] = fmt.Sprintf("<%s> %s", s.ID, escapeRecord(s.Name))
	}
	return strings.Join(parts, "|")
}

var recordEscaper = strings.NewReplacer(
	`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`,
)

func escapeRecord(s string) string { return recordEscaper.Replace(s) }
