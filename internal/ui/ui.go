package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiMagenta, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

const Mark = "\u25C6" // ◆

// Out is where the helpers below print.
var Out io.Writer = os.Stdout

// SetColor turns colored output on or off for the whole process.
func SetColor(on bool) {
	color.NoColor = !on
}

// Banner prints the cardstudio banner.
func Banner(subtitle string) {
	fmt.Fprintf(Out, "%s %s · %s\n\n", Brand.Sprint(Mark), Brand.Sprint("cardstudio"), subtitle)
}

// KV prints one aligned label/value line.
func KV(label string, value any) {
	fmt.Fprintf(Out, "  %s  %v\n", Brand.Sprintf("%-16s", label), value)
}

// Table prints a simple aligned table.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var header, sep strings.Builder
	header.WriteString("  ")
	sep.WriteString("  ")
	for i, h := range headers {
		fmt.Fprintf(&header, "%-*s  ", widths[i], h)
		sep.WriteString(strings.Repeat("─", widths[i]) + "  ")
	}
	Subtle.Fprintln(Out, strings.TrimRight(header.String(), " "))
	Subtle.Fprintln(Out, strings.TrimRight(sep.String(), " "))

	for _, row := range rows {
		var line strings.Builder
		line.WriteString("  ")
		for i, cell := range row {
			if i < len(widths) {
				fmt.Fprintf(&line, "%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(Out, strings.TrimRight(line.String(), " "))
	}
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}

// String helpers for renderers that take plain func(string) string.
func BrandS(s string) string  { return Brand.Sprint(s) }
func SubtleS(s string) string { return Subtle.Sprint(s) }
func InfoS(s string) string   { return Info.Sprint(s) }
