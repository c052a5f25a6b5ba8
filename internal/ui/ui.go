// Package ui formats terminal output for the commands.
package ui

import (
	"fmt"
	imgcolor "image/color"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiCyan, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Out is where Banner, Table and Legend write.
var Out io.Writer = os.Stdout

const Mark = "\u25C9" // ◉

// Banner prints the kgview banner.
func Banner(subtitle string) {
	fmt.Fprintf(Out, "%s %s — %s\n\n", Mark, Brand.Sprint("kgview"), subtitle)
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

	// Print header
	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += fmt.Sprintf("%-*s  ", widths[i], h)
		sepLine += strings.Repeat("\u2500", widths[i]) + "  "
	}
	Subtle.Fprintln(Out, headerLine)
	Subtle.Fprintln(Out, sepLine)

	// Print rows
	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += fmt.Sprintf("%-*s  ", widths[i], cell)
			}
		}
		fmt.Fprintln(Out, line)
	}
}

// LegendEntry is one line of a type legend.
type LegendEntry struct {
	Name  string
	Glyph string
	Count int
	Color imgcolor.RGBA
}

// Legend prints colored swatches with their counts.
func Legend(entries []LegendEntry) {
	width := 0
	for _, e := range entries {
		width = max(width, len(e.Name))
	}
	for _, e := range entries {
		fmt.Fprintf(Out, "  %s %s %-*s %s\n",
			Swatch(e.Color), Subtle.Sprint(e.Glyph), width, e.Name, Info.Sprint(e.Count))
	}
}

// Swatch renders a filled dot in c on true-color terminals.
func Swatch(c imgcolor.RGBA) string {
	return color.RGB(int(c.R), int(c.G), int(c.B)).Sprint("\u25CF")
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("\u2713")
	}
	return Bad.Sprint("\u2717")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("\u26A0")
}
