package render

import (
	"fmt"
	"image/color"

	"github.com/msalah0e/kgview/internal/graph"
)

// Theme holds the colors and base sizes of a frame. Sizes are screen pixels.
type Theme struct {
	Background    color.Color
	Edge          color.Color
	EdgeHighlight color.Color
	EdgeLabel     color.Color
	Label         color.Color
	Glyph         color.Color
	Selected      color.Color
	Hovered       color.Color
	Palette       map[graph.NodeType]color.RGBA
	Fallback      color.RGBA

	EdgeWidth     float64
	ArrowLength   float64
	FontSize      float64
	EdgeLabelSize float64
	GlyphSize     float64
	SelectedWidth float64
	HoveredWidth  float64
}

// Node palette, one fixed color per type.
var (
	colorDocument     = color.RGBA{0x18, 0x90, 0xff, 0xff} // blue
	colorConcept      = color.RGBA{0x52, 0xc4, 0x1a, 0xff} // green
	colorPerson       = color.RGBA{0x72, 0x2e, 0xd1, 0xff} // purple
	colorOrganization = color.RGBA{0xfa, 0x8c, 0x16, 0xff} // orange
	colorLocation     = color.RGBA{0xeb, 0x2f, 0x96, 0xff} // pink
	colorEvent        = color.RGBA{0x13, 0xc2, 0xc2, 0xff} // cyan
	colorTag          = color.RGBA{0xfa, 0xad, 0x14, 0xff} // gold
	colorUnknown      = color.RGBA{0x8c, 0x8c, 0x8c, 0xff}
)

// Glyphs are the single-character icons drawn at node centers.
var Glyphs = map[graph.NodeType]string{
	graph.TypeDocument:     "D",
	graph.TypeConcept:      "C",
	graph.TypePerson:       "P",
	graph.TypeOrganization: "O",
	graph.TypeLocation:     "L",
	graph.TypeEvent:        "E",
	graph.TypeTag:          "#",
}

// DefaultTheme is a light theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    color.White,
		Edge:          color.RGBA{0xbf, 0xbf, 0xbf, 0xff},
		EdgeHighlight: color.RGBA{0x18, 0x90, 0xff, 0xff},
		EdgeLabel:     color.RGBA{0x8c, 0x8c, 0x8c, 0xff},
		Label:         color.RGBA{0x26, 0x26, 0x26, 0xff},
		Glyph:         color.White,
		Selected:      color.RGBA{0xf5, 0x22, 0x2d, 0xff},
		Hovered:       color.RGBA{0x40, 0xa9, 0xff, 0xff},
		Palette: map[graph.NodeType]color.RGBA{
			graph.TypeDocument:     colorDocument,
			graph.TypeConcept:      colorConcept,
			graph.TypePerson:       colorPerson,
			graph.TypeOrganization: colorOrganization,
			graph.TypeLocation:     colorLocation,
			graph.TypeEvent:        colorEvent,
			graph.TypeTag:          colorTag,
		},
		Fallback:      colorUnknown,
		EdgeWidth:     1.5,
		ArrowLength:   10,
		FontSize:      12,
		EdgeLabelSize: 10,
		GlyphSize:     11,
		SelectedWidth: 3,
		HoveredWidth:  2,
	}
}

// ColorFor returns the fill color of a node type.
func (t Theme) ColorFor(nt graph.NodeType) color.RGBA {
	if c, ok := t.Palette[nt]; ok {
		return c
	}
	return t.Fallback
}

// ParseHex parses a "#rrggbb" or "#rgb" color.
func ParseHex(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 4:
		_, err = fmt.Sscanf(s, "#%1x%1x%1x", &c.R, &c.G, &c.B)
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		err = fmt.Errorf("want #rrggbb or #rgb")
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}
