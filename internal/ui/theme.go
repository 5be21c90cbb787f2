package ui

import (
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Palette is an explicit style configuration handed to each view at
// construction. No view reaches for global style state.
type Palette struct {
	Name       string
	Text       drawing.Color
	Subtle     drawing.Color
	Background drawing.Color
	Bars       []drawing.Color
}

var (
	// PaletteDark matches the dashboard's default look.
	PaletteDark = Palette{
		Name:       "dark",
		Text:       drawing.ColorFromHex("e2e8f0"),
		Subtle:     drawing.ColorFromHex("94a3b8"),
		Background: drawing.ColorFromHex("0f172a"),
		Bars: []drawing.Color{
			drawing.ColorFromHex("38bdf8"),
			drawing.ColorFromHex("818cf8"),
			drawing.ColorFromHex("f472b6"),
		},
	}

	PaletteLight = Palette{
		Name:       "light",
		Text:       drawing.ColorFromHex("0f172a"),
		Subtle:     drawing.ColorFromHex("475569"),
		Background: drawing.ColorFromHex("f8fafc"),
		Bars: []drawing.Color{
			drawing.ColorFromHex("0284c7"),
			drawing.ColorFromHex("4f46e5"),
			drawing.ColorFromHex("db2777"),
		},
	}
)

// PaletteByName selects from the enumerated palettes, defaulting to dark.
func PaletteByName(name string) Palette {
	if name == "light" {
		return PaletteLight
	}
	return PaletteDark
}

// Bar returns the i-th bar color, cycling when there are more labels than
// colors.
func (p Palette) Bar(i int) drawing.Color {
	return p.Bars[i%len(p.Bars)]
}
