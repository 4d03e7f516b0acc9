package main

import (
	"fmt"
	"math"
)

// Palette is an ordered glyph ramp, index 0 darkest, last index brightest.
// A valid palette has at least two glyphs.
type Palette []rune

var (
	PALETTE_MINIMAL  = Palette(" .:-=+*#%@")
	PALETTE_DETAILED = Palette(" .'`^\",:;Il!i><~+_-?][}{1)(|\\/tfjrxnuvczXYUJCLQ0OZmwqpdbkhao*#MW&8%B@$")
	PALETTE_BLOCKS   = Palette(" ░▒▓█")
	PALETTE_GRADIENT = Palette(" ▁▂▃▄▅▆▇█")
	PALETTE_LIGHT    = Palette(" .·-=+*oO#@")
	PALETTE_DARK     = Palette("@#*+=-·. ")
)

var paletteNames = map[string]Palette{
	"minimal":  PALETTE_MINIMAL,
	"detailed": PALETTE_DETAILED,
	"blocks":   PALETTE_BLOCKS,
	"gradient": PALETTE_GRADIENT,
	"light":    PALETTE_LIGHT,
	"dark":     PALETTE_DARK,
}

// PaletteByName resolves a style name from the CLI or config file.
func PaletteByName(name string) (Palette, error) {
	p, ok := paletteNames[name]
	if !ok {
		return nil, fmt.Errorf("unknown style %q", name)
	}
	return p, nil
}

// Index maps a brightness value in [0,1] to a glyph index. The mapping
// rounds to nearest and is monotonically non-decreasing in v.
func (p Palette) Index(v float64) int {
	i := int(math.Round(v * float64(len(p)-1)))
	if i < 0 {
		i = 0
	}
	if i > len(p)-1 {
		i = len(p) - 1
	}
	return i
}

// Glyph returns the glyph for a brightness value in [0,1].
func (p Palette) Glyph(v float64) rune {
	return p[p.Index(v)]
}
