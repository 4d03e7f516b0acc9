package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaletteIndexAnchors(t *testing.T) {
	p := PALETTE_MINIMAL
	require.Len(t, p, 10)

	assert.Equal(t, 0, p.Index(0))
	assert.Equal(t, 5, p.Index(0.5))
	assert.Equal(t, len(p)-1, p.Index(1.0))
}

func TestPaletteIndexClampsOutOfRange(t *testing.T) {
	for _, p := range []Palette{PALETTE_MINIMAL, PALETTE_DETAILED, PALETTE_BLOCKS} {
		assert.Equal(t, 0, p.Index(-0.5))
		assert.Equal(t, len(p)-1, p.Index(1.5))
	}
}

func TestPaletteIndexMonotonic(t *testing.T) {
	p := PALETTE_DETAILED
	prev := -1
	for i := 0; i <= 1000; i++ {
		v := float64(i) / 1000
		idx := p.Index(v)
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, len(p))
		require.GreaterOrEqual(t, idx, prev, "index must not decrease as brightness rises")
		prev = idx
	}
}

func TestPaletteIndexCoversFullRange(t *testing.T) {
	p := PALETTE_MINIMAL
	seen := make(map[int]bool)
	for i := 0; i <= 1000; i++ {
		seen[p.Index(float64(i)/1000)] = true
	}
	assert.Len(t, seen, len(p), "every glyph should be reachable")
}

func TestPaletteByName(t *testing.T) {
	for _, name := range []string{"minimal", "detailed", "blocks", "gradient", "light", "dark"} {
		p, err := PaletteByName(name)
		require.NoError(t, err, name)
		assert.GreaterOrEqual(t, len(p), 2, name)
	}

	_, err := PaletteByName("sepia")
	assert.Error(t, err)
}
