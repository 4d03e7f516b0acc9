package main

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gradientFrame builds a frame sweeping dark to bright left to right
// with a color cast varying top to bottom.
func gradientFrame(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8(x * 255 / max(1, w-1))
			g := uint8(y * 255 / max(1, h-1))
			img.SetRGBA(x, y, color.RGBA{R: v, G: g, B: v / 2, A: 255})
		}
	}
	return img
}

func solidFrame(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func allAlgorithms() []BrightnessAlgorithm {
	algos := make([]BrightnessAlgorithm, 0, len(algorithmNames))
	for _, a := range algorithmNames {
		algos = append(algos, a)
	}
	return algos
}

func TestComputeOutputInRange(t *testing.T) {
	frame := gradientFrame(32, 24)
	for _, algo := range allAlgorithms() {
		grid := algo.Compute(frame)
		require.Len(t, grid, 24, algo.String())
		for y := range grid {
			require.Len(t, grid[y], 32, algo.String())
			for x := range grid[y] {
				assert.GreaterOrEqual(t, grid[y][x], 0.0, algo.String())
				assert.LessOrEqual(t, grid[y][x], 1.0, algo.String())
			}
		}
	}
}

func TestComputeDeterministic(t *testing.T) {
	frame := gradientFrame(16, 16)
	for _, algo := range allAlgorithms() {
		a := algo.Compute(frame)
		b := algo.Compute(frame)
		assert.Equal(t, a, b, algo.String())
	}
}

func TestLuminanceExtremes(t *testing.T) {
	black := solidFrame(4, 4, color.RGBA{A: 255})
	white := solidFrame(4, 4, color.RGBA{R: 255, G: 255, B: 255, A: 255})

	gb := ALGO_LUMINANCE.Compute(black)
	gw := ALGO_LUMINANCE.Compute(white)
	assert.InDelta(t, 0.0, gb[0][0], 0.01)
	assert.InDelta(t, 1.0, gw[0][0], 0.01)
}

func TestLuminanceWeighting(t *testing.T) {
	// Pure green reads brighter than pure blue under BT.709 weights.
	green := ALGO_LUMINANCE.Compute(solidFrame(2, 2, color.RGBA{G: 255, A: 255}))
	blue := ALGO_LUMINANCE.Compute(solidFrame(2, 2, color.RGBA{B: 255, A: 255}))
	assert.Greater(t, green[0][0], blue[0][0])
}

func TestAverageAlgorithm(t *testing.T) {
	grid := ALGO_AVERAGE.Compute(solidFrame(2, 2, color.RGBA{R: 90, G: 150, B: 60, A: 255}))
	assert.InDelta(t, 100.0/255.0, grid[0][0], 0.01)
}

func TestAlgorithmByName(t *testing.T) {
	names := []string{
		"luminance", "average", "lightness", "custom_weighted",
		"edge_enhanced", "super_resolution", "adaptive_4k", "neural_upscale",
	}
	for _, name := range names {
		algo, err := AlgorithmByName(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, algo.String())
	}

	_, err := AlgorithmByName("histogram")
	assert.Error(t, err)
}
