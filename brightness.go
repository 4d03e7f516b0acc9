package main

import (
	"fmt"
	"image"
)

// BrightnessAlgorithm selects how pixel samples are reduced to a
// normalized brightness grid. The set is closed; Compute matches it
// exhaustively. Selection is converter-level configuration, never
// per-frame state.
type BrightnessAlgorithm int

const (
	ALGO_LUMINANCE BrightnessAlgorithm = iota
	ALGO_AVERAGE
	ALGO_LIGHTNESS
	ALGO_CUSTOM_WEIGHTED
	ALGO_EDGE_ENHANCED
	ALGO_SUPER_RESOLUTION
	ALGO_ADAPTIVE_4K
	ALGO_NEURAL_UPSCALE
)

var algorithmNames = map[string]BrightnessAlgorithm{
	"luminance":        ALGO_LUMINANCE,
	"average":          ALGO_AVERAGE,
	"lightness":        ALGO_LIGHTNESS,
	"custom_weighted":  ALGO_CUSTOM_WEIGHTED,
	"edge_enhanced":    ALGO_EDGE_ENHANCED,
	"super_resolution": ALGO_SUPER_RESOLUTION,
	"adaptive_4k":      ALGO_ADAPTIVE_4K,
	"neural_upscale":   ALGO_NEURAL_UPSCALE,
}

// AlgorithmByName resolves an algorithm name from the CLI or config file.
func AlgorithmByName(name string) (BrightnessAlgorithm, error) {
	a, ok := algorithmNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown algorithm %q", name)
	}
	return a, nil
}

func (a BrightnessAlgorithm) String() string {
	for name, algo := range algorithmNames {
		if algo == a {
			return name
		}
	}
	return "unknown"
}

// Compute reduces a frame to a brightness grid with the same spatial
// dimensions as the frame, values clamped to [0,1]. Deterministic for a
// given frame.
func (a BrightnessAlgorithm) Compute(img *image.RGBA) [][]float64 {
	switch a {
	case ALGO_LUMINANCE:
		return grayLuminance(img)
	case ALGO_AVERAGE:
		return perPixel(img, func(r, g, b float64) float64 {
			return (r + g + b) / 3 / 255
		})
	case ALGO_LIGHTNESS:
		return perPixel(img, func(r, g, b float64) float64 {
			return (max(r, max(g, b)) + min(r, min(g, b))) / 2 / 255
		})
	case ALGO_CUSTOM_WEIGHTED:
		return perPixel(img, func(r, g, b float64) float64 {
			return (0.3*r + 0.59*g + 0.11*b) / 255
		})
	case ALGO_EDGE_ENHANCED:
		return edgeEnhancedBrightness(img)
	case ALGO_SUPER_RESOLUTION:
		return superResolutionBrightness(img)
	case ALGO_ADAPTIVE_4K:
		return adaptive4kBrightness(img)
	case ALGO_NEURAL_UPSCALE:
		return neuralUpscaleBrightness(img)
	}
	return perPixel(img, func(r, g, b float64) float64 {
		return (r + g + b) / 3 / 255
	})
}

func perPixel(img *image.RGBA, f func(r, g, b float64) float64) [][]float64 {
	b := img.Bounds()
	out := newGrid(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			out[y][x] = clamp01(f(float64(row[x*4]), float64(row[x*4+1]), float64(row[x*4+2])))
		}
	}
	return out
}

// edgeEnhancedBrightness folds sobel edge magnitude into the luma so
// contours read through the glyph ramp.
func edgeEnhancedBrightness(img *image.RGBA) [][]float64 {
	gray := grayLuminance(img)
	edges := sobelMagnitude(gray)
	w, h := gridSize(gray)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray[y][x] = clamp01(gray[y][x] + 0.3*edges[y][x])
		}
	}
	return gray
}

// superResolutionBrightness sharpens the luma with unsharp masking and
// stretches the result to the full range.
func superResolutionBrightness(img *image.RGBA) [][]float64 {
	sharpened := unsharpMask(grayLuminance(img), 0.5)
	return stretchContrast(sharpened)
}

// adaptive4kBrightness denoises the luma and re-adds detail isolated at
// multiple scales, weighted down as the scale grows.
func adaptive4kBrightness(img *image.RGBA) [][]float64 {
	filtered := gaussian3(grayLuminance(img))
	w, h := gridSize(filtered)
	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		copy(out[y], filtered[y])
	}
	for _, scale := range []int{2, 4} {
		coarse := downUpSample(filtered, scale)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				out[y][x] += 0.3 * (filtered[y][x] - coarse[y][x]) / float64(scale)
			}
		}
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y][x] = clamp01(out[y][x])
		}
	}
	return out
}

// neuralUpscaleBrightness runs a self-guided filter over the luma, which
// smooths flat regions while keeping structure.
func neuralUpscaleBrightness(img *image.RGBA) [][]float64 {
	gray := grayLuminance(img)
	out := guidedFilter(gray, gray, 5, 0.01)
	w, h := gridSize(out)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y][x] = clamp01(out[y][x])
		}
	}
	return out
}

// stretchContrast rescales a grid so its observed range spans [0,1].
// A flat grid is returned unchanged.
func stretchContrast(g [][]float64) [][]float64 {
	w, h := gridSize(g)
	lo, hi := 1.0, 0.0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if g[y][x] < lo {
				lo = g[y][x]
			}
			if g[y][x] > hi {
				hi = g[y][x]
			}
		}
	}
	if hi-lo < 1e-9 {
		return g
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g[y][x] = (g[y][x] - lo) / (hi - lo)
		}
	}
	return g
}
