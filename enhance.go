package main

import (
	"image"
	"math"
)

// Shared pixel kernels backing the enhancement strategies and the
// upscaling tiers. All grid operations work on row-major [][]float64
// with values nominally in [0,1] and preserve dimensions.

func newGrid(w, h int) [][]float64 {
	g := make([][]float64, h)
	for y := range g {
		g[y] = make([]float64, w)
	}
	return g
}

func gridSize(g [][]float64) (w, h int) {
	h = len(g)
	if h > 0 {
		w = len(g[0])
	}
	return w, h
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// grayLuminance reduces a frame to BT.709 luma in [0,1].
func grayLuminance(img *image.RGBA) [][]float64 {
	b := img.Bounds()
	g := newGrid(b.Dx(), b.Dy())
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for x := 0; x < b.Dx(); x++ {
			r := float64(row[x*4])
			gr := float64(row[x*4+1])
			bl := float64(row[x*4+2])
			g[y][x] = (0.2126*r + 0.7152*gr + 0.0722*bl) / 255
		}
	}
	return g
}

// boxFilter is a mean filter with a square window of the given radius.
// Edges are handled by clamping the window to the grid.
func boxFilter(g [][]float64, radius int) [][]float64 {
	w, h := gridSize(g)
	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		y0 := max(0, y-radius)
		y1 := min(h-1, y+radius)
		for x := 0; x < w; x++ {
			x0 := max(0, x-radius)
			x1 := min(w-1, x+radius)
			sum := 0.0
			for yy := y0; yy <= y1; yy++ {
				for xx := x0; xx <= x1; xx++ {
					sum += g[yy][xx]
				}
			}
			out[y][x] = sum / float64((y1-y0+1)*(x1-x0+1))
		}
	}
	return out
}

// gaussian3 applies a fixed 3x3 gaussian (sigma ~1) blur.
func gaussian3(g [][]float64) [][]float64 {
	kernel := [3][3]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	}
	w, h := gridSize(g)
	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sum := 0.0
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					yy := min(h-1, max(0, y+ky))
					xx := min(w-1, max(0, x+kx))
					sum += g[yy][xx] * kernel[ky+1][kx+1]
				}
			}
			out[y][x] = sum
		}
	}
	return out
}

// sobelMagnitude computes the gradient magnitude of a grid, clamped to
// [0,1].
func sobelMagnitude(g [][]float64) [][]float64 {
	w, h := gridSize(g)
	out := newGrid(w, h)
	at := func(x, y int) float64 {
		return g[min(h-1, max(0, y))][min(w-1, max(0, x))]
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1) +
				at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)
			out[y][x] = clamp01(math.Sqrt(gx*gx + gy*gy))
		}
	}
	return out
}

// unsharpMask sharpens by adding back the difference to a blurred copy:
// out = g + amount * (g - blur(g)).
func unsharpMask(g [][]float64, amount float64) [][]float64 {
	blurred := gaussian3(g)
	w, h := gridSize(g)
	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y][x] = clamp01(g[y][x] + amount*(g[y][x]-blurred[y][x]))
		}
	}
	return out
}

// guidedFilter smooths src using guide as the structure reference. The
// standard box-filter formulation; eps controls edge preservation.
func guidedFilter(guide, src [][]float64, radius int, eps float64) [][]float64 {
	w, h := gridSize(guide)

	meanI := boxFilter(guide, radius)
	meanP := boxFilter(src, radius)

	prod := newGrid(w, h)
	sq := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			prod[y][x] = guide[y][x] * src[y][x]
			sq[y][x] = guide[y][x] * guide[y][x]
		}
	}
	corrIP := boxFilter(prod, radius)
	corrII := boxFilter(sq, radius)

	a := newGrid(w, h)
	bg := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			covIP := corrIP[y][x] - meanI[y][x]*meanP[y][x]
			varI := corrII[y][x] - meanI[y][x]*meanI[y][x]
			a[y][x] = covIP / (varI + eps)
			bg[y][x] = meanP[y][x] - a[y][x]*meanI[y][x]
		}
	}
	meanA := boxFilter(a, radius)
	meanB := boxFilter(bg, radius)

	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			out[y][x] = meanA[y][x]*guide[y][x] + meanB[y][x]
		}
	}
	return out
}

// downUpSample pools the grid down by an integer factor and scales it
// back up, losing detail at that scale. Used to isolate per-scale detail.
func downUpSample(g [][]float64, factor int) [][]float64 {
	w, h := gridSize(g)
	sw := max(1, w/factor)
	sh := max(1, h/factor)

	small := newGrid(sw, sh)
	for y := 0; y < sh; y++ {
		for x := 0; x < sw; x++ {
			sum := 0.0
			n := 0
			for yy := y * factor; yy < min(h, (y+1)*factor); yy++ {
				for xx := x * factor; xx < min(w, (x+1)*factor); xx++ {
					sum += g[yy][xx]
					n++
				}
			}
			small[y][x] = sum / float64(n)
		}
	}

	out := newGrid(w, h)
	for y := 0; y < h; y++ {
		sy := min(sh-1, y*sh/h)
		for x := 0; x < w; x++ {
			out[y][x] = small[sy][min(sw-1, x*sw/w)]
		}
	}
	return out
}
