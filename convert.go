package main

import (
	"image"
	"math"
	"strings"
	"sync"
)

// Row count above which character mapping fans out across workers.
const PARALLEL_MIN_ROWS = 50

// Fixed gamma for the optional contrast enhancement pass.
const CONTRAST_GAMMA = 0.8

// Converter turns pixel frames into character art: resize, brightness
// reduction, optional gamma contrast, glyph mapping. Strategy choices
// are fixed at construction; only the performance knobs move, via
// Apply.
type Converter struct {
	palette   Palette
	algorithm BrightnessAlgorithm

	mu              sync.Mutex
	maxWorkers      int
	useThreading    bool
	enhanceContrast bool
}

func NewConverter(palette Palette, algorithm BrightnessAlgorithm, maxWorkers int, useThreading, enhanceContrast bool) *Converter {
	return &Converter{
		palette:         palette,
		algorithm:       algorithm,
		maxWorkers:      max(1, maxWorkers),
		useThreading:    useThreading,
		enhanceContrast: enhanceContrast,
	}
}

// Apply takes an advisory recommendation from the performance monitor.
func (c *Converter) Apply(rec Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.useThreading = rec.UseThreading
	c.enhanceContrast = rec.EnhanceContrast
	c.maxWorkers = max(1, rec.MaxWorkers)
}

func (c *Converter) settings() (workers int, threading, contrast bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxWorkers, c.useThreading, c.enhanceContrast
}

// Convert renders one frame at the given geometry. The caller reads the
// geometry once per frame; Convert never consults shared state
// mid-pipeline, so a resize can never tear a frame.
func (c *Converter) Convert(frame *image.RGBA, geo Geometry) string {
	if frame == nil || geo.Cols < 1 || geo.Rows < 1 {
		return ""
	}

	workers, threading, contrast := c.settings()

	resized := resizeFrame(frame, geo.Cols, geo.Rows)
	grid := c.algorithm.Compute(resized)

	if contrast {
		for y := range grid {
			for x := range grid[y] {
				grid[y][x] = clamp01(math.Pow(grid[y][x], CONTRAST_GAMMA))
			}
		}
	}

	var lines []string
	if threading && len(grid) > PARALLEL_MIN_ROWS {
		lines = c.mapRowsParallel(grid, workers)
	} else {
		lines = c.mapRows(grid)
	}
	return strings.Join(lines, "\n")
}

// mapRows maps a brightness grid to glyph rows single-threaded.
func (c *Converter) mapRows(grid [][]float64) []string {
	lines := make([]string, len(grid))
	var sb strings.Builder
	for y, row := range grid {
		sb.Reset()
		sb.Grow(len(row))
		for _, v := range row {
			sb.WriteRune(c.palette.Glyph(v))
		}
		lines[y] = sb.String()
	}
	return lines
}

// mapRowsParallel splits the grid into contiguous row chunks and maps
// them concurrently. Rows carry no cross-row state, so the result is
// identical to a single-threaded pass; ordering is restored by index,
// not arrival.
func (c *Converter) mapRowsParallel(grid [][]float64, workers int) []string {
	height := len(grid)
	chunkSize := max(1, height/workers)

	lines := make([]string, height)
	var wg sync.WaitGroup
	for start := 0; start < height; start += chunkSize {
		end := min(start+chunkSize, height)
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			var sb strings.Builder
			for y := start; y < end; y++ {
				sb.Reset()
				sb.Grow(len(grid[y]))
				for _, v := range grid[y] {
					sb.WriteRune(c.palette.Glyph(v))
				}
				lines[y] = sb.String()
			}
		}(start, end)
	}
	wg.Wait()
	return lines
}
