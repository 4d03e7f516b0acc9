package main

import (
	"fmt"
	"strings"
)

const (
	COLOR_RESET  = "\033[0m"
	COLOR_GREEN  = "\033[32m"
	COLOR_YELLOW = "\033[33m"
	COLOR_CYAN   = "\033[36m"
	COLOR_DIM    = "\033[2m"

	PROGRESS_BAR_WIDTH = 40
)

func colorize(s, color string) string {
	return color + s + COLOR_RESET
}

// progressBar renders a fixed-width bar for a ratio in [0, 1].
func progressBar(ratio float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// formatTime renders seconds as M:SS.
func formatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// statusLines builds the UI overlay for the current frame. Returns nil
// when the UI is hidden.
func (p *Player) statusLines(position int) []string {
	info := p.sourceInfo()

	p.mu.Lock()
	showUI := p.showUI
	showPerf := p.showPerf
	speed := p.speed
	p.mu.Unlock()

	if !showUI {
		return nil
	}

	geo := p.Geometry()
	var lines []string

	if info.IsImage {
		lines = append(lines, fmt.Sprintf("%s  %dx%d px -> %dx%d chars",
			colorize("DISPLAYING", COLOR_GREEN), info.Width, info.Height, geo.Cols, geo.Rows))
	} else {
		status := colorize("PLAYING", COLOR_GREEN)
		if p.paused.Load() {
			status = colorize("PAUSED", COLOR_YELLOW)
		}

		var ratio float64
		if info.FrameCount > 0 {
			ratio = float64(position) / float64(info.FrameCount)
		}
		lines = append(lines, fmt.Sprintf("%s %s %3.0f%%",
			progressBar(ratio, PROGRESS_BAR_WIDTH), status, ratio*100))

		elapsed := 0.0
		total := 0.0
		if info.FPS > 0 {
			elapsed = float64(position) / info.FPS
			total = float64(info.FrameCount) / info.FPS
		}
		lines = append(lines, fmt.Sprintf("%s / %s  frame %d/%d  speed %sx",
			formatTime(elapsed), formatTime(total), position, info.FrameCount,
			colorize(fmt.Sprintf("%.1f", speed), COLOR_CYAN)))
	}

	if showPerf {
		s := p.perf.Summary()
		lines = append(lines, colorize(fmt.Sprintf(
			"fps %.1f  frame %.1fms  cpu %.0f%%  mem %.0fMB",
			s.FPS, s.FrameTimeMs, s.CPUPercent, s.MemoryMB), COLOR_DIM))
	}

	if info.IsImage {
		lines = append(lines, colorize("q quit  f toggle ui  p toggle perf", COLOR_DIM))
	} else {
		lines = append(lines, colorize(
			"q quit  space pause  +/- speed  r restart  f toggle ui  p toggle perf", COLOR_DIM))
	}
	return lines
}
