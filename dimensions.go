package main

import "fmt"

// Character cells are roughly twice as tall as wide; the planner
// corrects the frame aspect by this factor so output is not stretched.
const CHAR_ASPECT = 0.5

// Rows/columns held back from the terminal for the status UI.
const UI_MARGIN = 2

// Hard ceilings on the planned grid, as a multiple of the terminal size
// and an absolute cap. Empirically tuned in the upstream player; kept
// as constants rather than rederived.
const (
	TERMINAL_CAP_MULTIPLIER = 4
	MAX_PLANNED_COLS        = 1000
	MAX_PLANNED_ROWS        = 800
)

// Input pixel counts at which the auto tier steps up.
const (
	PIXELS_4K    = 3840 * 2160
	PIXELS_1080P = 1920 * 1080
	PIXELS_720P  = 1280 * 720
)

// Quality is a named upscaling aggressiveness tier controlling the
// planner's multiplier.
type Quality string

const (
	QUALITY_STANDARD Quality = "standard"
	QUALITY_AUTO     Quality = "auto"
	QUALITY_4K       Quality = "4k"
	QUALITY_6K       Quality = "6k"
	QUALITY_8K       Quality = "8k"
)

// QualityByName validates a tier name from the CLI or config file.
func QualityByName(name string) (Quality, error) {
	switch Quality(name) {
	case QUALITY_STANDARD, QUALITY_AUTO, QUALITY_4K, QUALITY_6K, QUALITY_8K:
		return Quality(name), nil
	}
	return "", fmt.Errorf("unknown quality tier %q", name)
}

// Multiplier returns the planning multiplier for the tier. The auto
// tier inspects the input pixel count.
func (q Quality) Multiplier(frameW, frameH int) float64 {
	switch q {
	case QUALITY_8K:
		return 4.0
	case QUALITY_6K:
		return 3.5
	case QUALITY_4K:
		return 3.0
	case QUALITY_AUTO:
		pixels := frameW * frameH
		switch {
		case pixels >= PIXELS_4K:
			return 3.0
		case pixels >= PIXELS_1080P:
			return 2.5
		case pixels >= PIXELS_720P:
			return 2.0
		default:
			return 1.5
		}
	}
	return 1.0
}

// Geometry is the (columns, rows) character-cell size of the rendered
// artifact. Swapped as a single value between the resize watcher and
// the display loop, never field by field.
type Geometry struct {
	Cols int
	Rows int
}

// PlanDimensions computes the output grid for a terminal and frame at a
// quality tier. Pure: identical inputs give identical output, and it is
// re-invoked on every terminal, source, or tier change.
func PlanDimensions(termCols, termRows, frameW, frameH int, q Quality) Geometry {
	if frameW < 1 || frameH < 1 {
		return Geometry{Cols: 1, Rows: 1}
	}

	usableW := max(1, termCols-UI_MARGIN)
	usableH := max(1, termRows-UI_MARGIN)

	// Columns per row needed to show the frame undistorted.
	displayAspect := float64(frameW) / float64(frameH) / CHAR_ASPECT

	var baseW, baseH int
	if float64(usableW)/float64(usableH) < displayAspect {
		// Width-constrained fit.
		baseW = usableW
		baseH = int(float64(baseW) / displayAspect)
	} else {
		// Height-constrained fit.
		baseH = usableH
		baseW = int(float64(baseH) * displayAspect)
	}

	mult := q.Multiplier(frameW, frameH)
	cols := int(float64(baseW) * mult)
	rows := int(float64(baseH) * mult)

	cols = min(cols, min(termCols*TERMINAL_CAP_MULTIPLIER, MAX_PLANNED_COLS))
	rows = min(rows, min(termRows*TERMINAL_CAP_MULTIPLIER, MAX_PLANNED_ROWS))

	return Geometry{Cols: max(1, cols), Rows: max(1, rows)}
}

// PlanLockedGrid maps a 2560x1440 pixel target onto a character grid
// using an assumed character cell pixel size, capped to the terminal.
// Used by the fixed-output mode, where terminal resizes are ignored.
func PlanLockedGrid(termCols, termRows, frameW, frameH, charPxW, charPxH int) Geometry {
	charPxW = max(1, charPxW)
	charPxH = max(1, charPxH)
	frameAspect := float64(frameW) / float64(max(1, frameH))

	targetCols := max(1, 2560/charPxW)
	targetRows := max(1, 1440/charPxH)

	hFromW := int(float64(targetCols) / frameAspect * float64(charPxH) / float64(charPxW))
	var cols, rows int
	if hFromW <= targetRows {
		cols = targetCols
		rows = hFromW
	} else {
		cols = int(float64(targetRows) * frameAspect * float64(charPxW) / float64(charPxH))
		rows = targetRows
	}

	cols = max(1, min(cols, termCols-UI_MARGIN))
	rows = max(1, min(rows, termRows-UI_MARGIN))
	return Geometry{Cols: cols, Rows: rows}
}
