package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanDimensionsFitsTerminal(t *testing.T) {
	// 1080p frame on a 120x40 terminal at the standard tier: the grid
	// must fit inside the usable area with the UI margin held back.
	geo := PlanDimensions(120, 40, 1920, 1080, QUALITY_STANDARD)

	assert.LessOrEqual(t, geo.Cols, 118)
	assert.LessOrEqual(t, geo.Rows, 38)
	assert.Equal(t, Geometry{Cols: 118, Rows: 33}, geo)
}

func TestPlanDimensionsPreservesAspect(t *testing.T) {
	geo := PlanDimensions(120, 40, 1920, 1080, QUALITY_STANDARD)

	// Corrected aspect: (1920/1080) / 0.5 columns per row.
	want := 1920.0 / 1080.0 / CHAR_ASPECT
	got := float64(geo.Cols) / float64(geo.Rows)
	assert.InDelta(t, want, got, want*0.05)
}

func TestPlanDimensionsNeverZero(t *testing.T) {
	cases := []struct {
		termCols, termRows, frameW, frameH int
	}{
		{1, 1, 1920, 1080},
		{2, 2, 1, 1},
		{80, 24, 0, 0},
		{0, 0, 640, 480},
		{3, 50, 10000, 10},
	}
	for _, c := range cases {
		geo := PlanDimensions(c.termCols, c.termRows, c.frameW, c.frameH, QUALITY_AUTO)
		assert.GreaterOrEqual(t, geo.Cols, 1)
		assert.GreaterOrEqual(t, geo.Rows, 1)
	}
}

func TestPlanDimensionsPure(t *testing.T) {
	a := PlanDimensions(200, 60, 3840, 2160, QUALITY_AUTO)
	b := PlanDimensions(200, 60, 3840, 2160, QUALITY_AUTO)
	assert.Equal(t, a, b)
}

func TestPlanDimensionsCaps(t *testing.T) {
	// High tiers on a small terminal stay under the terminal multiple cap.
	geo := PlanDimensions(40, 20, 3840, 2160, QUALITY_8K)
	assert.LessOrEqual(t, geo.Cols, 40*TERMINAL_CAP_MULTIPLIER)
	assert.LessOrEqual(t, geo.Rows, 20*TERMINAL_CAP_MULTIPLIER)

	// A huge terminal hits the absolute ceiling instead.
	geo = PlanDimensions(5000, 5000, 7680, 4320, QUALITY_8K)
	assert.LessOrEqual(t, geo.Cols, MAX_PLANNED_COLS)
	assert.LessOrEqual(t, geo.Rows, MAX_PLANNED_ROWS)
}

func TestQualityMultiplierAuto(t *testing.T) {
	cases := []struct {
		w, h int
		want float64
	}{
		{640, 480, 1.5},
		{1280, 720, 2.0},
		{1920, 1080, 2.5},
		{3840, 2160, 3.0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, QUALITY_AUTO.Multiplier(c.w, c.h), "%dx%d", c.w, c.h)
	}
}

func TestQualityMultiplierTiersMonotonic(t *testing.T) {
	tiers := []Quality{QUALITY_STANDARD, QUALITY_AUTO, QUALITY_4K, QUALITY_6K, QUALITY_8K}
	prev := 0.0
	for _, q := range tiers {
		m := q.Multiplier(3840, 2160)
		require.GreaterOrEqual(t, m, prev, string(q))
		prev = m
	}
}

func TestQualityByName(t *testing.T) {
	q, err := QualityByName("6k")
	require.NoError(t, err)
	assert.Equal(t, QUALITY_6K, q)

	_, err = QualityByName("ultra")
	assert.Error(t, err)
}

func TestPlanLockedGrid(t *testing.T) {
	// 16:9 frame with 10x20 cells: the 1440p target maps to 256x72
	// cells; the aspect fit trims the columns.
	geo := PlanLockedGrid(300, 100, 1920, 1080, 10, 20)
	assert.Equal(t, Geometry{Cols: 64, Rows: 72}, geo)
}

func TestPlanLockedGridCappedByTerminal(t *testing.T) {
	geo := PlanLockedGrid(40, 20, 1920, 1080, 10, 20)
	assert.LessOrEqual(t, geo.Cols, 38)
	assert.LessOrEqual(t, geo.Rows, 18)
	assert.GreaterOrEqual(t, geo.Cols, 1)
	assert.GreaterOrEqual(t, geo.Rows, 1)
}
