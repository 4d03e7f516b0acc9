package main

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayerOptions(out *bytes.Buffer) PlayerOptions {
	return PlayerOptions{
		Palette:      PALETTE_MINIMAL,
		Algorithm:    ALGO_LUMINANCE,
		Quality:      QUALITY_STANDARD,
		BufferSize:   4,
		MaxWorkers:   2,
		UseThreading: false,
		Speed:        1.0,
		FixedCols:    20,
		FixedRows:    10,
		Output:       out,
	}
}

func writeTestPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, gradientFrame(64, 48)))
	require.NoError(t, f.Close())
	return path
}

func TestLoadNonexistentPath(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	err := p.Load(filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)

	var serr *SourceError
	assert.True(t, errors.As(err, &serr), "load failures are source errors")

	state := p.State()
	assert.False(t, state.IsPlaying, "a failed load must leave the player idle")
}

func TestLoadCorruptImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.png")
	require.NoError(t, os.WriteFile(path, []byte("not a png"), 0o644))

	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	err := p.Load(path)
	require.Error(t, err)
	var serr *SourceError
	assert.True(t, errors.As(err, &serr))
}

func TestLoadDirectory(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	err := p.Load(t.TempDir())
	require.Error(t, err)
	var serr *SourceError
	assert.True(t, errors.As(err, &serr))
}

func TestPlayWithoutLoad(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))
	assert.Error(t, p.Play())
}

func TestPlayStillImage(t *testing.T) {
	path := writeTestPNG(t)

	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))
	require.NoError(t, p.Load(path))

	info := p.sourceInfo()
	assert.True(t, info.IsImage)
	assert.Equal(t, 1, info.FrameCount)

	go func() {
		time.Sleep(300 * time.Millisecond)
		p.Stop()
	}()
	require.NoError(t, p.Play())

	rendered := out.String()
	require.NotEmpty(t, rendered, "the image must be rendered at least once")

	// 20x10 fixed grid: the frame body carries 10 glyph rows.
	body := strings.TrimPrefix(rendered, CLEAR_SCREEN_TERM+MOVE_HOME_TERM)
	assert.GreaterOrEqual(t, strings.Count(body, "\n"), 9)

	assert.False(t, p.State().IsPlaying)
	p.Close()
}

func TestSpeedClamping(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	p.ChangeSpeed(100)
	assert.Equal(t, SPEED_MAX, p.Speed())

	p.ChangeSpeed(-100)
	assert.Equal(t, SPEED_MIN, p.Speed())

	p.ChangeSpeed(SPEED_STEP)
	assert.InDelta(t, SPEED_MIN+SPEED_STEP, p.Speed(), 1e-9)
}

func TestTogglePause(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	assert.False(t, p.State().IsPaused)
	p.TogglePause()
	assert.True(t, p.State().IsPaused)
	p.TogglePause()
	assert.False(t, p.State().IsPaused)
}

func TestProcessKeySpeedKeys(t *testing.T) {
	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))

	p.ProcessKey('+')
	assert.InDelta(t, 1.1, p.Speed(), 1e-9)
	p.ProcessKey('=')
	assert.InDelta(t, 1.2, p.Speed(), 1e-9)
	p.ProcessKey('-')
	assert.InDelta(t, 1.1, p.Speed(), 1e-9)

	p.ProcessKey(' ')
	assert.True(t, p.State().IsPaused)
}

func TestSeekOnImageIsNoop(t *testing.T) {
	path := writeTestPNG(t)

	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))
	require.NoError(t, p.Load(path))
	assert.NoError(t, p.Seek(5))
	p.Close()
}

func TestFixedGeometryOverridesPlanner(t *testing.T) {
	path := writeTestPNG(t)

	var out bytes.Buffer
	opts := testPlayerOptions(&out)
	opts.FixedCols = 33
	opts.FixedRows = 7
	p := NewPlayer(opts)
	require.NoError(t, p.Load(path))

	assert.Equal(t, Geometry{Cols: 33, Rows: 7}, p.Geometry())
	p.Close()
}

func TestLoadReplacesSource(t *testing.T) {
	first := writeTestPNG(t)
	second := writeTestPNG(t)

	var out bytes.Buffer
	p := NewPlayer(testPlayerOptions(&out))
	require.NoError(t, p.Load(first))
	require.NoError(t, p.Load(second))

	assert.Equal(t, second, p.sourceInfo().Path)
	p.Close()
}
