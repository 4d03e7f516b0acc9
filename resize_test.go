package main

import (
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeFrameTargetsExactDimensions(t *testing.T) {
	cases := []struct {
		name                   string
		srcW, srcH, outW, outH int
	}{
		{"downscale", 320, 240, 40, 20},
		{"single pass upscale", 100, 100, 140, 140},
		{"edge preserving tier", 100, 100, 180, 180},
		{"progressive tier", 40, 40, 200, 200},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := resizeFrame(gradientFrame(c.srcW, c.srcH), c.outW, c.outH)
			require.NotNil(t, out)
			assert.Equal(t, c.outW, out.Bounds().Dx())
			assert.Equal(t, c.outH, out.Bounds().Dy())
		})
	}
}

func TestResizeFrameSameSizePassthrough(t *testing.T) {
	frame := gradientFrame(64, 48)
	assert.Same(t, frame, resizeFrame(frame, 64, 48))
}

func TestResizeFrameZeroSizeSourceTerminates(t *testing.T) {
	done := make(chan *image.RGBA, 1)
	go func() {
		done <- resizeFrame(image.NewRGBA(image.Rect(0, 0, 0, 0)), 80, 24)
	}()

	select {
	case out := <-done:
		require.NotNil(t, out)
		assert.Equal(t, 80, out.Bounds().Dx())
		assert.Equal(t, 24, out.Bounds().Dy())
	case <-time.After(2 * time.Second):
		t.Fatal("resizing a zero-size frame did not terminate")
	}
}
