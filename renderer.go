package main

import (
	"bufio"
	"io"
	"os"
	"sync/atomic"
)

// renderer writes character frames to the terminal. With flicker
// reduction on, frames after the first overwrite in place from the
// cursor home position; otherwise every frame gets a full clear.
// firstRendered is atomic: the resize watcher and the input goroutine
// reset it while the display loop renders.
type renderer struct {
	writer        *bufio.Writer
	reduceFlicker bool
	firstRendered atomic.Bool
}

func newRenderer(out io.Writer, reduceFlicker bool) *renderer {
	if out == nil {
		out = os.Stdout
	}
	return &renderer{
		writer:        bufio.NewWriterSize(out, 1<<16),
		reduceFlicker: reduceFlicker,
	}
}

// render writes one frame plus optional status lines below it.
func (r *renderer) render(art string, statusLines []string) {
	if r.reduceFlicker && r.firstRendered.Load() {
		r.writer.WriteString(MOVE_HOME_TERM)
	} else {
		r.writer.WriteString(CLEAR_SCREEN_TERM)
		r.writer.WriteString(MOVE_HOME_TERM)
	}

	r.writer.WriteString(art)
	for _, line := range statusLines {
		r.writer.WriteString("\n")
		r.writer.WriteString(line)
		// Erase any leftover tail from a longer previous status line.
		r.writer.WriteString("\033[K")
	}
	r.writer.WriteString("\n")
	r.writer.Flush()
	r.firstRendered.Store(true)
}

// reset forces a full clear on the next frame, e.g. after a geometry
// change left stale cells on screen.
func (r *renderer) reset() {
	r.firstRendered.Store(false)
}
