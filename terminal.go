package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// TermData caches the last measured terminal size. When a size query
// fails the previous values stay in place, so a transient failure never
// collapses the output grid.
type TermData struct {
	mu      sync.Mutex
	cols    int
	rows    int
	defined bool
}

var termData TermData

// UpdateSize re-measures the terminal. Returns whether the size changed
// since the last successful measurement. A query failure is an IOError:
// logged by the caller, last known size retained.
func (t *TermData) UpdateSize() (changed bool, err error) {
	rows, cols, err := GetTerminalSize()
	if err != nil {
		if t.defined {
			return false, &IOError{Op: "size query", Err: err}
		}
		// Never measured: fall back to the x/term helper, then to a
		// conventional default.
		if w, h, terr := term.GetSize(int(os.Stdout.Fd())); terr == nil {
			cols, rows = w, h
		} else {
			cols, rows = 80, 24
		}
	}
	if cols < 1 || rows < 1 {
		return false, &IOError{Op: "size query", Err: errors.New("degenerate terminal size")}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	changed = cols != t.cols || rows != t.rows
	t.cols, t.rows = cols, rows
	t.defined = true
	return changed, nil
}

// Size returns the last known terminal size.
func (t *TermData) Size() (cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.defined {
		return 80, 24
	}
	return t.cols, t.rows
}

var inAlternateBuffer bool

// Enters the alternate screen buffer
func enterAlternateBuffer() {
	if !inAlternateBuffer {
		fmt.Print("\033[?1049h")
		inAlternateBuffer = true
	}
}

// Exits the alternate screen buffer
func exitAlternateBuffer() {
	if inAlternateBuffer {
		fmt.Print("\033[?1049l")
		inAlternateBuffer = false
	}
}

const (
	CLEAR_SCREEN_TERM = "\033[2J"
	MOVE_HOME_TERM    = "\033[H"
)

func hideCursor() {
	fmt.Print("\033[?25l")
}

func showCursor() {
	fmt.Print("\033[?25h")
}
