package main

import (
	"os"

	"golang.org/x/term"
)

// inputReader puts stdin into raw mode and feeds single key presses to
// the player until the session stops.
type inputReader struct {
	player   *Player
	oldState *term.State
}

func newInputReader(p *Player) *inputReader {
	return &inputReader{player: p}
}

// Start switches stdin to raw mode and launches the read loop. A
// non-terminal stdin disables interactive controls instead of failing
// playback.
func (r *inputReader) Start() {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		logger.Info("input", "stdin is not a terminal, controls disabled")
		return
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		logger.Error("input", "enabling raw mode failed: %v", err)
		return
	}
	r.oldState = oldState
	go r.loop()
}

func (r *inputReader) loop() {
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			logger.Debug("input", "stdin read ended: %v", err)
			return
		}
		if n == 0 {
			continue
		}
		select {
		case <-r.player.stop:
			return
		default:
		}
		r.player.ProcessKey(buf[0])
	}
}

// Restore returns the terminal to its previous mode.
func (r *inputReader) Restore() {
	if r.oldState == nil {
		return
	}
	term.Restore(int(os.Stdin.Fd()), r.oldState)
	r.oldState = nil
}
