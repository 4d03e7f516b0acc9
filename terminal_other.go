//go:build !unix

package main

import (
	"os"

	"golang.org/x/term"
)

// GetTerminalSize queries the terminal size in character cells.
func GetTerminalSize() (rows, cols int, err error) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, err
	}
	return h, w, nil
}
