package main

import (
	"sync"
	"time"
)

// LoopGroup tracks the completion of the buffering and display loops
// and signals when both finish. It replaces a plain WaitGroup because
// session teardown needs a bounded wait: a loop stuck in a blocking
// call is abandoned rather than hanging cleanup.
type LoopGroup struct {
	bufferingFinished bool
	displayFinished   bool
	completionSignal  chan struct{}
	mu                sync.Mutex
}

func NewLoopGroup() *LoopGroup {
	return &LoopGroup{
		completionSignal: make(chan struct{}),
	}
}

// BufferingFinished marks the producer loop as done.
func (g *LoopGroup) BufferingFinished() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.bufferingFinished {
		return
	}
	g.bufferingFinished = true
	if g.displayFinished {
		close(g.completionSignal)
	}
}

// DisplayFinished marks the consumer loop as done.
func (g *LoopGroup) DisplayFinished() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.displayFinished {
		return
	}
	g.displayFinished = true
	if g.bufferingFinished {
		close(g.completionSignal)
	}
}

// BufferingDone reports whether the producer loop has finished.
func (g *LoopGroup) BufferingDone() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bufferingFinished
}

// Done returns a channel closed when both loops have completed.
func (g *LoopGroup) Done() <-chan struct{} {
	return g.completionSignal
}

// JoinTimeout waits for both loops up to the given bound. Returns false
// when the wait timed out and the loops were abandoned.
func (g *LoopGroup) JoinTimeout(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-g.completionSignal:
		return true
	case <-timer.C:
		return false
	}
}

// Reset prepares the group for a fresh session.
func (g *LoopGroup) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.bufferingFinished = false
	g.displayFinished = false
	g.completionSignal = make(chan struct{})
}
