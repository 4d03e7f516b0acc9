package main

import (
	"image"
	"sync/atomic"
	"time"
)

// BufferedFrame is one (position, frame) pair moving from the buffering
// loop to the display loop. Ownership transfers on enqueue/dequeue.
type BufferedFrame struct {
	Position int
	Frame    *image.RGBA
}

// FrameBuffer is the bounded FIFO between producer and consumer. A full
// buffer drops incoming frames instead of blocking the producer;
// dequeue blocks only for a short timeout.
type FrameBuffer struct {
	frames  chan BufferedFrame
	dropped atomic.Uint64
}

func NewFrameBuffer(capacity int) *FrameBuffer {
	return &FrameBuffer{
		frames: make(chan BufferedFrame, max(1, capacity)),
	}
}

// TryEnqueue adds a frame, or drops it when the buffer is full. The
// drop is silent; only the counter records it.
func (b *FrameBuffer) TryEnqueue(position int, frame *image.RGBA) bool {
	select {
	case b.frames <- BufferedFrame{Position: position, Frame: frame}:
		return true
	default:
		b.dropped.Add(1)
		return false
	}
}

// Dequeue waits up to timeout for a frame.
func (b *FrameBuffer) Dequeue(timeout time.Duration) (BufferedFrame, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case f := <-b.frames:
		return f, true
	case <-timer.C:
		return BufferedFrame{}, false
	}
}

// Drain discards everything currently buffered. Used on restart/seek.
func (b *FrameBuffer) Drain() {
	for {
		select {
		case <-b.frames:
		default:
			return
		}
	}
}

func (b *FrameBuffer) Len() int { return len(b.frames) }

func (b *FrameBuffer) Cap() int { return cap(b.frames) }

// Dropped returns the number of frames discarded on a full buffer.
func (b *FrameBuffer) Dropped() uint64 { return b.dropped.Load() }
