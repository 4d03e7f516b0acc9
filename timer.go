package main

import (
	"math"
	"time"
)

// pacer keeps frame emissions aligned to the source frame rate scaled
// by the speed multiplier. It compensates separately for per-frame
// processing cost and for cumulative drift against the previous
// emission, so playback speed stays accurate even when processing time
// fluctuates.
type pacer struct {
	fps       float64
	speed     float64
	lastEmit  time.Time
	everEmit  bool
}

func newPacer(fps float64) *pacer {
	return &pacer{fps: fps, speed: 1.0}
}

// setSpeed updates the multiplier. A real change resets the drift
// baseline immediately; reusing the stale one would make the next
// delay computation stutter visibly.
func (p *pacer) setSpeed(speed float64) {
	if math.Abs(speed-p.speed) > 0.01 {
		p.speed = speed
		p.resetBaseline()
	}
}

// resetBaseline forgets the previous emission time, e.g. after pause.
func (p *pacer) resetBaseline() {
	p.lastEmit = time.Now()
	p.everEmit = false
}

func (p *pacer) targetDelay() time.Duration {
	if p.fps <= 0 || p.speed <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / (p.fps * p.speed))
}

// wait sleeps whatever remains of the frame budget after processing
// took its share. If the loop is still ahead of the previous emission,
// the sleep is extended; if processing blew the budget entirely, the
// sleep is skipped (a timing overrun is recovered locally and only
// shows up as degraded measured fps).
func (p *pacer) wait(processing time.Duration, stop <-chan struct{}) {
	target := p.targetDelay()
	if target <= 0 {
		p.markEmit()
		return
	}

	sleep := target - processing
	if sleep < 0 {
		sleep = 0
	}
	if p.everEmit {
		sinceLast := time.Since(p.lastEmit)
		if sinceLast < target && target-sinceLast > sleep {
			sleep = target - sinceLast
		}
	}

	if sleep > 0 {
		sleepInterruptible(sleep, stop)
	}
	p.markEmit()
}

func (p *pacer) markEmit() {
	p.lastEmit = time.Now()
	p.everEmit = true
}

// sleepInterruptible sleeps for d unless the stop channel closes first.
func sleepInterruptible(d time.Duration, stop <-chan struct{}) {
	if stop == nil {
		time.Sleep(d)
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-stop:
	}
}
