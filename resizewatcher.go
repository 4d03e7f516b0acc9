package main

import (
	"time"
)

// Interval between terminal size polls.
const RESIZE_POLL_INTERVAL = 100 * time.Millisecond

// watchResize polls the terminal size and replans the output geometry
// when it changes. With locked or explicitly fixed dimensions the size
// change is still observed but the grid is left alone.
func (p *Player) watchResize(done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(RESIZE_POLL_INTERVAL)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			changed, err := termData.UpdateSize()
			if err != nil {
				// Last known size stays in effect.
				logger.Error("resize", "querying terminal size failed: %v", err)
				continue
			}
			if !changed {
				continue
			}
			cols, rows := termData.Size()
			logger.Info("resize", "terminal now %dx%d", cols, rows)
			if p.opts.LockDimensions || (p.opts.FixedCols > 0 && p.opts.FixedRows > 0) {
				continue
			}
			p.recomputeGeometry()
			p.rend.reset()
		}
	}
}
