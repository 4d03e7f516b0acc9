package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func recordFrames(m *PerformanceMonitor, n int, frameTime time.Duration) {
	for i := 0; i < n; i++ {
		m.RecordFrame(time.Now().Add(-frameTime))
	}
}

func TestPerformanceMonitorFPS(t *testing.T) {
	m := NewPerformanceMonitor(4)
	assert.Equal(t, 0.0, m.FPS(), "no samples yet")

	recordFrames(m, 10, 50*time.Millisecond)
	assert.InDelta(t, 20.0, m.FPS(), 2.0)
}

func TestPerformanceMonitorWindowBounded(t *testing.T) {
	m := NewPerformanceMonitor(4)
	recordFrames(m, FRAME_HISTORY_SIZE*2, 10*time.Millisecond)

	m.mu.Lock()
	window := m.count
	m.mu.Unlock()
	assert.Equal(t, FRAME_HISTORY_SIZE, window)

	s := m.Summary()
	assert.Equal(t, uint64(FRAME_HISTORY_SIZE*2), s.FramesProcessed)
}

func TestPerformanceMonitorWindowEvictsOldest(t *testing.T) {
	m := NewPerformanceMonitor(4)

	// Fill the window with slow frames, then overwrite it entirely
	// with fast ones; only the fast frames may remain visible.
	recordFrames(m, FRAME_HISTORY_SIZE, 100*time.Millisecond)
	recordFrames(m, FRAME_HISTORY_SIZE, 10*time.Millisecond)
	assert.InDelta(t, 100.0, m.FPS(), 10.0)
}

func TestRecommendDefaultsWithFewSamples(t *testing.T) {
	m := NewPerformanceMonitor(6)
	recordFrames(m, 3, 200*time.Millisecond)

	rec := m.Recommend()
	assert.True(t, rec.UseThreading)
	assert.True(t, rec.EnhanceContrast)
	assert.Equal(t, 6, rec.MaxWorkers)
}

func TestRecommendDisablesThreadingWhenSlow(t *testing.T) {
	m := NewPerformanceMonitor(6)
	recordFrames(m, 10, 100*time.Millisecond) // ~10 fps

	rec := m.Recommend()
	assert.False(t, rec.UseThreading)
	assert.False(t, rec.EnhanceContrast)
}

func TestRecommendTrimsWorkersWhenDegraded(t *testing.T) {
	m := NewPerformanceMonitor(6)
	recordFrames(m, 10, 50*time.Millisecond) // ~20 fps

	rec := m.Recommend()
	assert.True(t, rec.UseThreading)
	assert.LessOrEqual(t, rec.MaxWorkers, 2)
}

func TestRecommendHealthyKeepsDefaults(t *testing.T) {
	m := NewPerformanceMonitor(6)
	recordFrames(m, 10, 10*time.Millisecond) // ~100 fps

	rec := m.Recommend()
	assert.True(t, rec.UseThreading)
	assert.Equal(t, 6, rec.MaxWorkers)
}

func TestPerformanceMonitorStartStop(t *testing.T) {
	m := NewPerformanceMonitor(2)
	m.Start()
	time.Sleep(20 * time.Millisecond)
	m.Stop() // must not hang or panic

	s := m.Summary()
	assert.GreaterOrEqual(t, s.RuntimeSeconds, 0.0)
}
