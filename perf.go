package main

import (
	"os"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

const (
	// Rolling window of per-frame processing durations.
	FRAME_HISTORY_SIZE = 60
	// Interval between CPU/memory samples.
	SYSTEM_SAMPLE_INTERVAL = 500 * time.Millisecond

	// Thresholds for the advisory quality recommendation.
	FPS_DISABLE_THREADING = 15.0
	FPS_REDUCE_WORKERS    = 25.0
	CPU_TRIM_THRESHOLD    = 80.0
)

// PerformanceStats is a snapshot of measured rendering performance.
type PerformanceStats struct {
	FPS             float64
	FrameTimeMs     float64
	CPUPercent      float64
	MemoryMB        float64
	FramesProcessed uint64
	RuntimeSeconds  float64
}

// Recommendation is advisory: consumers may ignore it but expose a
// hook for it (Converter.Apply).
type Recommendation struct {
	UseThreading    bool
	EnhanceContrast bool
	MaxWorkers      int
}

// PerformanceMonitor keeps a bounded rolling window of frame durations
// and periodically samples process CPU and resident memory. Derived fps
// is the reciprocal of the window mean. The window is a ring over a
// fixed array, so recording a frame never reallocates.
type PerformanceMonitor struct {
	mu         sync.Mutex
	frameTimes [FRAME_HISTORY_SIZE]time.Duration
	head       int
	count      int
	lastFrame  time.Duration
	processed  uint64
	cpuPercent float64
	memoryMB   float64
	startTime  time.Time

	defaultWorkers int
	proc           *process.Process
	stop           chan struct{}
	stopOnce       sync.Once
	done           chan struct{}
}

func NewPerformanceMonitor(defaultWorkers int) *PerformanceMonitor {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		// Sampling becomes a no-op; frame timing still works.
		logger.Error("perf", "could not open own process handle: %v", err)
		proc = nil
	}
	return &PerformanceMonitor{
		startTime:      time.Now(),
		defaultWorkers: max(1, defaultWorkers),
		proc:           proc,
		stop:           make(chan struct{}),
		done:           make(chan struct{}),
	}
}

// Start launches the background CPU/memory sampler.
func (m *PerformanceMonitor) Start() {
	go m.sample()
}

// Stop halts the sampler and waits for it to exit.
func (m *PerformanceMonitor) Stop() {
	m.stopOnce.Do(func() { close(m.stop) })
	<-m.done
}

func (m *PerformanceMonitor) sample() {
	defer close(m.done)
	ticker := time.NewTicker(SYSTEM_SAMPLE_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if m.proc == nil {
				continue
			}
			// Best effort: a failed sample keeps the previous value.
			cpu, err := m.proc.CPUPercent()
			mem, err2 := m.proc.MemoryInfo()
			m.mu.Lock()
			if err == nil {
				m.cpuPercent = cpu
			}
			if err2 == nil && mem != nil {
				m.memoryMB = float64(mem.RSS) / 1024 / 1024
			}
			m.mu.Unlock()
		}
	}
}

// RecordFrame records the processing duration of one displayed frame.
func (m *PerformanceMonitor) RecordFrame(start time.Time) {
	elapsed := time.Since(start)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frameTimes[m.head] = elapsed
	m.head = (m.head + 1) % FRAME_HISTORY_SIZE
	if m.count < FRAME_HISTORY_SIZE {
		m.count++
	}
	m.lastFrame = elapsed
	m.processed++
}

// FPS derives the measured frame rate from the rolling window.
func (m *PerformanceMonitor) FPS() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fpsLocked()
}

func (m *PerformanceMonitor) fpsLocked() float64 {
	if m.count == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range m.frameTimes[:m.count] {
		total += d
	}
	mean := total / time.Duration(m.count)
	if mean <= 0 {
		return 0
	}
	return float64(time.Second) / float64(mean)
}

// Summary returns a consistent snapshot of all measurements.
func (m *PerformanceMonitor) Summary() PerformanceStats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return PerformanceStats{
		FPS:             m.fpsLocked(),
		FrameTimeMs:     float64(m.lastFrame) / float64(time.Millisecond),
		CPUPercent:      m.cpuPercent,
		MemoryMB:        m.memoryMB,
		FramesProcessed: m.processed,
		RuntimeSeconds:  time.Since(m.startTime).Seconds(),
	}
}

// Recommend degrades concurrency and contrast enhancement as measured
// fps drops, and trims workers further under CPU pressure. Advisory
// only.
func (m *PerformanceMonitor) Recommend() Recommendation {
	m.mu.Lock()
	fps := m.fpsLocked()
	cpu := m.cpuPercent
	samples := m.count
	m.mu.Unlock()

	rec := Recommendation{
		UseThreading:    true,
		EnhanceContrast: true,
		MaxWorkers:      m.defaultWorkers,
	}
	if samples < 5 {
		// Not enough signal yet.
		return rec
	}

	if fps < FPS_DISABLE_THREADING {
		rec.UseThreading = false
		rec.EnhanceContrast = false
	} else if fps < FPS_REDUCE_WORKERS {
		rec.MaxWorkers = min(rec.MaxWorkers, 2)
	}

	if cpu > CPU_TRIM_THRESHOLD {
		rec.MaxWorkers = max(1, rec.MaxWorkers-1)
		rec.EnhanceContrast = false
	}
	return rec
}
