package main

import (
	"image"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

const (
	// Dequeue wait before the display loop checks for shutdown.
	DEQUEUE_TIMEOUT = 100 * time.Millisecond
	// Idle between retries when the buffer is empty or full.
	BUFFER_IDLE = 10 * time.Millisecond
	// Poll interval while paused or showing a still image.
	PAUSE_POLL = 100 * time.Millisecond
	// Bound on joining session loops before abandoning them.
	JOIN_TIMEOUT = 2 * time.Second
	// Frames between applications of the adaptive quality hint.
	ADAPT_EVERY_FRAMES = 60

	SPEED_MIN  = 0.1
	SPEED_MAX  = 5.0
	SPEED_STEP = 0.1
)

// PlaybackState is a snapshot of the session for the UI and callers.
type PlaybackState struct {
	IsPlaying       bool
	IsPaused        bool
	CurrentPosition int
	TotalPositions  int
	Speed           float64
	FPS             float64
}

// PlayerOptions is the immutable configuration of a player instance.
type PlayerOptions struct {
	Palette         Palette
	Algorithm       BrightnessAlgorithm
	Quality         Quality
	BufferSize      int
	MaxWorkers      int
	UseThreading    bool
	EnhanceContrast bool
	AdaptiveQuality bool

	// HQVideo lets videos use the configured quality tier; otherwise
	// they plan at standard to avoid upscaling every frame.
	HQVideo       bool
	ReduceFlicker bool

	// LockDimensions pins the output grid to the 1440p-equivalent
	// mapping and ignores terminal resizes.
	LockDimensions   bool
	CharPxW, CharPxH int

	// Explicit overrides; 0 means planned automatically.
	FixedCols, FixedRows int

	FPSOverride float64
	Speed       float64
	ShowUI      bool
	ShowPerf    bool

	// Output defaults to stdout; tests substitute a buffer.
	Output io.Writer
}

// Player owns one active media session at a time: the frame source, the
// buffering and display loops, the resize watcher, and the performance
// monitor. Loading new media fully stops and joins the previous session
// before swapping the source.
type Player struct {
	opts      PlayerOptions
	converter *Converter
	perf      *PerformanceMonitor

	mu       sync.Mutex
	source   FrameSource
	buffer   *FrameBuffer
	position int
	speed    float64
	playing  bool
	showUI   bool
	showPerf bool

	// sourceMu serializes NextFrame against Seek.
	sourceMu sync.Mutex

	paused    atomic.Bool
	geometry  atomic.Pointer[Geometry]
	uiVersion atomic.Uint64

	stop     chan struct{}
	stopOnce *sync.Once
	loops    *LoopGroup
	rend     *renderer
}

func NewPlayer(opts PlayerOptions) *Player {
	if opts.BufferSize < 1 {
		opts.BufferSize = 10
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 4
	}
	if opts.Speed < SPEED_MIN || opts.Speed > SPEED_MAX {
		opts.Speed = 1.0
	}
	if len(opts.Palette) < 2 {
		opts.Palette = PALETTE_DETAILED
	}
	if opts.CharPxW == 0 {
		opts.CharPxW = 10
	}
	if opts.CharPxH == 0 {
		opts.CharPxH = 20
	}

	p := &Player{
		opts: opts,
		converter: NewConverter(opts.Palette, opts.Algorithm,
			opts.MaxWorkers, opts.UseThreading, opts.EnhanceContrast),
		perf:     NewPerformanceMonitor(opts.MaxWorkers),
		buffer:   NewFrameBuffer(opts.BufferSize),
		speed:    opts.Speed,
		showUI:   opts.ShowUI,
		showPerf: opts.ShowPerf,
		stop:     make(chan struct{}),
		stopOnce: &sync.Once{},
		loops:    NewLoopGroup(),
	}
	p.geometry.Store(&Geometry{Cols: 80, Rows: 24})
	return p
}

// Load opens a media file, replacing any active session. The previous
// session's loops are stopped and joined (bounded) before the source is
// swapped and playback state reset.
func (p *Player) Load(path string) error {
	p.stopSession()

	source, err := OpenMedia(path)
	if err != nil {
		return err
	}

	p.mu.Lock()
	if p.source != nil {
		p.source.Close()
	}
	p.source = source
	p.buffer = NewFrameBuffer(p.opts.BufferSize)
	p.position = 0
	p.mu.Unlock()

	p.paused.Store(false)
	p.stop = make(chan struct{})
	p.stopOnce = &sync.Once{}
	p.loops.Reset()

	termData.UpdateSize()
	p.recomputeGeometry()

	info := source.Info()
	logger.Info("player", "loaded %s (%dx%d, fps %.2f, frames %d)",
		info.Path, info.Width, info.Height, info.FPS, info.FrameCount)
	return nil
}

// Play runs the session until the media ends or Stop is called. It
// blocks the caller; runtime controls arrive from other goroutines.
func (p *Player) Play() error {
	p.mu.Lock()
	if p.source == nil {
		p.mu.Unlock()
		return errors.New("no media loaded")
	}
	p.playing = true
	p.mu.Unlock()

	p.rend = newRenderer(p.opts.Output, p.opts.ReduceFlicker)
	p.perf.Start()

	watcherDone := make(chan struct{})
	go p.watchResize(watcherDone)
	go p.bufferLoop()
	go p.displayLoop()

	<-p.loops.Done()
	p.signalStop()

	select {
	case <-watcherDone:
	case <-time.After(JOIN_TIMEOUT):
		logger.Error("player", "resize watcher did not exit in time")
	}
	p.perf.Stop()

	p.mu.Lock()
	p.playing = false
	p.mu.Unlock()
	return nil
}

// Stop broadcasts shutdown to all session loops. They observe it within
// one polling interval.
func (p *Player) Stop() {
	p.signalStop()
}

func (p *Player) signalStop() {
	p.stopOnce.Do(func() { close(p.stop) })
}

// stopSession stops and joins an active session. A join timeout
// abandons the loops daemon-style instead of hanging cleanup.
func (p *Player) stopSession() {
	p.mu.Lock()
	active := p.playing
	p.mu.Unlock()
	if !active {
		return
	}
	p.signalStop()
	if !p.loops.JoinTimeout(JOIN_TIMEOUT) {
		logger.Error("player", "session loops did not exit in time, abandoning")
	}
}

// Close releases the player's resources.
func (p *Player) Close() {
	p.stopSession()
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source != nil {
		p.source.Close()
		p.source = nil
	}
}

func (p *Player) stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// --- producer ---

// bufferLoop pulls frames from the source and enqueues them while the
// buffer has capacity and playback is not paused. A full buffer drops
// the frame (position still advances); the producer never blocks on the
// consumer.
func (p *Player) bufferLoop() {
	defer p.loops.BufferingFinished()

	info := p.sourceInfo()
	if info.IsImage {
		p.sourceMu.Lock()
		frame, err := p.source.NextFrame()
		p.sourceMu.Unlock()
		if err == nil {
			p.buffer.TryEnqueue(0, frame)
		}
		// A still image is enqueued once; the loop then only waits
		// for shutdown.
		for !p.stopped() {
			sleepInterruptible(PAUSE_POLL, p.stop)
		}
		return
	}

	for !p.stopped() {
		if p.paused.Load() || p.buffer.Len() >= p.buffer.Cap() {
			sleepInterruptible(BUFFER_IDLE, p.stop)
			continue
		}

		p.sourceMu.Lock()
		frame, err := p.source.NextFrame()
		p.sourceMu.Unlock()
		if err == io.EOF {
			logger.Info("buffering", "source exhausted after %d frames", p.currentPosition())
			return
		}
		if err != nil {
			logger.Error("buffering", "reading frame failed: %v", err)
			return
		}

		pos := p.advancePosition()
		if !p.buffer.TryEnqueue(pos, frame) {
			logger.Debug("buffering", "buffer full, dropped frame %d", pos)
		}
	}
}

func (p *Player) advancePosition() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	pos := p.position
	p.position++
	return pos
}

func (p *Player) currentPosition() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.position
}

// --- consumer ---

// displayLoop dequeues frames, converts them, writes them to the
// terminal and paces emissions to the target rate.
func (p *Player) displayLoop() {
	defer p.loops.DisplayFinished()

	info := p.sourceInfo()
	pac := newPacer(p.targetFPS(info))
	framesShown := 0

	for !p.stopped() {
		pac.setSpeed(p.Speed())

		if p.paused.Load() {
			sleepInterruptible(PAUSE_POLL, p.stop)
			pac.resetBaseline()
			continue
		}

		item, ok := p.buffer.Dequeue(DEQUEUE_TIMEOUT)
		if !ok {
			if !info.IsImage && p.loops.BufferingDone() && p.buffer.Len() == 0 {
				logger.Info("display", "playback complete")
				return
			}
			sleepInterruptible(BUFFER_IDLE, p.stop)
			continue
		}

		start := time.Now()
		// Geometry is read once per frame; a concurrent resize can
		// only affect the next frame.
		geo := *p.geometry.Load()
		art := p.converter.Convert(item.Frame, geo)
		p.rend.render(art, p.statusLines(item.Position))
		p.perf.RecordFrame(start)
		framesShown++

		if p.opts.AdaptiveQuality && framesShown%ADAPT_EVERY_FRAMES == 0 {
			p.converter.Apply(p.perf.Recommend())
		}

		if info.IsImage {
			p.idleOnImage(item.Frame, geo)
			continue
		}

		pac.wait(time.Since(start), p.stop)
	}
}

// idleOnImage parks the display loop after rendering a still image,
// re-rendering only when the output geometry or UI state changes.
func (p *Player) idleOnImage(frame *image.RGBA, lastGeo Geometry) {
	lastUI := p.uiVersion.Load()
	for !p.stopped() {
		sleepInterruptible(PAUSE_POLL, p.stop)
		geo := *p.geometry.Load()
		ui := p.uiVersion.Load()
		if geo != lastGeo || ui != lastUI {
			p.rend.reset()
			art := p.converter.Convert(frame, geo)
			p.rend.render(art, p.statusLines(0))
			lastGeo = geo
			lastUI = ui
		}
	}
}

func (p *Player) targetFPS(info MediaInfo) float64 {
	if p.opts.FPSOverride > 0 {
		return p.opts.FPSOverride
	}
	return info.FPS
}

func (p *Player) sourceInfo() MediaInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.source == nil {
		return MediaInfo{}
	}
	return p.source.Info()
}

// --- geometry ---

// recomputeGeometry replans the output grid from the current terminal
// size, frame dimensions and quality tier, and swaps it in atomically.
func (p *Player) recomputeGeometry() {
	info := p.sourceInfo()
	if info.Width == 0 {
		return
	}

	var geo Geometry
	switch {
	case p.opts.FixedCols > 0 && p.opts.FixedRows > 0:
		geo = Geometry{Cols: p.opts.FixedCols, Rows: p.opts.FixedRows}
	case p.opts.LockDimensions:
		cols, rows := termData.Size()
		geo = PlanLockedGrid(cols, rows, info.Width, info.Height, p.opts.CharPxW, p.opts.CharPxH)
	default:
		cols, rows := termData.Size()
		geo = PlanDimensions(cols, rows, info.Width, info.Height, p.effectiveQuality(info))
	}
	p.geometry.Store(&geo)
	logger.Info("player", "output geometry %dx%d", geo.Cols, geo.Rows)
}

// effectiveQuality degrades videos to the standard tier unless HQ video
// is enabled; upscaling every frame of a video is rarely worth it.
func (p *Player) effectiveQuality(info MediaInfo) Quality {
	if !info.IsImage && !p.opts.HQVideo {
		return QUALITY_STANDARD
	}
	return p.opts.Quality
}

// Geometry returns the current output grid.
func (p *Player) Geometry() Geometry {
	return *p.geometry.Load()
}

// --- runtime controls ---

// TogglePause flips the pause flag read by both loops.
func (p *Player) TogglePause() {
	paused := !p.paused.Load()
	p.paused.Store(paused)
	p.uiVersion.Add(1)
	logger.Info("player", "paused: %v", paused)
}

// ChangeSpeed adjusts the speed multiplier by delta, clamped to the
// valid range.
func (p *Player) ChangeSpeed(delta float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.speed = min(SPEED_MAX, max(SPEED_MIN, p.speed+delta))
	logger.Info("player", "speed: %.1fx", p.speed)
}

func (p *Player) Speed() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.speed
}

// Seek repositions playback. The buffer is drained so stale frames are
// never displayed. No-op for still images.
func (p *Player) Seek(position int) error {
	info := p.sourceInfo()
	if info.IsImage {
		return nil
	}
	if position < 0 {
		position = 0
	}
	if info.FrameCount > 0 && position >= info.FrameCount {
		position = info.FrameCount - 1
	}

	p.sourceMu.Lock()
	err := p.source.Seek(position)
	p.sourceMu.Unlock()
	if err != nil {
		return errors.Wrap(err, "seeking")
	}

	p.buffer.Drain()
	p.mu.Lock()
	p.position = position
	p.mu.Unlock()
	logger.Info("player", "seeked to frame %d", position)
	return nil
}

// Restart rewinds to the first frame.
func (p *Player) Restart() error {
	return p.Seek(0)
}

// ToggleUI shows or hides the status lines.
func (p *Player) ToggleUI() {
	p.mu.Lock()
	p.showUI = !p.showUI
	p.mu.Unlock()
	p.uiVersion.Add(1)
	if p.rend != nil {
		p.rend.reset()
	}
}

// TogglePerfOverlay shows or hides the performance portion of the UI.
func (p *Player) TogglePerfOverlay() {
	p.mu.Lock()
	p.showPerf = !p.showPerf
	p.mu.Unlock()
	p.uiVersion.Add(1)
}

// State returns a snapshot of the playback state.
func (p *Player) State() PlaybackState {
	info := p.sourceInfo()
	p.mu.Lock()
	defer p.mu.Unlock()
	return PlaybackState{
		IsPlaying:       p.playing,
		IsPaused:        p.paused.Load(),
		CurrentPosition: p.position,
		TotalPositions:  info.FrameCount,
		Speed:           p.speed,
		FPS:             info.FPS,
	}
}

// ProcessKey dispatches one key press from the input reader.
func (p *Player) ProcessKey(key byte) {
	switch key {
	case 'q', 'Q', 3: // 3 is ctrl-c in raw mode
		p.Stop()
	case ' ':
		p.TogglePause()
	case '+', '=':
		p.ChangeSpeed(SPEED_STEP)
	case '-':
		p.ChangeSpeed(-SPEED_STEP)
	case 'r', 'R':
		if err := p.Restart(); err != nil {
			logger.Error("player", "restart failed: %v", err)
		}
	case 'f', 'F':
		p.ToggleUI()
	case 'p', 'P':
		p.TogglePerfOverlay()
	}
}
