package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
)

// Command line arguments not carried in the config.
var (
	userStyle     string
	userAlgorithm string
	userQuality   string
	userPreset    string
	userWidth     int
	userHeight    int
	userFPS       float64
	userSpeed     float64
	userBuffer    int
	userThreads   int
	noUI          bool
	noPerf        bool
	hqVideo       bool
	noFlicker     bool
	lock1440p     bool
	charPxW       int
	charPxH       int
	logFile       string
	showSummary   bool
)

var activeInput *inputReader

// Cleanup, print the error and quit.
func raiseErr(err error) {
	onExit()
	fmt.Fprintln(os.Stderr, "Error: "+err.Error())
	os.Exit(1)
}

// Restores the terminal and releases the logger.
func onExit() {
	if activeInput != nil {
		activeInput.Restore()
	}
	exitAlternateBuffer()
	showCursor()
	logger.Close()
}

// Catches SIGINT/SIGTERM, stops playback and restores the terminal.
func catchSIGINT(p *Player) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	p.Stop()
	onExit()
	os.Exit(0)
}

func parseArgs() string {
	flag.StringVar(&userStyle, "style", "", "Character palette: minimal, detailed, blocks, gradient, light, dark")
	flag.StringVar(&userAlgorithm, "algo", "", "Brightness algorithm: luminance, average, lightness, custom_weighted, edge_enhanced, super_resolution, adaptive_4k, neural_upscale")
	flag.StringVar(&userQuality, "quality", "", "Quality tier: standard, auto, 4k, 6k, 8k")
	flag.StringVar(&userPreset, "preset", "", "Tuning preset: performance, quality, minimal, presentation")
	flag.IntVar(&userWidth, "w", 0, "Output width in characters. Planned from the terminal size if 0.")
	flag.IntVar(&userHeight, "h", 0, "Output height in characters. Planned from the terminal size if 0.")
	flag.Float64Var(&userFPS, "fps", 0, "Override the playback frame rate. Defaults to the media's fps.")
	flag.Float64Var(&userSpeed, "speed", 0, "Initial speed multiplier (0.1 to 5.0).")
	flag.IntVar(&userBuffer, "buffer", 0, "Frame buffer capacity (1 to 100).")
	flag.IntVar(&userThreads, "threads", 0, "Worker goroutines for conversion (1 to 16).")
	flag.BoolVar(&noUI, "no-ui", false, "Hide the status overlay")
	flag.BoolVar(&noPerf, "no-perf", false, "Hide the performance overlay")
	flag.BoolVar(&hqVideo, "hq-video", false, "Allow upscaling quality tiers for video, not just images")
	flag.BoolVar(&noFlicker, "no-flicker", false, "Disable flicker reduction (full clear every frame)")
	flag.BoolVar(&lock1440p, "lock-1440p", false, "Pin the output grid to a 1440p-equivalent size, ignoring resizes")
	flag.IntVar(&charPxW, "char-px-w", 0, "Assumed character cell width in pixels for -lock-1440p")
	flag.IntVar(&charPxH, "char-px-h", 0, "Assumed character cell height in pixels for -lock-1440p")
	flag.StringVar(&logFile, "log", "", "Write debug logs to this file")
	flag.BoolVar(&showSummary, "summary", false, "Print a performance summary after playback")
	showHelp := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *showHelp {
		flag.CommandLine.SetOutput(os.Stdout)
		fmt.Println("Usage: termplay [options] <media file>")
		flag.PrintDefaults()
		os.Exit(0)
	}

	path := flag.Arg(0)
	if path == "" {
		raiseErr(errors.New("no media file specified"))
	}
	return path
}

func logLevelByName(name string) int {
	switch name {
	case "none":
		return LOG_NONE
	case "error":
		return LOG_ERROR
	case "info":
		return LOG_INFO
	case "debug":
		return LOG_DEBUG
	default:
		return LOG_ERROR
	}
}

// buildOptions merges the config file with the command line flags; flags
// win where set.
func buildOptions(cfg Config) (PlayerOptions, error) {
	if userStyle != "" {
		cfg.Style = userStyle
	}
	if userAlgorithm != "" {
		cfg.Algorithm = userAlgorithm
	}
	if userQuality != "" {
		cfg.Quality = userQuality
	}
	if userWidth > 0 {
		cfg.Width = userWidth
	}
	if userHeight > 0 {
		cfg.Height = userHeight
	}
	if userSpeed > 0 {
		cfg.DefaultSpeed = userSpeed
	}
	if userBuffer > 0 {
		cfg.BufferSize = userBuffer
	}
	if userThreads > 0 {
		cfg.MaxThreads = userThreads
	}
	if noUI {
		cfg.ShowUI = false
	}
	if noPerf {
		cfg.ShowPerformance = false
	}
	if hqVideo {
		cfg.HQVideo = true
	}
	if noFlicker {
		cfg.ReduceFlicker = false
	}
	if lock1440p {
		cfg.LockDimensions = true
	}
	if charPxW > 0 {
		cfg.CharPixelWidth = charPxW
	}
	if charPxH > 0 {
		cfg.CharPixelHeight = charPxH
	}
	cfg = cfg.Validated()

	palette, err := PaletteByName(cfg.Style)
	if err != nil {
		return PlayerOptions{}, err
	}
	algorithm, err := AlgorithmByName(cfg.Algorithm)
	if err != nil {
		return PlayerOptions{}, err
	}
	quality, err := QualityByName(cfg.Quality)
	if err != nil {
		return PlayerOptions{}, err
	}

	return PlayerOptions{
		Palette:         palette,
		Algorithm:       algorithm,
		Quality:         quality,
		BufferSize:      cfg.BufferSize,
		MaxWorkers:      cfg.MaxThreads,
		UseThreading:    cfg.UseThreading,
		EnhanceContrast: cfg.EnhanceContrast,
		AdaptiveQuality: cfg.AdaptiveQuality,
		HQVideo:         cfg.HQVideo,
		ReduceFlicker:   cfg.ReduceFlicker,
		LockDimensions:  cfg.LockDimensions,
		CharPxW:         cfg.CharPixelWidth,
		CharPxH:         cfg.CharPixelHeight,
		FixedCols:       cfg.Width,
		FixedRows:       cfg.Height,
		FPSOverride:     userFPS,
		Speed:           cfg.DefaultSpeed,
		ShowUI:          cfg.ShowUI,
		ShowPerf:        cfg.ShowPerformance,
	}, nil
}

func main() {
	path := parseArgs()

	if logFile != "" {
		f, err := os.Create(logFile)
		if err != nil {
			raiseErr(errors.Wrap(err, "creating log file"))
		}
		logger.SetOutput(f)
	}

	cfg := LoadConfig()
	logger.SetLevel(logLevelByName(cfg.LogLevel))
	cfg, err := cfg.ApplyPreset(userPreset)
	if err != nil {
		raiseErr(err)
	}

	opts, err := buildOptions(cfg)
	if err != nil {
		raiseErr(err)
	}

	player := NewPlayer(opts)
	if err := player.Load(path); err != nil {
		raiseErr(err)
	}
	defer player.Close()

	info := player.sourceInfo()
	geo := player.Geometry()
	if info.IsImage {
		fmt.Printf("%s  %dx%d px -> %dx%d chars\n", info.Path, info.Width, info.Height, geo.Cols, geo.Rows)
	} else {
		fmt.Printf("%s  %dx%d px @ %.2f fps, %d frames -> %dx%d chars\n",
			info.Path, info.Width, info.Height, info.FPS, info.FrameCount, geo.Cols, geo.Rows)
	}

	go catchSIGINT(player)

	activeInput = newInputReader(player)
	activeInput.Start()

	enterAlternateBuffer()
	hideCursor()

	err = player.Play()
	onExit()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		os.Exit(1)
	}

	if showSummary {
		s := player.perf.Summary()
		fmt.Printf("frames %d  fps %.1f  cpu %.0f%%  mem %.0fMB  runtime %.1fs\n",
			s.FramesProcessed, s.FPS, s.CPUPercent, s.MemoryMB, s.RuntimeSeconds)
	}
}
