package main

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// CONFIG_FILE_NAME is resolved relative to the user's home directory.
const CONFIG_FILE_NAME = ".termplay.yaml"

// Config is the persisted user configuration. Invalid fields fall back
// to their defaults individually instead of rejecting the whole file.
type Config struct {
	Style           string  `yaml:"style"`
	Algorithm       string  `yaml:"algorithm"`
	Quality         string  `yaml:"quality"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	BufferSize      int     `yaml:"buffer_size"`
	MaxThreads      int     `yaml:"max_threads"`
	DefaultSpeed    float64 `yaml:"default_speed"`
	UseThreading    bool    `yaml:"use_threading"`
	EnhanceContrast bool    `yaml:"enhance_contrast"`
	AdaptiveQuality bool    `yaml:"adaptive_quality"`
	ShowUI          bool    `yaml:"show_ui"`
	ShowPerformance bool    `yaml:"show_performance"`
	HQVideo         bool    `yaml:"hq_video"`
	ReduceFlicker   bool    `yaml:"reduce_flicker"`
	LockDimensions  bool    `yaml:"lock_dimensions"`
	CharPixelWidth  int     `yaml:"char_pixel_width"`
	CharPixelHeight int     `yaml:"char_pixel_height"`
	LogLevel        string  `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		Style:           "detailed",
		Algorithm:       "luminance",
		Quality:         string(QUALITY_AUTO),
		Width:           0,
		Height:          0,
		BufferSize:      10,
		MaxThreads:      4,
		DefaultSpeed:    1.0,
		UseThreading:    true,
		EnhanceContrast: false,
		AdaptiveQuality: true,
		ShowUI:          true,
		ShowPerformance: false,
		HQVideo:         false,
		ReduceFlicker:   true,
		LockDimensions:  false,
		CharPixelWidth:  10,
		CharPixelHeight: 20,
		LogLevel:        "error",
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "resolving home directory")
	}
	return filepath.Join(home, CONFIG_FILE_NAME), nil
}

// LoadConfig reads the user config file. A missing file yields the
// defaults; an unreadable or unparsable file is reported but still
// yields the defaults so playback can proceed.
func LoadConfig() Config {
	cfg := DefaultConfig()
	path, err := configPath()
	if err != nil {
		logger.Error("config", "%v", err)
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Error("config", "reading %s: %v", path, err)
		}
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("config", "parsing %s: %v", path, err)
		return DefaultConfig()
	}
	return cfg.Validated()
}

// Validated returns a copy with every out-of-range or unknown field
// replaced by its default. Each replacement is reported individually.
func (c Config) Validated() Config {
	def := DefaultConfig()
	out := c

	if _, err := PaletteByName(c.Style); err != nil {
		reportConfigError("style", "unknown palette name", &out.Style, def.Style)
	}
	if _, err := AlgorithmByName(c.Algorithm); err != nil {
		reportConfigError("algorithm", "unknown algorithm name", &out.Algorithm, def.Algorithm)
	}
	if _, err := QualityByName(c.Quality); err != nil {
		reportConfigError("quality", "unknown quality tier", &out.Quality, def.Quality)
	}
	if c.Width < 0 {
		reportConfigError("width", "must not be negative", &out.Width, def.Width)
	}
	if c.Height < 0 {
		reportConfigError("height", "must not be negative", &out.Height, def.Height)
	}
	if c.BufferSize < 1 || c.BufferSize > 100 {
		reportConfigError("buffer_size", "must be between 1 and 100", &out.BufferSize, def.BufferSize)
	}
	if c.MaxThreads < 1 || c.MaxThreads > 16 {
		reportConfigError("max_threads", "must be between 1 and 16", &out.MaxThreads, def.MaxThreads)
	}
	if c.DefaultSpeed < SPEED_MIN || c.DefaultSpeed > SPEED_MAX {
		reportConfigError("default_speed", "outside the supported range", &out.DefaultSpeed, def.DefaultSpeed)
	}
	if c.CharPixelWidth < 1 {
		reportConfigError("char_pixel_width", "must be positive", &out.CharPixelWidth, def.CharPixelWidth)
	}
	if c.CharPixelHeight < 1 {
		reportConfigError("char_pixel_height", "must be positive", &out.CharPixelHeight, def.CharPixelHeight)
	}
	switch c.LogLevel {
	case "none", "error", "info", "debug":
	default:
		reportConfigError("log_level", "unknown log level", &out.LogLevel, def.LogLevel)
	}
	return out
}

func reportConfigError[T any](field, reason string, dst *T, fallback T) {
	err := &ConfigError{Field: field, Reason: reason}
	logger.Error("config", "%v, using default %v", err, fallback)
	*dst = fallback
}

// Save writes the config to the user config file.
func (c Config) Save() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ApplyPreset overlays a named tuning preset on the config. Unknown
// names leave the config untouched.
func (c Config) ApplyPreset(name string) (Config, error) {
	out := c
	switch name {
	case "":
		return out, nil
	case "performance":
		out.Style = "minimal"
		out.Algorithm = "average"
		out.Quality = string(QUALITY_STANDARD)
		out.UseThreading = true
		out.MaxThreads = 8
		out.EnhanceContrast = false
		out.AdaptiveQuality = true
	case "quality":
		out.Style = "detailed"
		out.Algorithm = "adaptive_4k"
		out.Quality = string(QUALITY_4K)
		out.HQVideo = true
		out.EnhanceContrast = true
		out.AdaptiveQuality = false
	case "minimal":
		out.Style = "minimal"
		out.Algorithm = "luminance"
		out.Quality = string(QUALITY_STANDARD)
		out.ShowUI = false
		out.ShowPerformance = false
		out.UseThreading = false
	case "presentation":
		out.Style = "blocks"
		out.Algorithm = "edge_enhanced"
		out.Quality = string(QUALITY_AUTO)
		out.ReduceFlicker = true
		out.ShowUI = false
	default:
		return c, &ConfigError{Field: "preset", Reason: "unknown preset " + name}
	}
	return out, nil
}
