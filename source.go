package main

import (
	"context"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	ffmpeg "github.com/u2takey/ffmpeg-go"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	ffprobe "gopkg.in/vansante/go-ffprobe.v2"
)

const PROBE_TIMEOUT = 5 * time.Second

// MediaInfo is the frame source metadata: dimensions, frame rate, and
// frame count. A still image has FrameCount 1 and no meaningful FPS.
type MediaInfo struct {
	Path       string
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	IsImage    bool
}

// FrameSource yields sequential pixel frames from an opened media file.
// Implementations are not safe for concurrent use; the player
// serializes access.
type FrameSource interface {
	Info() MediaInfo
	// NextFrame returns the next decoded frame, or io.EOF when the
	// source is exhausted.
	NextFrame() (*image.RGBA, error)
	// Seek repositions the source at the given frame position.
	Seek(position int) error
	Close() error
}

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".bmp": true,
	".tiff": true, ".tif": true, ".webp": true, ".gif": true,
}

// OpenMedia opens a video or still image and returns a frame source.
// Failures are SourceErrors: fatal to this load, not to the program.
func OpenMedia(path string) (FrameSource, error) {
	if err := validateExistence(path); err != nil {
		return nil, err
	}
	if imageExtensions[strings.ToLower(filepath.Ext(path))] {
		return openImage(path)
	}
	return openVideo(path)
}

func validateExistence(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return sourceErr(path, errors.New("file not found"))
		}
		return sourceErr(path, err)
	}
	if info.IsDir() {
		return sourceErr(path, errors.New("is a directory"))
	}
	return nil
}

// --- still image source ---

type imageSource struct {
	info  MediaInfo
	frame *image.RGBA
	pos   int
}

func openImage(path string) (*imageSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sourceErr(path, err)
	}
	defer f.Close()

	decoded, _, err := image.Decode(f)
	if err != nil {
		return nil, sourceErr(path, errors.Wrap(err, "decoding image"))
	}

	bounds := decoded.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, decoded, bounds.Min, draw.Src)

	return &imageSource{
		info: MediaInfo{
			Path:       path,
			Width:      bounds.Dx(),
			Height:     bounds.Dy(),
			FPS:        0,
			FrameCount: 1,
			IsImage:    true,
		},
		frame: rgba,
	}, nil
}

func (s *imageSource) Info() MediaInfo { return s.info }

func (s *imageSource) NextFrame() (*image.RGBA, error) {
	if s.pos > 0 {
		return nil, io.EOF
	}
	s.pos++
	return s.frame, nil
}

func (s *imageSource) Seek(position int) error {
	s.pos = 0
	return nil
}

func (s *imageSource) Close() error {
	s.frame = nil
	return nil
}

// --- video source ---

type videoSource struct {
	info   MediaInfo
	reader *io.PipeReader
}

func openVideo(path string) (*videoSource, error) {
	info, err := probeVideo(path)
	if err != nil {
		return nil, err
	}
	s := &videoSource{info: info}
	s.start(0)
	return s, nil
}

// probeVideo extracts width, height, frame rate and frame count with
// ffprobe. The frame rate arrives as a "num/den" fraction.
func probeVideo(path string) (MediaInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), PROBE_TIMEOUT)
	defer cancel()

	data, err := ffprobe.ProbeURL(ctx, path)
	if err != nil {
		return MediaInfo{}, sourceErr(path, errors.Wrap(err, "probing media"))
	}

	for _, stream := range data.Streams {
		if stream.CodecType != "video" {
			continue
		}
		if stream.Width < 1 || stream.Height < 1 {
			return MediaInfo{}, sourceErr(path,
				errors.Errorf("invalid video dimensions %dx%d", stream.Width, stream.Height))
		}
		fps, err := parseFrameRate(stream.AvgFrameRate)
		if err != nil {
			return MediaInfo{}, sourceErr(path, err)
		}

		frames := 0
		if n, err := strconv.Atoi(stream.NbFrames); err == nil {
			frames = n
		} else if data.Format != nil && data.Format.DurationSeconds > 0 {
			frames = int(data.Format.DurationSeconds * fps)
		}

		return MediaInfo{
			Path:       path,
			Width:      stream.Width,
			Height:     stream.Height,
			FPS:        fps,
			FrameCount: frames,
		}, nil
	}
	return MediaInfo{}, sourceErr(path, errors.New("no video stream found"))
}

func parseFrameRate(raw string) (float64, error) {
	parts := strings.Split(raw, "/")
	if len(parts) != 2 {
		return 0, errors.Errorf("could not parse frame rate %q", raw)
	}
	num, err := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err != nil || err2 != nil || den == 0 {
		return 0, errors.Errorf("could not parse frame rate %q", raw)
	}
	return num / den, nil
}

// start launches an ffmpeg decode pipe producing raw RGBA frames,
// optionally starting at a frame position.
func (s *videoSource) start(fromPosition int) {
	reader, writer := io.Pipe()
	s.reader = reader

	inputArgs := ffmpeg.KwArgs{}
	if fromPosition > 0 && s.info.FPS > 0 {
		inputArgs["ss"] = float64(fromPosition) / s.info.FPS
	}

	go func() {
		err := ffmpeg.Input(s.info.Path, inputArgs).
			Output("pipe:", ffmpeg.KwArgs{
				"format":  "rawvideo",
				"pix_fmt": "rgba",
			}).
			WithOutput(writer).
			Run()
		if err != nil {
			writer.CloseWithError(err)
			return
		}
		writer.Close()
	}()
}

func (s *videoSource) Info() MediaInfo { return s.info }

func (s *videoSource) NextFrame() (*image.RGBA, error) {
	frameSize := s.info.Width * s.info.Height * 4
	buf := make([]byte, frameSize)

	_, err := io.ReadFull(s.reader, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF || errors.Is(err, io.ErrClosedPipe) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, sourceErr(s.info.Path, errors.Wrap(err, "reading frame"))
	}

	return &image.RGBA{
		Pix:    buf,
		Stride: s.info.Width * 4,
		Rect:   image.Rect(0, 0, s.info.Width, s.info.Height),
	}, nil
}

// Seek tears down the decode pipe and restarts it at the target
// position. Best effort: ffmpeg lands on the nearest decodable point.
func (s *videoSource) Seek(position int) error {
	if position < 0 || (s.info.FrameCount > 0 && position >= s.info.FrameCount) {
		return errors.Errorf("seek position %d out of range", position)
	}
	s.reader.Close()
	s.start(position)
	return nil
}

func (s *videoSource) Close() error {
	return s.reader.Close()
}
