package main

import (
	"image"
	"image/draw"

	"github.com/nfnt/resize"
)

// Upscaling tier boundaries, by the larger of the horizontal and
// vertical scale factors. The boundaries and their ordering are a fixed
// contract; the passes behind them are swappable.
const (
	PROGRESSIVE_SCALE_FACTOR = 2.0
	EDGE_PRESERVE_FACTOR     = 1.5
)

// resizeFrame scales a frame to exactly outW x outH pixels, one pixel
// per output character cell. The interpolation strategy is picked by
// scale factor: large upscales go through progressive doubling with a
// denoise+sharpen pass per step, moderate upscales get edge-preserving
// smoothing plus a guided detail pass, everything else is a single
// Lanczos pass.
func resizeFrame(img *image.RGBA, outW, outH int) *image.RGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW < 1 || srcH < 1 {
		// A degenerate frame has no content to scale; the doubling
		// loop below would never reach the target from zero.
		return image.NewRGBA(image.Rect(0, 0, outW, outH))
	}
	if srcW == outW && srcH == outH {
		return img
	}

	factor := max(float64(outW)/float64(srcW), float64(outH)/float64(srcH))
	switch {
	case factor > PROGRESSIVE_SCALE_FACTOR:
		return progressiveUpscale(img, outW, outH)
	case factor > EDGE_PRESERVE_FACTOR:
		return edgePreservingUpscale(img, outW, outH)
	default:
		return toRGBA(resize.Resize(uint(outW), uint(outH), img, resize.Lanczos3))
	}
}

// progressiveUpscale repeatedly doubles toward the target instead of
// jumping in one step, denoising before and sharpening after each hop.
func progressiveUpscale(img *image.RGBA, outW, outH int) *image.RGBA {
	current := img
	curW := current.Bounds().Dx()
	curH := current.Bounds().Dy()

	for curW < outW || curH < outH {
		nextW := min(curW*2, outW)
		nextH := min(curH*2, outH)
		stepped := resize.Resize(uint(nextW), uint(nextH), denoiseRGBA(current), resize.Bicubic)
		current = sharpenRGBA(toRGBA(stepped), 0.7)
		curW, curH = nextW, nextH
	}

	if curW != outW || curH != outH {
		current = toRGBA(resize.Resize(uint(outW), uint(outH), current, resize.Lanczos3))
	}
	return current
}

// edgePreservingUpscale smooths before interpolating, then restores
// detail with a guided filter over the luma.
func edgePreservingUpscale(img *image.RGBA, outW, outH int) *image.RGBA {
	smoothed := denoiseRGBA(img)
	resized := toRGBA(resize.Resize(uint(outW), uint(outH), smoothed, resize.Lanczos3))

	guide := grayLuminance(resized)
	filtered := guidedFilter(guide, guide, 8, 0.01)
	w, h := gridSize(guide)
	for y := 0; y < h; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+w*4]
		for x := 0; x < w; x++ {
			detail := guide[y][x] - filtered[y][x]
			for c := 0; c < 3; c++ {
				row[x*4+c] = clampByte(float64(row[x*4+c]) + 255*detail)
			}
		}
	}
	return resized
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba
}

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// denoiseRGBA applies a 3x3 gaussian per channel.
func denoiseRGBA(img *image.RGBA) *image.RGBA {
	kernel := [3][3]float64{
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
		{2.0 / 16, 4.0 / 16, 2.0 / 16},
		{1.0 / 16, 2.0 / 16, 1.0 / 16},
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				sum := 0.0
				for ky := -1; ky <= 1; ky++ {
					for kx := -1; kx <= 1; kx++ {
						yy := min(h-1, max(0, y+ky))
						xx := min(w-1, max(0, x+kx))
						sum += float64(img.Pix[yy*img.Stride+xx*4+c]) * kernel[ky+1][kx+1]
					}
				}
				out.Pix[y*out.Stride+x*4+c] = clampByte(sum)
			}
			out.Pix[y*out.Stride+x*4+3] = img.Pix[y*img.Stride+x*4+3]
		}
	}
	return out
}

// sharpenRGBA applies unsharp masking per channel.
func sharpenRGBA(img *image.RGBA, amount float64) *image.RGBA {
	blurred := denoiseRGBA(img)
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				orig := float64(img.Pix[y*img.Stride+x*4+c])
				blur := float64(blurred.Pix[y*blurred.Stride+x*4+c])
				out.Pix[y*out.Stride+x*4+c] = clampByte(orig + amount*(orig-blur))
			}
			out.Pix[y*out.Stride+x*4+3] = img.Pix[y*img.Stride+x*4+3]
		}
	}
	return out
}
