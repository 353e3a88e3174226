package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
)

// Sink accepts whole frames for a fixed-size panel.
type Sink interface {
	Size() (width int, height int)
	SetImage(img image.Image, x, y int) error
	Clear() error
	Close() error
}

const (
	SinkFramebuffer = "framebuffer"
	SinkTerminal    = "terminal"
	SinkMemory      = "memory"
)

var ErrUnknownSink = errors.New("unknown sink")

// SinkNames lists the kinds accepted by Open.
func SinkNames() []string {
	return []string{SinkFramebuffer, SinkTerminal, SinkMemory}
}

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Open validates opts and creates the sink named kind.
func Open(kind string, opts MatrixOptions, fbDevice string, l logger) (Sink, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("matrix options: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case SinkFramebuffer, "":
		s, err := OpenFramebuffer(fbDevice, opts, l)
		if err != nil {
			return nil, fmt.Errorf("open framebuffer: %w", err)
		}
		return s, nil
	case SinkTerminal:
		s, err := NewTerminalSink(nil, opts)
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		return s, nil
	case SinkMemory:
		return NewMemorySink(opts.Width(), opts.Height()), nil
	default:
		return nil, fmt.Errorf("%w %q (want one of %s)", ErrUnknownSink, kind, strings.Join(SinkNames(), ", "))
	}
}

// compose draws img over a black frame-sized canvas at (x, y). The result
// stays opaque whatever the alpha of img.
func compose(dst *image.RGBA, img image.Image, x, y int) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)
	if img == nil {
		return
	}
	b := img.Bounds()
	draw.Draw(dst, image.Rect(x, y, x+b.Dx(), y+b.Dy()), img, b.Min, draw.Over)
}

// scaleBrightness returns c dimmed to pct percent.
func scaleBrightness(c color.RGBA, pct int) color.RGBA {
	if pct >= 100 {
		return c
	}
	return color.RGBA{
		R: uint8(int(c.R) * pct / 100),
		G: uint8(int(c.G) * pct / 100),
		B: uint8(int(c.B) * pct / 100),
		A: 0xFF,
	}
}

func applyBrightness(img *image.RGBA, pct int) {
	if pct >= 100 {
		return
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetRGBA(x, y, scaleBrightness(img.RGBAAt(x, y), pct))
		}
	}
}

// letterbox returns the largest integer multiple of w x h centered in bounds.
// Panels larger than the screen fall back to a plain stretch.
func letterbox(bounds image.Rectangle, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return bounds
	}
	scale := bounds.Dx() / w
	if sy := bounds.Dy() / h; sy < scale {
		scale = sy
	}
	if scale < 1 {
		return bounds
	}
	dw, dh := w*scale, h*scale
	x := bounds.Min.X + (bounds.Dx()-dw)/2
	y := bounds.Min.Y + (bounds.Dy()-dh)/2
	return image.Rect(x, y, x+dw, y+dh)
}
