package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// TextMetrics describes the box covered by a drawn string.
type TextMetrics struct {
	Width   int
	Height  int
	Ascent  int
	Descent int
}

// TextFace is the general text path. Runes the underlying face cannot render
// are drawn with the 4x6 glyph table instead, so symbols like the arrows
// always show up.
type TextFace struct {
	face    font.Face
	covers  func(r rune) bool
	ascent  int
	descent int
}

var defaultFace = NewTextFace(basicfont.Face7x13)

// DefaultFace returns the process-wide default face (basicfont 7x13).
// It is read-only and safe to share.
func DefaultFace() *TextFace { return defaultFace }

// NewTextFace wraps an arbitrary font face.
func NewTextFace(face font.Face) *TextFace {
	t := &TextFace{face: face, covers: func(rune) bool { return true }}
	if bf, ok := face.(*basicfont.Face); ok {
		t.covers = basicCovers(bf)
	}
	m := face.Metrics()
	t.ascent = m.Ascent.Ceil()
	t.descent = m.Descent.Ceil()
	return t
}

func basicCovers(bf *basicfont.Face) func(rune) bool {
	return func(r rune) bool {
		for _, rng := range bf.Ranges {
			if r >= rng.Low && r < rng.High {
				return true
			}
		}
		return false
	}
}

// LoadTextFace reads an OpenType or TrueType font file and builds a face at size points.
func LoadTextFace(path string, size float64) (*TextFace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	return ParseTextFace(data, size)
}

// ParseTextFace tries the OpenType parser first and falls back to freetype's TrueType parser.
func ParseTextFace(data []byte, size float64) (*TextFace, error) {
	if size <= 0 {
		size = 8
	}
	if otf, err := opentype.Parse(data); err == nil {
		face, ferr := opentype.NewFace(otf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
		if ferr == nil {
			t := NewTextFace(face)
			t.covers = sfntCovers(otf)
			return t, nil
		}
	}
	tt, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	t := NewTextFace(truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull}))
	t.covers = func(r rune) bool { return tt.Index(r) != 0 }
	return t, nil
}

func sfntCovers(f *sfnt.Font) func(rune) bool {
	var buf sfnt.Buffer
	return func(r rune) bool {
		idx, err := f.GlyphIndex(&buf, r)
		return err == nil && idx != 0
	}
}

func (t *TextFace) Height() int { return t.ascent + t.descent }

// Measure returns the size Draw would cover for text.
func (t *TextFace) Measure(text string) TextMetrics {
	width := t.layout(text, func(rune, fixed.Int26_6, bool) {})
	return t.metrics(width)
}

// Draw renders text with its top-left corner at (x, y) and returns the same
// metrics Measure reports.
func (t *TextFace) Draw(dst *image.RGBA, x, y int, text string, c color.Color) TextMetrics {
	src := image.NewUniform(c)
	baseline := fixed.I(y + t.ascent)
	origin := fixed.I(x)
	width := t.layout(text, func(r rune, dot fixed.Int26_6, fallback bool) {
		if fallback {
			g, _ := LookupGlyph(r)
			// the glyph body is rows 0-4; sit it on the baseline
			drawGlyph(dst, (origin + dot).Round(), y+t.ascent-(GlyphHeight-1), g, src, 1)
			return
		}
		dr, mask, maskp, _, ok := t.face.Glyph(fixed.Point26_6{X: origin + dot, Y: baseline}, r)
		if !ok {
			return
		}
		draw.DrawMask(dst, dr, src, image.Point{}, mask, maskp, draw.Over)
	})
	return t.metrics(width)
}

// layout walks text once, invoking fn with each rune's pen offset, and
// returns the total advance in pixels.
func (t *TextFace) layout(text string, fn func(r rune, dot fixed.Int26_6, fallback bool)) int {
	var dot fixed.Int26_6
	prev := rune(-1)
	for _, r := range text {
		if !t.covers(r) {
			fn(r, dot, true)
			dot += fixed.I(GlyphWidth + 1)
			prev = -1
			continue
		}
		if prev >= 0 {
			dot += t.face.Kern(prev, r)
		}
		adv, ok := t.face.GlyphAdvance(r)
		if !ok {
			continue
		}
		fn(r, dot, false)
		dot += adv
		prev = r
	}
	return dot.Ceil()
}

func (t *TextFace) metrics(width int) TextMetrics {
	return TextMetrics{Width: width, Height: t.ascent + t.descent, Ascent: t.ascent, Descent: t.descent}
}
