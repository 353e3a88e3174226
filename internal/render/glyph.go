package render

import (
	"image"
	"image/color"
)

const (
	GlyphWidth  = 4
	GlyphHeight = 6
)

// Glyph holds six rows of four pixels. Bit 3 of each row is the leftmost pixel.
type Glyph [GlyphHeight]uint8

var blankGlyph Glyph

// Font4x6 maps runes to the built-in 4x6 pixel glyphs.
var Font4x6 = map[rune]Glyph{
	' ': {0b0000, 0b0000, 0b0000, 0b0000, 0b0000, 0b0000},
	':': {0b0000, 0b0110, 0b0110, 0b0000, 0b0110, 0b0110},
	'/': {0b0001, 0b0010, 0b0010, 0b0100, 0b0100, 0b1000},
	'°': {0b0110, 0b1001, 0b0110, 0b0000, 0b0000, 0b0000},
	'^': {0b0110, 0b1001, 0b0000, 0b0000, 0b0000, 0b0000},
	'↑': {0b0010, 0b0111, 0b0010, 0b0010, 0b0010, 0b0000},
	'↓': {0b0010, 0b0010, 0b0010, 0b0111, 0b0010, 0b0000},
	'-': {0b0000, 0b0000, 0b1111, 0b0000, 0b0000, 0b0000},

	'0': {0b0110, 0b1001, 0b1001, 0b1001, 0b0110, 0b0000},
	'1': {0b0010, 0b0110, 0b0010, 0b0010, 0b0111, 0b0000},
	'2': {0b0110, 0b1001, 0b0001, 0b0110, 0b1111, 0b0000},
	'3': {0b1110, 0b0001, 0b0110, 0b0001, 0b1110, 0b0000},
	'4': {0b1001, 0b1001, 0b1111, 0b0001, 0b0001, 0b0000},
	'5': {0b1111, 0b1000, 0b1110, 0b0001, 0b1110, 0b0000},
	'6': {0b0111, 0b1000, 0b1110, 0b1001, 0b0110, 0b0000},
	'7': {0b1111, 0b0001, 0b0010, 0b0100, 0b0100, 0b0000},
	'8': {0b0110, 0b1001, 0b0110, 0b1001, 0b0110, 0b0000},
	'9': {0b0110, 0b1001, 0b0111, 0b0001, 0b1110, 0b0000},

	// lowercase only for the am/pm suffix
	'a': {0b0000, 0b0110, 0b0001, 0b0111, 0b0111, 0b0000},
	'p': {0b0000, 0b0110, 0b1001, 0b1110, 0b1000, 0b0000},
	'm': {0b0000, 0b1110, 0b1111, 0b1011, 0b1001, 0b0000},

	'A': {0b0110, 0b1001, 0b1111, 0b1001, 0b1001, 0b0000},
	'B': {0b1110, 0b1001, 0b1110, 0b1001, 0b1110, 0b0000},
	'C': {0b0111, 0b1000, 0b1000, 0b1000, 0b0111, 0b0000},
	'D': {0b1110, 0b1001, 0b1001, 0b1001, 0b1110, 0b0000},
	'E': {0b1111, 0b1000, 0b1110, 0b1000, 0b1111, 0b0000},
	'F': {0b1111, 0b1000, 0b1110, 0b1000, 0b1000, 0b0000},
	'G': {0b0111, 0b1000, 0b1011, 0b1001, 0b0111, 0b0000},
	'H': {0b1001, 0b1001, 0b1111, 0b1001, 0b1001, 0b0000},
	'I': {0b0111, 0b0010, 0b0010, 0b0010, 0b0111, 0b0000},
	'J': {0b0001, 0b0001, 0b0001, 0b1001, 0b0110, 0b0000},
	'K': {0b1001, 0b1010, 0b1100, 0b1010, 0b1001, 0b0000},
	'L': {0b1000, 0b1000, 0b1000, 0b1000, 0b1111, 0b0000},
	'M': {0b1001, 0b1111, 0b1111, 0b1001, 0b1001, 0b0000},
	'N': {0b1001, 0b1101, 0b1011, 0b1001, 0b1001, 0b0000},
	'O': {0b0110, 0b1001, 0b1001, 0b1001, 0b0110, 0b0000},
	'P': {0b1110, 0b1001, 0b1110, 0b1000, 0b1000, 0b0000},
	'Q': {0b0110, 0b1001, 0b1001, 0b1010, 0b0101, 0b0000},
	'R': {0b1110, 0b1001, 0b1110, 0b1010, 0b1001, 0b0000},
	'S': {0b0111, 0b1000, 0b0110, 0b0001, 0b1110, 0b0000},
	'T': {0b1111, 0b0010, 0b0010, 0b0010, 0b0010, 0b0000},
	'U': {0b1001, 0b1001, 0b1001, 0b1001, 0b0110, 0b0000},
	'V': {0b1001, 0b1001, 0b1001, 0b0110, 0b0110, 0b0000},
	'W': {0b1001, 0b1001, 0b1111, 0b1111, 0b1001, 0b0000},
	'X': {0b1001, 0b0110, 0b0110, 0b0110, 0b1001, 0b0000},
	'Y': {0b1001, 0b0110, 0b0010, 0b0010, 0b0010, 0b0000},
	'Z': {0b1111, 0b0001, 0b0010, 0b0100, 0b1111, 0b0000},
}

// LookupGlyph returns the glyph for r and whether the font defines it.
// Undefined runes yield the blank glyph.
func LookupGlyph(r rune) (Glyph, bool) {
	g, ok := Font4x6[r]
	if !ok {
		return blankGlyph, false
	}
	return g, true
}

func normalizeSmall(scale, spacing int) (int, int) {
	if scale < 1 {
		scale = 1
	}
	if spacing < 0 {
		spacing = 0
	}
	return scale, spacing
}

// MeasureSmallText returns the size DrawSmallText would cover for text.
func MeasureSmallText(text string, scale, spacing int) (width, height int) {
	scale, spacing = normalizeSmall(scale, spacing)
	n := 0
	for range text {
		n++
	}
	height = GlyphHeight * scale
	if n == 0 {
		return 0, height
	}
	return n*GlyphWidth*scale + (n-1)*spacing, height
}

// DrawSmallText draws text with the 4x6 font, top-left anchored at (x, y).
// Pixels outside dst are dropped. The returned size always equals MeasureSmallText.
func DrawSmallText(dst *image.RGBA, x, y int, text string, c color.Color, scale, spacing int) (width, height int) {
	scale, spacing = normalizeSmall(scale, spacing)
	src := image.NewUniform(c)
	cursor := x
	for _, r := range text {
		g, _ := LookupGlyph(r)
		drawGlyph(dst, cursor, y, g, src, scale)
		cursor += GlyphWidth*scale + spacing
	}
	height = GlyphHeight * scale
	if cursor == x {
		return 0, height
	}
	return cursor - x - spacing, height
}

func drawGlyph(dst *image.RGBA, x, y int, g Glyph, src *image.Uniform, scale int) {
	for row, bits := range g {
		if bits == 0 {
			continue
		}
		for col := 0; col < GlyphWidth; col++ {
			if bits&(1<<(GlyphWidth-1-col)) == 0 {
				continue
			}
			FillRect(dst, image.Rect(x+col*scale, y+row*scale, x+(col+1)*scale, y+(row+1)*scale), src.C)
		}
	}
}
