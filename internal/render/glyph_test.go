package render

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = color.RGBA{R: 0xFF, A: 0xFF}

func TestMeasureSmallText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		scale   int
		spacing int
		wantW   int
		wantH   int
	}{
		{name: "empty", text: "", scale: 1, spacing: 1, wantW: 0, wantH: 6},
		{name: "single", text: "A", scale: 1, spacing: 1, wantW: 4, wantH: 6},
		{name: "temperature", text: "20°C", scale: 1, spacing: 1, wantW: 19, wantH: 6},
		{name: "scaled", text: "12", scale: 2, spacing: 1, wantW: 17, wantH: 12},
		{name: "no spacing", text: "ABC", scale: 1, spacing: 0, wantW: 12, wantH: 6},
		{name: "zero scale treated as one", text: "AB", scale: 0, spacing: 1, wantW: 9, wantH: 6},
		{name: "unknown runes still advance", text: "x!", scale: 1, spacing: 1, wantW: 9, wantH: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := MeasureSmallText(tt.text, tt.scale, tt.spacing)
			assert.Equal(t, tt.wantW, w)
			assert.Equal(t, tt.wantH, h)
		})
	}
}

func TestDrawSmallTextMatchesMeasure(t *testing.T) {
	runes := []rune("0123456789:/°^↑↓ apmABCDEFGHIJKLMNOPQRSTUVWXYZxyz?é")
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		n := rng.Intn(12)
		text := make([]rune, n)
		for j := range text {
			text[j] = runes[rng.Intn(len(runes))]
		}
		scale := 1 + rng.Intn(3)
		spacing := rng.Intn(3)

		dst := NewCanvas(32, 16, Black)
		dw, dh := DrawSmallText(dst, 3, 2, string(text), red, scale, spacing)
		mw, mh := MeasureSmallText(string(text), scale, spacing)
		require.Equal(t, mw, dw, "width for %q scale=%d spacing=%d", string(text), scale, spacing)
		require.Equal(t, mh, dh)
	}
}

func TestDrawSmallTextPixels(t *testing.T) {
	dst := NewCanvas(8, 8, Black)
	DrawSmallText(dst, 1, 1, "1", red, 1, 1)

	// '1' row 0 is 0010: only the third column is lit.
	assert.Equal(t, Black, dst.RGBAAt(1, 1))
	assert.Equal(t, Black, dst.RGBAAt(2, 1))
	assert.Equal(t, red, dst.RGBAAt(3, 1))
	assert.Equal(t, Black, dst.RGBAAt(4, 1))
	// row 4 is 0111
	assert.Equal(t, Black, dst.RGBAAt(1, 5))
	assert.Equal(t, red, dst.RGBAAt(2, 5))
	assert.Equal(t, red, dst.RGBAAt(3, 5))
	assert.Equal(t, red, dst.RGBAAt(4, 5))
}

func TestDrawSmallTextScaleBlocks(t *testing.T) {
	dst := NewCanvas(10, 14, Black)
	DrawSmallText(dst, 0, 0, "L", red, 2, 0)

	// 'L' row 0 is 1000: a 2x2 block at the left edge.
	for _, p := range []image.Point{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		assert.Equal(t, red, dst.RGBAAt(p.X, p.Y), "pixel %v", p)
	}
	assert.Equal(t, Black, dst.RGBAAt(2, 0))
	// row 4 is 1111: y 8..9 fully lit across x 0..7
	for x := 0; x < 8; x++ {
		assert.Equal(t, red, dst.RGBAAt(x, 9))
	}
}

func TestUnknownRuneIsBlank(t *testing.T) {
	dst := NewCanvas(12, 8, Black)
	w, _ := DrawSmallText(dst, 0, 0, "?", red, 1, 1)
	assert.Equal(t, 4, w)
	for y := 0; y < 8; y++ {
		for x := 0; x < 12; x++ {
			assert.Equal(t, Black, dst.RGBAAt(x, y))
		}
	}
	_, ok := LookupGlyph('?')
	assert.False(t, ok)
}

func TestDrawSmallTextClipsOutsideCanvas(t *testing.T) {
	dst := NewCanvas(4, 4, Black)
	assert.NotPanics(t, func() {
		DrawSmallText(dst, -2, 2, "88", red, 1, 1)
	})
}

func TestCenterX(t *testing.T) {
	assert.Equal(t, 10, CenterX(64, 44))
	assert.Equal(t, 0, CenterX(10, 20))
	assert.Equal(t, 2, CenterX(9, 4))
}
