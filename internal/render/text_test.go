package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFaceMeasureMatchesDraw(t *testing.T) {
	face := DefaultFace()
	for _, text := range []string{"", "A", "clock err", "A 3↑", "F 12↓", "MTA N/A", "20°C", "日本"} {
		t.Run(text, func(t *testing.T) {
			dst := NewCanvas(128, 16, Black)
			drawn := face.Draw(dst, 0, 0, text, White)
			assert.Equal(t, face.Measure(text), drawn)
		})
	}
}

func TestDefaultFaceMetrics(t *testing.T) {
	face := DefaultFace()
	m := face.Measure("MTA N/A")
	assert.Equal(t, 7*7, m.Width)
	assert.Equal(t, 13, m.Height)
	assert.Equal(t, face.Height(), m.Height)
	assert.Equal(t, 0, face.Measure("").Width)
}

func TestArrowFallsBackToGlyphTable(t *testing.T) {
	face := DefaultFace()

	// "A " is two 7px cells, the arrow adds a 4px glyph and 1px gap.
	assert.Equal(t, 19, face.Measure("A ↑").Width)

	dst := NewCanvas(32, 16, Black)
	face.Draw(dst, 0, 0, "↑", red)
	// top row of the up arrow is 0010, sitting on the baseline
	top := face.ascent - (GlyphHeight - 1)
	assert.Equal(t, red, dst.RGBAAt(2, top))
	assert.Equal(t, Black, dst.RGBAAt(0, top))
}

func TestErrorFrame(t *testing.T) {
	frame := ErrorFrame("weather", 64, 32, nil)
	require.Equal(t, 64, frame.Bounds().Dx())
	require.Equal(t, 32, frame.Bounds().Dy())
	assert.Equal(t, ErrorBackground, frame.RGBAAt(0, 0))
	assert.Equal(t, ErrorBackground, frame.RGBAAt(63, 31))

	lit := 0
	for y := 5; y < 5+DefaultFace().Height(); y++ {
		for x := 1; x < 64; x++ {
			if frame.RGBAAt(x, y) == White {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "label must be drawn in white")
}

func TestParseTextFaceRejectsGarbage(t *testing.T) {
	_, err := ParseTextFace([]byte("not a font"), 8)
	assert.Error(t, err)
}
