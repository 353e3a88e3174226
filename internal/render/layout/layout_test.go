package layout

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitHorizontal(t *testing.T) {
	frame := image.Rect(0, 0, 64, 32)

	top, bottom := SplitHorizontal(frame, 16)
	assert.Equal(t, image.Rect(0, 0, 64, 16), top)
	assert.Equal(t, image.Rect(0, 16, 64, 32), bottom)

	top, bottom = SplitHorizontal(frame, 99)
	assert.Equal(t, frame, top)
	assert.True(t, bottom.Empty())

	top, _ = SplitHorizontal(frame, -3)
	assert.True(t, top.Empty())
}

func TestSplitVertical(t *testing.T) {
	left, right := SplitVertical(image.Rect(10, 0, 0, 5), 4)
	assert.Equal(t, image.Rect(0, 0, 4, 5), left)
	assert.Equal(t, image.Rect(4, 0, 10, 5), right)
}

func TestCenter(t *testing.T) {
	cases := []struct {
		name string
		rect image.Rectangle
		w, h int
		want image.Point
	}{
		{"fits", image.Rect(0, 0, 64, 32), 16, 6, image.Pt(24, 13)},
		{"offset rect", image.Rect(0, 16, 64, 32), 32, 6, image.Pt(16, 21)},
		{"too wide", image.Rect(0, 0, 10, 10), 20, 2, image.Pt(0, 4)},
		{"odd remainder", image.Rect(0, 0, 5, 5), 2, 2, image.Pt(1, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Center(tc.rect, tc.w, tc.h))
		})
	}
}

func TestFitSquareAndInset(t *testing.T) {
	assert.Equal(t, image.Rect(16, 0, 48, 32), FitSquare(image.Rect(0, 0, 64, 32)))
	assert.Equal(t, image.Rect(2, 2, 62, 30), Inset(image.Rect(0, 0, 64, 32), 2))
	assert.True(t, Inset(image.Rect(0, 0, 4, 4), 3).Empty())
}
