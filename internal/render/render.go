package render

import (
	"image"
	"image/color"
	"image/draw"
)

// NewCanvas returns an opaque width x height bitmap filled with bg.
func NewCanvas(width, height int, bg color.Color) *image.RGBA {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	canvas := image.NewRGBA(image.Rect(0, 0, width, height))
	Fill(canvas, bg)
	return canvas
}

func Fill(dst *image.RGBA, c color.Color) {
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// FillRect paints rect clipped to dst.
func FillRect(dst *image.RGBA, rect image.Rectangle, c color.Color) {
	rect = rect.Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(dst, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

// HLine draws a one pixel horizontal line across the full width at row y.
func HLine(dst *image.RGBA, y int, c color.Color) {
	b := dst.Bounds()
	FillRect(dst, image.Rect(b.Min.X, y, b.Max.X, y+1), c)
}

// CenterX returns the left offset that centers drawnWidth in panelWidth, never negative.
func CenterX(panelWidth, drawnWidth int) int {
	x := (panelWidth - drawnWidth) / 2
	if x < 0 {
		return 0
	}
	return x
}

func Clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
