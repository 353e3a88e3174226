// Package layout splits and places rectangles on the panel.
package layout

import "image"

// Normalize ensures Min is <= Max on both axes.
func Normalize(rect image.Rectangle) image.Rectangle {
	if rect.Min.X > rect.Max.X {
		rect.Min.X, rect.Max.X = rect.Max.X, rect.Min.X
	}
	if rect.Min.Y > rect.Max.Y {
		rect.Min.Y, rect.Max.Y = rect.Max.Y, rect.Min.Y
	}
	return rect
}

// Inset shrinks rect by px on all sides, collapsing to its center when px is too large.
func Inset(rect image.Rectangle, px int) image.Rectangle {
	rect = Normalize(rect)
	if px <= 0 {
		return rect
	}
	if 2*px >= rect.Dx() || 2*px >= rect.Dy() {
		c := image.Pt(rect.Min.X+rect.Dx()/2, rect.Min.Y+rect.Dy()/2)
		return image.Rectangle{Min: c, Max: c}
	}
	return image.Rect(rect.Min.X+px, rect.Min.Y+px, rect.Max.X-px, rect.Max.Y-px)
}

// SplitHorizontal splits rect into top and bottom parts.
// topHeight is clamped to [0, rect.Dy()].
func SplitHorizontal(rect image.Rectangle, topHeight int) (top, bottom image.Rectangle) {
	rect = Normalize(rect)
	topHeight = clamp(topHeight, 0, rect.Dy())
	top = image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+topHeight)
	bottom = image.Rect(rect.Min.X, rect.Min.Y+topHeight, rect.Max.X, rect.Max.Y)
	return top, bottom
}

// SplitVertical splits rect into left and right parts.
// leftWidth is clamped to [0, rect.Dx()].
func SplitVertical(rect image.Rectangle, leftWidth int) (left, right image.Rectangle) {
	rect = Normalize(rect)
	leftWidth = clamp(leftWidth, 0, rect.Dx())
	left = image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+leftWidth, rect.Max.Y)
	right = image.Rect(rect.Min.X+leftWidth, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return left, right
}

// Center returns the top-left point that centers a w x h box in rect.
// Boxes larger than rect are pinned to rect's top-left on that axis.
func Center(rect image.Rectangle, w, h int) image.Point {
	rect = Normalize(rect)
	x := (rect.Dx() - w) / 2
	y := (rect.Dy() - h) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return image.Pt(rect.Min.X+x, rect.Min.Y+y)
}

// FitSquare returns the largest square that fits into rect, centered.
func FitSquare(rect image.Rectangle) image.Rectangle {
	rect = Normalize(rect)
	size := rect.Dx()
	if rect.Dy() < size {
		size = rect.Dy()
	}
	at := Center(rect, size, size)
	return image.Rect(at.X, at.Y, at.X+size, at.Y+size)
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
