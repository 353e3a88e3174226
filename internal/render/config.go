package render

import "image/color"

// Shared colors.
var (
	Black = color.RGBA{A: 0xFF}
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}

	// ErrorBackground fills the frame shown when a widget fails to render.
	ErrorBackground = color.RGBA{R: 80, A: 0xFF}
)
