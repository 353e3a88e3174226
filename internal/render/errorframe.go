package render

import "image"

// ErrorFrame is the frame shown in place of a widget whose render failed:
// a dark red background with "<name> err" in white at (1,5).
func ErrorFrame(name string, width, height int, face *TextFace) *image.RGBA {
	if face == nil {
		face = DefaultFace()
	}
	frame := NewCanvas(width, height, ErrorBackground)
	face.Draw(frame, 1, 5, name+" err", White)
	return frame
}
