//go:build !linux

package display

import (
	"errors"
	"image"
)

const DefaultFramebufferDevice = "/dev/fb0"

var errNoFramebuffer = errors.New("framebuffer sink requires linux")

type FramebufferSink struct{}

func OpenFramebuffer(path string, opts MatrixOptions, l logger) (*FramebufferSink, error) {
	return nil, errNoFramebuffer
}

func (s *FramebufferSink) Size() (int, int) { return 0, 0 }

func (s *FramebufferSink) SetImage(img image.Image, x, y int) error { return errNoFramebuffer }

func (s *FramebufferSink) Clear() error { return errNoFramebuffer }

func (s *FramebufferSink) Close() error { return nil }
