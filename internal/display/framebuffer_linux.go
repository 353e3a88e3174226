//go:build linux

package display

import (
	"image"
	"image/draw"
	"sync"

	fb "github.com/gonutz/framebuffer"
	xdraw "golang.org/x/image/draw"
)

const DefaultFramebufferDevice = "/dev/fb0"

// FramebufferSink shows frames on a Linux framebuffer, scaled up with
// nearest-neighbour sampling and letterboxed to keep square pixels.
type FramebufferSink struct {
	mu         sync.Mutex
	dev        *fb.Device
	frame      *image.RGBA
	target     image.Rectangle
	brightness int
	logger     logger
}

func OpenFramebuffer(path string, opts MatrixOptions, l logger) (*FramebufferSink, error) {
	if path == "" {
		path = DefaultFramebufferDevice
	}
	dev, err := fb.Open(path)
	if err != nil {
		return nil, err
	}
	s := &FramebufferSink{
		dev:        dev,
		frame:      image.NewRGBA(image.Rect(0, 0, opts.Width(), opts.Height())),
		brightness: opts.ClampedBrightness(),
		logger:     l,
	}
	s.target = letterbox(dev.Bounds(), opts.Width(), opts.Height())
	if l != nil {
		bounds := dev.Bounds()
		l.Infof("fb", "framebuffer %s open, bounds=%dx%d, panel=%dx%d at %v", path, bounds.Dx(), bounds.Dy(), opts.Width(), opts.Height(), s.target)
	}
	return s, nil
}

func (s *FramebufferSink) Size() (int, int) {
	return s.frame.Bounds().Dx(), s.frame.Bounds().Dy()
}

func (s *FramebufferSink) SetImage(img image.Image, x, y int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	compose(s.frame, img, x, y)
	applyBrightness(s.frame, s.brightness)
	s.blit()
	return nil
}

func (s *FramebufferSink) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	compose(s.frame, nil, 0, 0)
	if s.dev == nil {
		return nil
	}
	draw.Draw(s.dev, s.dev.Bounds(), image.Black, image.Point{}, draw.Src)
	return nil
}

func (s *FramebufferSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dev == nil {
		return nil
	}
	s.dev.Close()
	s.dev = nil
	return nil
}

func (s *FramebufferSink) blit() {
	if s.dev == nil {
		return
	}
	xdraw.NearestNeighbor.Scale(s.dev, s.target, s.frame, s.frame.Bounds(), xdraw.Src, nil)
}
