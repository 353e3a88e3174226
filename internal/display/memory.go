package display

import (
	"image"
	"sync"
)

// MemorySink keeps the most recent frame. It backs the HTTP preview and tests.
type MemorySink struct {
	mu     sync.RWMutex
	frame  *image.RGBA
	frames uint64
	clears uint64
	closed bool
}

func NewMemorySink(width, height int) *MemorySink {
	return &MemorySink{frame: image.NewRGBA(image.Rect(0, 0, width, height))}
}

func (m *MemorySink) Size() (int, int) {
	b := m.frame.Bounds()
	return b.Dx(), b.Dy()
}

func (m *MemorySink) SetImage(img image.Image, x, y int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	compose(m.frame, img, x, y)
	m.frames++
	return nil
}

func (m *MemorySink) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	compose(m.frame, nil, 0, 0)
	m.clears++
	return nil
}

func (m *MemorySink) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

// Frame returns a copy of the last frame and how many frames have been set.
func (m *MemorySink) Frame() (*image.RGBA, uint64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cp := image.NewRGBA(m.frame.Bounds())
	copy(cp.Pix, m.frame.Pix)
	return cp, m.frames
}

func (m *MemorySink) Clears() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.clears
}

func (m *MemorySink) Closed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closed
}
