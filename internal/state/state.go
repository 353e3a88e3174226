// Package state keeps the scheduler's progress for readers on other goroutines.
package state

import (
	"image"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	STOPPING
	STOPPED
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case STOPPING:
		return "stopping"
	case STOPPED:
		return "stopped"
	case ERROR:
		return "error"
	}
	return "unknown"
}

// WidgetStatus is what the scheduler has observed about one widget.
type WidgetStatus struct {
	Name           string
	Refreshes      uint64
	RefreshErrors  uint64
	LastRefresh    time.Time
	LastError      string
	LastErrorAt    time.Time
	Shown          uint64
	RenderFailures uint64
}

// FrameInfo describes the last frame pushed to the sink.
type FrameInfo struct {
	Widget string
	Hash   uint64
	Width  int
	Height int
	At     time.Time
	Failed bool
}

type State struct {
	Phase     Phase
	StartedAt time.Time
	Current   string
	Cycles    uint64
	Err       string
	Frame     FrameInfo
	Widgets   []WidgetStatus
}

type Store struct {
	mu    sync.RWMutex
	state State
	index map[string]int
	frame *image.RGBA
}

// NewStore tracks the named widgets in cycle order. Widgets recorded later
// under other names are appended.
func NewStore(widgets ...string) *Store {
	store := &Store{state: State{Phase: BOOTING}, index: make(map[string]int)}
	for _, name := range widgets {
		store.widgetLocked(name)
	}
	return store
}

// Snapshot returns a copy that shares nothing with the store.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Widgets = append([]WidgetStatus(nil), store.state.Widgets...)
	return s
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

// Start marks the loop as running from at.
func (store *Store) Start(at time.Time) {
	store.mu.Lock()
	store.state.Phase = RUNNING
	store.state.StartedAt = at
	store.state.Err = ""
	store.mu.Unlock()
}

// Fail moves the store into ERROR with err's message.
func (store *Store) Fail(err error) {
	store.mu.Lock()
	store.state.Phase = ERROR
	if err != nil {
		store.state.Err = err.Error()
	}
	store.mu.Unlock()
}

// RecordRefresh stores the outcome of one refresh call.
func (store *Store) RecordRefresh(name string, at time.Time, err error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	w := store.widgetLocked(name)
	w.Refreshes++
	w.LastRefresh = at
	if err != nil {
		w.RefreshErrors++
		w.LastError = err.Error()
		w.LastErrorAt = at
	}
}

// RecordFrame stores the frame shown for name and advances the cycle count.
// failed marks an error frame shown in place of the widget.
func (store *Store) RecordFrame(name string, frame *image.RGBA, at time.Time, failed bool) {
	cp := cloneRGBA(frame)
	hash := HashFrame(cp)

	store.mu.Lock()
	defer store.mu.Unlock()
	w := store.widgetLocked(name)
	w.Shown++
	if failed {
		w.RenderFailures++
	}
	store.state.Current = name
	store.state.Cycles++
	store.state.Frame = FrameInfo{
		Widget: name,
		Hash:   hash,
		Width:  cp.Bounds().Dx(),
		Height: cp.Bounds().Dy(),
		At:     at,
		Failed: failed,
	}
	store.frame = cp
}

// Frame returns a copy of the last frame, or nil before the first one.
func (store *Store) Frame() (*image.RGBA, FrameInfo) {
	store.mu.RLock()
	defer store.mu.RUnlock()
	if store.frame == nil {
		return nil, FrameInfo{}
	}
	return cloneRGBA(store.frame), store.state.Frame
}

func (store *Store) widgetLocked(name string) *WidgetStatus {
	if i, ok := store.index[name]; ok {
		return &store.state.Widgets[i]
	}
	store.index[name] = len(store.state.Widgets)
	store.state.Widgets = append(store.state.Widgets, WidgetStatus{Name: name})
	return &store.state.Widgets[len(store.state.Widgets)-1]
}

// HashFrame hashes the visible pixels of img row by row, so sub-images with
// a wider stride hash the same as a tight copy.
func HashFrame(img *image.RGBA) uint64 {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	h := xxh3.New()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		start := img.PixOffset(b.Min.X, y)
		_, _ = h.Write(img.Pix[start : start+b.Dx()*4])
	}
	return h.Sum64()
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	if src == nil {
		return nil
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		start := src.PixOffset(b.Min.X, b.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:], src.Pix[start:start+b.Dx()*4])
	}
	return dst
}
