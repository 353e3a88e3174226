package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/logging"
	"github.com/mini-display/minidisplay/internal/ratelimit"
	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/widgets"
)

const (
	// PollInterval bounds how long a stop request can go unnoticed while sleeping.
	PollInterval = 100 * time.Millisecond

	errorLogInterval = time.Minute
)

// Scheduler shows one widget per cycle, round robin:
// refresh, render, push to the sink, then sleep.
type Scheduler struct {
	Widgets []widgets.Widget
	Sink    display.Sink
	Store   *state.Store
	Logger  logging.Logger
	// Face draws error frames.
	Face *render.TextFace
	// Cycle is how long each widget stays on screen, clamped to config.MinCycle.
	Cycle time.Duration

	Now   func() time.Time
	Sleep func(time.Duration)

	errLog *ratelimit.Keyed
	next   int
}

func NewScheduler(ws []widgets.Widget, sink display.Sink, cycle time.Duration) *Scheduler {
	return &Scheduler{
		Widgets: ws,
		Sink:    sink,
		Logger:  logging.NoopLogger{},
		Face:    render.DefaultFace(),
		Cycle:   cycle,
		Now:     time.Now,
		Sleep:   time.Sleep,
	}
}

// Run cycles until ctx is cancelled. It returns nil on a clean stop.
func (s *Scheduler) Run(ctx context.Context) error {
	if len(s.Widgets) == 0 {
		return errors.New("scheduler: no widgets")
	}
	for ctx.Err() == nil {
		s.Step(ctx)
		if !s.wait(ctx) {
			break
		}
	}
	return nil
}

// Step runs one refresh, render and display for the current widget and
// advances to the next. Widget failures never escape.
func (s *Scheduler) Step(ctx context.Context) {
	w := s.Widgets[s.next%len(s.Widgets)]
	s.next = (s.next + 1) % len(s.Widgets)

	err := s.refresh(ctx, w)
	if s.Store != nil {
		s.Store.RecordRefresh(w.Name(), s.now(), err)
	}
	if err != nil && ctx.Err() == nil {
		s.logThrottled(w.Name()+"/refresh", "refresh %s: %v", w.Name(), err)
	}

	width, height := s.Sink.Size()
	frame, err := s.render(w, width, height)
	failed := err != nil
	if failed {
		s.logThrottled(w.Name()+"/render", "render %s: %v", w.Name(), err)
		frame = render.ErrorFrame(w.Name(), width, height, s.Face)
	}

	if err := s.Sink.SetImage(frame, 0, 0); err != nil {
		s.logThrottled("sink", "display %s: %v", w.Name(), err)
	}
	if s.Store != nil {
		s.Store.RecordFrame(w.Name(), frame, s.now(), failed)
	}
}

func (s *Scheduler) refresh(ctx context.Context, w widgets.Widget) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.Refresh(ctx)
}

func (s *Scheduler) render(w widgets.Widget, width, height int) (frame *image.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			frame, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	frame, err = w.Render(width, height)
	if err != nil {
		return nil, err
	}
	if frame == nil {
		return nil, errors.New("no frame")
	}
	if b := frame.Bounds(); b.Dx() != width || b.Dy() != height {
		return nil, fmt.Errorf("frame is %dx%d, want %dx%d", b.Dx(), b.Dy(), width, height)
	}
	return frame, nil
}

// wait sleeps for one cycle in PollInterval steps and reports false as soon
// as ctx is done.
func (s *Scheduler) wait(ctx context.Context) bool {
	deadline := s.now().Add(config.ClampCycle(s.Cycle))
	for {
		if ctx.Err() != nil {
			return false
		}
		left := deadline.Sub(s.now())
		if left <= 0 {
			return true
		}
		if left > PollInterval {
			left = PollInterval
		}
		s.sleep(left)
	}
}

func (s *Scheduler) logThrottled(key, format string, args ...interface{}) {
	if s.Logger == nil {
		return
	}
	if s.errLog == nil {
		s.errLog = ratelimit.NewKeyed(errorLogInterval).WithClock(s.now)
	}
	n, ok := s.errLog.Inc(key)
	if !ok {
		return
	}
	if n > 1 {
		format += " (%d times)"
		args = append(args, n)
	}
	s.Logger.Errorf("scheduler", format, args...)
}

func (s *Scheduler) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *Scheduler) sleep(d time.Duration) {
	if s.Sleep == nil {
		time.Sleep(d)
		return
	}
	s.Sleep(d)
}
