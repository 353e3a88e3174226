// Package app wires the sink, the widgets and the preview server together
// and owns the process lifecycle.
package app

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/logging"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/system"
	"github.com/mini-display/minidisplay/internal/web"
)

type App struct {
	Store     *state.Store
	Sink      display.Sink
	Scheduler *Scheduler
	Web       web.Server
	Logger    logging.Logger

	exitOnce atomic.Bool
	exitCh   chan error
}

func New(store *state.Store, sink display.Sink, scheduler *Scheduler, webServer web.Server) *App {
	a := &App{Store: store, Sink: sink, Scheduler: scheduler, Web: webServer, Logger: logging.NoopLogger{}, exitCh: make(chan error, 1)}
	scheduler.Store = store
	return a
}

// Exit requests the app to stop running. Only the first call counts.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Start runs the display loop until ctx is done or Exit is called, then
// clears and closes the sink. The returned error is the one passed to Exit.
func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	app.exitOnce.Store(false)
	if app.Logger == nil {
		app.Logger = logging.NoopLogger{}
	}
	app.Scheduler.Logger = app.Logger

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	if _, ok := primarySink(app.Sink).(*display.FramebufferSink); ok {
		restore := system.EnterGraphics(app.Logger)
		defer restore()
		system.WatchExitKey(loopCtx, app.Logger, func() { app.Exit(nil) })
	}
	if q, ok := primarySink(app.Sink).(interface{ WatchQuit(func()) }); ok {
		q.WatchQuit(func() { app.Exit(nil) })
	}

	if app.Web != nil {
		if err := app.Web.Start(loopCtx); err != nil {
			app.Logger.Errorf("web", "start failed: %v", err)
			app.shutdownSink()
			app.Store.Fail(err)
			return err
		}
		defer func() { _ = app.Web.Stop() }()
	}

	app.Store.Start(app.Scheduler.now())
	app.Logger.Infof("app", "cycling %d widgets every %v", len(app.Scheduler.Widgets), app.Scheduler.Cycle)

	var (
		wg      sync.WaitGroup
		loopErr error
	)
	loopDone := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(loopDone)
		loopErr = app.Scheduler.Run(loopCtx)
	}()

	var err error
	select {
	case <-ctx.Done():
	case err = <-app.exitCh:
	case <-loopDone:
	}
	app.Store.SetPhase(state.STOPPING)
	cancel()
	wg.Wait()
	if err == nil {
		err = loopErr
	}

	app.shutdownSink()
	if err != nil {
		app.Store.Fail(err)
	} else {
		app.Store.SetPhase(state.STOPPED)
	}
	return err
}

func (app *App) shutdownSink() {
	if err := app.Sink.Clear(); err != nil {
		app.Logger.Errorf("app", "clear display: %v", err)
	}
	if err := app.Sink.Close(); err != nil {
		app.Logger.Errorf("app", "close display: %v", err)
	}
}

func primarySink(s display.Sink) display.Sink {
	if tee, ok := s.(*display.Tee); ok {
		return tee.Primary
	}
	return s
}
