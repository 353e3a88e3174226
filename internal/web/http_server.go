package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mini-display/minidisplay/internal/logging"
)

const (
	defaultListenAddr = ":8080"
	shutdownTimeout   = 5 * time.Second
)

var ErrServerStopped = errors.New("web server already stopped")

// HTTPServer serves the preview page and API until Stop or until the context
// passed to Start is done. It cannot be restarted.
type HTTPServer struct {
	Addr    string
	DevMode bool

	// StaticDir, when set to an existing directory, is served at "/".
	// The API remains available under /api/v1/.
	StaticDir string
	Deps      APIV1Deps

	// Handler overrides the default mux, e.g. to add simulator routes.
	Handler *http.ServeMux
	Logger  logging.Logger

	mu      sync.Mutex
	running *runningServer
	stopped bool
}

type runningServer struct {
	srv  *http.Server
	ln   net.Listener
	done chan struct{}
	err  error
}

func NewHTTPServer(cfg ServerConfig) *HTTPServer {
	return &HTTPServer{Addr: cfg.ListenAddr, DevMode: cfg.DevMode, StaticDir: cfg.StaticDir, Logger: logging.NoopLogger{}}
}

// Mux returns the handler Start will serve, creating the default one on first use.
func (s *HTTPServer) Mux() *http.ServeMux {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Handler == nil {
		s.Handler = NewDefaultMux(s.StaticDir, s.Deps)
	}
	return s.Handler
}

// ListenAddr is the bound address once started, so ":0" resolves to a real port.
func (s *HTTPServer) ListenAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running != nil {
		return s.running.ln.Addr().String()
	}
	return s.Addr
}

func (s *HTTPServer) Start(ctx context.Context) error {
	var handler http.Handler = s.Mux()
	if s.DevMode {
		handler = WithDevCORS(handler)
	}
	addr := s.Addr
	if addr == "" {
		addr = defaultListenAddr
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.stopped:
		return ErrServerStopped
	case s.running != nil:
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	rs := &runningServer{
		srv:  &http.Server{Handler: handler, ReadHeaderTimeout: 5 * time.Second},
		ln:   ln,
		done: make(chan struct{}),
	}
	s.running = rs
	s.logger().Infof("web", "listening on %s", ln.Addr())

	go func() {
		defer close(rs.done)
		if err := rs.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rs.err = err
			s.logger().Errorf("web", "serve: %v", err)
		}
	}()
	go func() {
		select {
		case <-ctx.Done():
			_ = s.Stop()
		case <-rs.done:
		}
	}()
	return nil
}

// Stop shuts the server down gracefully and waits for the serve loop to
// exit. It returns the serve error, if any. Calling it twice is harmless.
func (s *HTTPServer) Stop() error {
	s.mu.Lock()
	rs := s.running
	already := s.stopped
	s.stopped = true
	s.mu.Unlock()
	if already || rs == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := rs.srv.Shutdown(ctx)
	<-rs.done
	return errors.Join(err, rs.err)
}

func (s *HTTPServer) logger() logging.Logger {
	if s.Logger == nil {
		return logging.NoopLogger{}
	}
	return s.Logger
}
