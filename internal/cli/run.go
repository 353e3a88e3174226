package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mini-display/minidisplay/internal/app"
	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/logging"
	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/system"
	"github.com/mini-display/minidisplay/internal/transit"
	"github.com/mini-display/minidisplay/internal/weather"
	"github.com/mini-display/minidisplay/internal/web"
	"github.com/mini-display/minidisplay/internal/widgets"
)

const debugLogPath = "./minidisplay-debug.log"

func (c *cli) run(cmd *cobra.Command, _ []string) error {
	cfg, err := c.validConfig(cmd)
	if err != nil {
		return err
	}

	// Best effort: keeps panic traces readable when the console is in graphics mode.
	if c.flags.stdioLog != "" {
		if err := system.RedirectStdIO(c.flags.stdioLog); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "stdio log redirect error:", err)
		}
	}

	logger, closeLog := newLogger(cfg.Debug, cmd.ErrOrStderr())
	defer closeLog()

	rt, err := buildRuntime(cfg, runtimeOptions{Dev: c.flags.dev, Logger: logger, Weather: weather.NewNWSClient()})
	if err != nil {
		logger.Errorf("main", "startup failed: %v", err)
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rt.App.Start(ctx); err != nil {
		logger.Errorf("main", "stopped with error: %v", err)
		return err
	}
	logger.Infof("main", "stopped")
	return nil
}

func (c *cli) validConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := c.flags.resolve(cmd.Flags())
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newLogger logs to ./minidisplay-debug.log with --debug and to w otherwise.
func newLogger(debug bool, w io.Writer) (logging.Logger, func()) {
	if !debug {
		return logging.NewSlogLogger(w, slog.LevelInfo), func() {}
	}
	f, err := os.OpenFile(debugLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		fmt.Fprintln(w, "debug log open error:", err)
		return logging.NewSlogLogger(w, slog.LevelDebug), func() {}
	}
	l := logging.NewFileLogger(f)
	l.Infof("main", "debug logging enabled")
	return l, func() { _ = f.Close() }
}

type runtimeOptions struct {
	Dev     bool
	Logger  logging.Logger
	Weather weather.Source
	// Transit replaces the GTFS client built from the config.
	Transit transit.Feed
}

type runtime struct {
	App     *app.App
	Store   *state.Store
	Sink    display.Sink
	Widgets []string
	Web     *web.HTTPServer
}

// buildRuntime wires data sources, widgets, the sink and the preview server.
// The sink is opened last so a bad widget setup never touches the panel.
func buildRuntime(cfg config.Config, opts runtimeOptions) (*runtime, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoopLogger{}
	}

	face := render.DefaultFace()
	if cfg.FontPath != "" {
		loaded, err := render.LoadTextFace(cfg.FontPath, cfg.FontSize)
		if err != nil {
			return nil, fmt.Errorf("load font: %w", err)
		}
		face = loaded
	}

	feed := opts.Transit
	if feed == nil {
		var stops *transit.StopTable
		if cfg.StopsFile != "" {
			loaded, err := transit.LoadStops(cfg.StopsFile)
			if err != nil {
				return nil, fmt.Errorf("load stops: %w", err)
			}
			stops = loaded
		}
		client := transit.NewGTFSClient(stops)
		if cfg.FeedBaseURL != "" {
			client.BaseURL = cfg.FeedBaseURL
		}
		client.APIKey = cfg.FeedAPIKey
		feed = client
	}

	if cfg.QRURL == "" && cfg.Listen != "" && slices.Contains(cfg.Widgets, "qr") {
		ip, err := system.PrimaryIPv4()
		if err != nil {
			logger.Infof("main", "qr: %v, using localhost", err)
		}
		cfg.QRURL = system.PreviewURL(cfg.Listen, ip)
	}

	ws, err := widgets.Build(cfg.Widgets, widgets.Deps{
		Config:  cfg,
		Weather: opts.Weather,
		Transit: feed,
		Face:    face,
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ws))
	for _, w := range ws {
		names = append(names, w.Name())
	}

	sink, err := display.Open(cfg.Sink, cfg.Matrix, cfg.FBDevice, logger)
	if err != nil {
		return nil, err
	}

	store := state.NewStore(names...)
	scheduler := app.NewScheduler(ws, sink, cfg.CycleDuration())
	scheduler.Face = face

	rt := &runtime{Store: store, Sink: sink, Widgets: names}
	var server web.Server = &web.NoopServer{}
	if serverCfg := (web.ServerConfig{ListenAddr: cfg.Listen, DevMode: opts.Dev}); serverCfg.Enabled() {
		rt.Web = web.NewHTTPServer(serverCfg)
		rt.Web.Deps = web.APIV1Deps{Store: store, Active: names, Available: widgets.Names()}
		rt.Web.Logger = logger
		server = rt.Web
	}

	rt.App = app.New(store, sink, scheduler, server)
	rt.App.Logger = logger
	return rt, nil
}
