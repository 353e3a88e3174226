package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/mini-display/minidisplay/internal/app"
	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/logging"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/web"
	"github.com/mini-display/minidisplay/internal/widgets"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := pflag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := pflag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := pflag.String("static-dir", "", "serve static UI from this directory (optional); when empty, the embedded page is served")
	scenario := pflag.String("scenario", "normal", "startup scenario: normal | cold | offline | broken")
	terminal := pflag.Bool("terminal", false, "also draw frames in this terminal")
	cycleSeconds := pflag.Int("cycle-seconds", 3, "seconds each widget stays on screen (minimum 2)")
	widgetNames := pflag.StringSlice("widgets", []string{"clock", "transit", "weather", "qr"}, "widgets to cycle, in order")
	pflag.Parse()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Default()
	cfg.Sink = display.SinkMemory
	cfg.CycleSeconds = *cycleSeconds
	cfg.Widgets = *widgetNames
	cfg.Listen = *listenAddr
	if err := cfg.Validate(); err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	control := NewSimControl(*scenario, cfg.Routes)
	if err := control.ApplyScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	var logger logging.Logger = logging.NewSlogLogger(os.Stderr, slog.LevelInfo)
	if *terminal {
		// stderr would tear the tcell screen
		logger = logging.NoopLogger{}
	}

	sim, err := newSimulator(cfg, control, simOptions{Terminal: *terminal, StaticDir: *staticDir, Dev: *devMode, Logger: logger})
	if err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}

	if !*terminal {
		fmt.Println("minidisplay simulator listening on", sim.server.Addr)
		fmt.Println("Scenario:", control.Scenario())
		fmt.Println("Preview: http://" + trimLeadingColon(sim.server.Addr) + "/")
	}

	if err := sim.app.Start(processCtx); err != nil {
		fmt.Println("simulator stopped:", err)
		os.Exit(1)
	}
}

type simOptions struct {
	Terminal  bool
	StaticDir string
	Dev       bool
	Logger    logging.Logger
}

type simulator struct {
	app    *app.App
	store  *state.Store
	mirror *display.MemorySink
	server *web.HTTPServer
}

// newSimulator runs the real widgets and scheduler against simulated sources.
// Frames always land in an in-memory sink. They are
// mirrored to a tcell screen as well when opts.Terminal is set.
func newSimulator(cfg config.Config, control *SimControl, opts simOptions) (*simulator, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NoopLogger{}
	}
	station := config.DefaultStation
	if len(cfg.Stations) > 0 {
		station = cfg.Stations[0]
	}
	if cfg.QRURL == "" {
		cfg.QRURL = "http://" + trimLeadingColon(cfg.Listen) + "/"
	}

	ws, err := widgets.Build(cfg.Widgets, widgets.Deps{
		Config:  cfg,
		Weather: SimWeather{Control: control},
		Transit: SimFeed{Control: control, Station: station},
		Now:     control.clock,
	})
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ws))
	for _, w := range ws {
		names = append(names, w.Name())
	}

	mirror := display.NewMemorySink(cfg.Matrix.Width(), cfg.Matrix.Height())
	var sink display.Sink = mirror
	if opts.Terminal {
		screen, err := display.Open(display.SinkTerminal, cfg.Matrix, "", logger)
		if err != nil {
			return nil, err
		}
		sink = display.NewTee(screen, mirror)
	}

	store := state.NewStore(names...)
	scheduler := app.NewScheduler(wrapWidgets(ws, control), sink, cfg.CycleDuration())
	scheduler.Now = control.clock

	server := web.NewHTTPServer(web.ServerConfig{ListenAddr: cfg.Listen, DevMode: opts.Dev, StaticDir: opts.StaticDir})
	server.Logger = logger
	server.Handler = web.NewDefaultMux(server.StaticDir, web.APIV1Deps{
		Store:     store,
		Active:    names,
		Available: widgets.Names(),
		Now:       control.clock,
	})
	registerSimEndpoints(server.Handler, control, mirror)

	a := app.New(store, sink, scheduler, server)
	a.Logger = logger
	return &simulator{app: a, store: store, mirror: mirror, server: server}, nil
}

func trimLeadingColon(addr string) string {
	if addr == "" {
		return "127.0.0.1:8080"
	}
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
