package widgets

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/transit"
	"github.com/mini-display/minidisplay/internal/weather"
)

var ErrUnknownWidget = errors.New("unknown widget")

// Deps carries what factories need to build a widget.
type Deps struct {
	Config  config.Config
	Weather weather.Source
	Transit transit.Feed
	Face    *render.TextFace
	Now     func() time.Time
}

// Factory builds one widget from the resolved configuration.
type Factory func(d Deps) (Widget, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		"clock":         newClockWidget,
		"clock-compact": newCompactClockWidget,
		"weather":       newWeatherWidget,
		"transit":       newTransitWidget,
		"qr":            newQRWidget,
	}
	aliases = map[string]string{
		"subway": "transit",
	}
)

// Register adds or replaces a factory under name.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[canonical(name)] = f
}

// Names lists the registered widget names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func canonical(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		return target
	}
	return name
}

// Create builds the widget registered as name (aliases allowed).
func Create(name string, d Deps) (Widget, error) {
	registryMu.RLock()
	f, ok := registry[canonical(name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownWidget, name, strings.Join(Names(), ", "))
	}
	w, err := f(d)
	if err != nil {
		return nil, fmt.Errorf("widget %s: %w", name, err)
	}
	return w, nil
}

// Build creates the widgets in cycle order.
func Build(names []string, d Deps) ([]Widget, error) {
	if len(names) == 0 {
		return nil, errors.New("no widgets configured")
	}
	out := make([]Widget, 0, len(names))
	for _, name := range names {
		w, err := Create(name, d)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func newClockWidget(d Deps) (Widget, error) {
	zones := d.Config.Timezones
	if len(zones) == 0 {
		zones = config.DefaultTimezones
	}
	return NewClock(zones, d.Now), nil
}

func newCompactClockWidget(d Deps) (Widget, error) {
	zone := config.TimezoneConfig{City: "Local"}
	if len(d.Config.Timezones) > 0 {
		zone = d.Config.Timezones[0]
	}
	return NewCompactClock(zone, d.Now), nil
}

func newWeatherWidget(d Deps) (Widget, error) {
	if d.Weather == nil {
		return nil, errors.New("no weather source")
	}
	opts := WeatherOptions{Zip: d.Config.Zip, TTL: d.Config.WeatherTTL}
	if d.Config.HasCoordinates() {
		opts.Coordinates = &weather.Coordinates{Lat: *d.Config.Lat, Lon: *d.Config.Lon}
	}
	return NewWeather(d.Weather, opts, d.Now), nil
}

func newTransitWidget(d Deps) (Widget, error) {
	if d.Transit == nil {
		return nil, errors.New("no transit feed")
	}
	service := d.Config.ServiceName
	if service == "" {
		service = config.DefaultServiceName
	}
	return NewTransit(d.Transit, TransitOptions{
		Stations: d.Config.Stations,
		Routes:   d.Config.Routes,
		MaxLines: d.Config.MaxArrivals,
		TTL:      d.Config.TransitTTL,
		Service:  service,
	}, d.Face, d.Now), nil
}

func newQRWidget(d Deps) (Widget, error) {
	url := d.Config.QRURL
	if url == "" && d.Config.Listen != "" {
		host := d.Config.Listen
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		url = "http://" + host + "/"
	}
	if url == "" {
		return nil, errors.New("qr widget needs qr-url or listen")
	}
	return NewQR(url), nil
}
