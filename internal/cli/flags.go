package cli

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/display"
)

type runFlags struct {
	matrix   display.MatrixOptions
	sink     string
	fbDevice string

	cycleSeconds int
	widgets      []string
	timezones    []string

	zip        string
	lat, lon   float64
	weatherTTL time.Duration

	stations    []string
	routes      string
	transitTTL  time.Duration
	maxArrivals int
	serviceName string
	stopsFile   string
	feedBaseURL string
	feedAPIKey  string

	fontPath string
	fontSize float64
	qrURL    string

	listen   string
	dev      bool
	debug    bool
	stdioLog string
}

// secretFlags are never printed by "minidisplay config".
var secretFlags = map[string]bool{"feed-api-key": true}

func registerFlags(fs *pflag.FlagSet, f *runFlags) {
	def := config.Default()

	fs.IntVar(&f.matrix.Rows, "rows", def.Matrix.Rows, "rows per panel")
	fs.IntVar(&f.matrix.Cols, "cols", def.Matrix.Cols, "columns per panel")
	fs.IntVar(&f.matrix.ChainLength, "chain-length", def.Matrix.ChainLength, "panels daisy-chained")
	fs.IntVar(&f.matrix.Parallel, "parallel", def.Matrix.Parallel, "parallel chains")
	fs.StringVar(&f.matrix.HardwareMapping, "hardware-mapping", def.Matrix.HardwareMapping, "GPIO mapping of the matrix driver board")
	fs.IntVar(&f.matrix.GPIOSlowdown, "gpio-slowdown", def.Matrix.GPIOSlowdown, "GPIO slowdown (0..5)")
	fs.IntVar(&f.matrix.PWMBits, "pwm-bits", def.Matrix.PWMBits, "PWM bits (1..11)")
	fs.IntVar(&f.matrix.Brightness, "brightness", def.Matrix.Brightness, "brightness in percent, clamped to 1..100")
	fs.StringVar(&f.sink, "sink", def.Sink, "display sink: "+strings.Join(display.SinkNames(), ", "))
	fs.StringVar(&f.fbDevice, "fb-device", def.FBDevice, "framebuffer device for the framebuffer sink")

	fs.IntVar(&f.cycleSeconds, "cycle-seconds", def.CycleSeconds, "seconds each widget stays on screen (minimum 2)")
	fs.StringSliceVar(&f.widgets, "widgets", def.Widgets, "widgets to cycle, in order")
	fs.StringArrayVar(&f.timezones, "timezone", timezoneRows(def.Timezones), "clock row as City=Area/Zone (repeatable)")

	fs.StringVar(&f.zip, "zip", def.Zip, "US ZIP code used to locate the forecast")
	fs.Float64Var(&f.lat, "lat", 0, "latitude, overrides --zip together with --lon")
	fs.Float64Var(&f.lon, "lon", 0, "longitude, overrides --zip together with --lat")
	fs.DurationVar(&f.weatherTTL, "weather-ttl", def.WeatherTTL, "how long a forecast is reused")

	fs.StringArrayVar(&f.stations, "station", def.Stations, "station name to show arrivals for (repeatable)")
	fs.StringVar(&f.routes, "routes", strings.Join(def.Routes, ","), "comma separated routes")
	fs.DurationVar(&f.transitTTL, "transit-ttl", def.TransitTTL, "how long arrivals are reused")
	fs.IntVar(&f.maxArrivals, "max-arrivals", def.MaxArrivals, "arrivals kept per refresh")
	fs.StringVar(&f.serviceName, "service-name", def.ServiceName, "label shown while arrivals are unknown")
	fs.StringVar(&f.stopsFile, "stops-file", "", "GTFS stops.txt used to name stop ids (default: embedded subset)")
	fs.StringVar(&f.feedBaseURL, "feed-base-url", "", "GTFS-realtime feed base URL")
	fs.StringVar(&f.feedAPIKey, "feed-api-key", "", "API key sent with feed requests")

	fs.StringVar(&f.fontPath, "font", "", "TTF/OTF font for arrivals and error frames (default: built-in bitmap font)")
	fs.Float64Var(&f.fontSize, "font-size", def.FontSize, "font size in points for --font")
	fs.StringVar(&f.qrURL, "qr-url", "", "URL encoded by the qr widget (default: the preview page)")

	fs.StringVar(&f.listen, "listen", "", "serve the preview page and status API on this address")
	fs.BoolVar(&f.dev, "dev", false, "allow cross-origin requests to the API")
	fs.BoolVar(&f.debug, "debug", false, "enable debug logging to ./minidisplay-debug.log")
	fs.StringVar(&f.stdioLog, "stdio-log", "", "redirect stdout+stderr (including panics) to this file")
}

func timezoneRows(zones []config.TimezoneConfig) []string {
	rows := make([]string, 0, len(zones))
	for _, tz := range zones {
		rows = append(rows, tz.City+"="+tz.Timezone)
	}
	return rows
}

// resolve turns the parsed flags into a Config. Validation is left to the caller.
func (f *runFlags) resolve(fs *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	cfg.Matrix = f.matrix
	cfg.Sink = f.sink
	cfg.FBDevice = f.fbDevice
	cfg.CycleSeconds = f.cycleSeconds
	cfg.Widgets = trimmed(f.widgets)
	cfg.Zip = strings.TrimSpace(f.zip)
	cfg.WeatherTTL = f.weatherTTL
	cfg.Stations = trimmed(f.stations)
	cfg.Routes = config.ParseRoutes(f.routes)
	cfg.TransitTTL = f.transitTTL
	cfg.MaxArrivals = f.maxArrivals
	cfg.ServiceName = f.serviceName
	cfg.StopsFile = f.stopsFile
	cfg.FeedBaseURL = f.feedBaseURL
	cfg.FeedAPIKey = f.feedAPIKey
	cfg.FontPath = f.fontPath
	cfg.FontSize = f.fontSize
	cfg.QRURL = f.qrURL
	cfg.Listen = f.listen
	cfg.Debug = f.debug

	if fs.Changed("lat") {
		lat := f.lat
		cfg.Lat = &lat
	}
	if fs.Changed("lon") {
		lon := f.lon
		cfg.Lon = &lon
	}

	var errs []error
	cfg.Timezones = nil
	for _, raw := range f.timezones {
		tz, err := config.ParseTimezone(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		cfg.Timezones = append(cfg.Timezones, tz)
	}
	return cfg, errors.Join(errs...)
}

func trimmed(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
