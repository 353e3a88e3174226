package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mini-display/minidisplay/internal/display"
)

// TimezoneConfig names one clock row.
type TimezoneConfig struct {
	City     string `mapstructure:"city" yaml:"city"`
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

var DefaultTimezones = []TimezoneConfig{
	{City: "Melbourne", Timezone: "Australia/Melbourne"},
	{City: "New York", Timezone: "America/New_York"},
}

const (
	DefaultZip          = "11201"
	DefaultStation      = "Jay St-MetroTech"
	DefaultRoutes       = "A,C,F,R"
	DefaultCycleSeconds = 6
	DefaultWeatherTTL   = 300 * time.Second
	DefaultTransitTTL   = 20 * time.Second
	DefaultMaxArrivals  = 2
	DefaultServiceName  = "MTA"
	DefaultFontSize     = 8
)

var DefaultWidgets = []string{"clock", "transit", "weather"}

// Config is the resolved runtime configuration. It is built once at startup
// and treated as read-only afterwards.
type Config struct {
	Matrix   display.MatrixOptions `yaml:"matrix"`
	Sink     string                `yaml:"sink"`
	FBDevice string                `yaml:"fb-device"`

	CycleSeconds int      `yaml:"cycle-seconds"`
	Widgets      []string `yaml:"widgets"`

	Timezones []TimezoneConfig `yaml:"timezones"`

	Zip        string        `yaml:"zip"`
	Lat        *float64      `yaml:"lat,omitempty"`
	Lon        *float64      `yaml:"lon,omitempty"`
	WeatherTTL time.Duration `yaml:"weather-ttl"`

	Stations    []string      `yaml:"stations"`
	Routes      []string      `yaml:"routes"`
	TransitTTL  time.Duration `yaml:"transit-ttl"`
	MaxArrivals int           `yaml:"max-arrivals"`
	ServiceName string        `yaml:"service-name"`
	StopsFile   string        `yaml:"stops-file,omitempty"`
	FeedBaseURL string        `yaml:"feed-base-url,omitempty"`
	FeedAPIKey  string        `yaml:"-"`

	FontPath string  `yaml:"font,omitempty"`
	FontSize float64 `yaml:"font-size"`

	QRURL string `yaml:"qr-url,omitempty"`

	Listen string `yaml:"listen,omitempty"`
	Debug  bool   `yaml:"debug"`
}

func Default() Config {
	return Config{
		Matrix:       display.DefaultMatrixOptions(),
		Sink:         display.SinkFramebuffer,
		FBDevice:     display.DefaultFramebufferDevice,
		CycleSeconds: DefaultCycleSeconds,
		Widgets:      append([]string(nil), DefaultWidgets...),
		Timezones:    append([]TimezoneConfig(nil), DefaultTimezones...),
		Zip:          DefaultZip,
		WeatherTTL:   DefaultWeatherTTL,
		Stations:     []string{DefaultStation},
		Routes:       ParseRoutes(DefaultRoutes),
		TransitTTL:   DefaultTransitTTL,
		MaxArrivals:  DefaultMaxArrivals,
		ServiceName:  DefaultServiceName,
		FontSize:     DefaultFontSize,
	}
}

// ParseRoutes splits a comma separated route list, trimming and upper-casing
// each entry and dropping empties.
func ParseRoutes(raw string) []string {
	var routes []string
	for _, r := range strings.Split(raw, ",") {
		r = strings.ToUpper(strings.TrimSpace(r))
		if r != "" {
			routes = append(routes, r)
		}
	}
	return routes
}

// ParseTimezone parses "City=Area/Zone". A bare zone id uses "Local" as the city.
func ParseTimezone(raw string) (TimezoneConfig, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return TimezoneConfig{}, errors.New("empty timezone")
	}
	city, zone, ok := strings.Cut(raw, "=")
	if !ok {
		return TimezoneConfig{City: "Local", Timezone: raw}, nil
	}
	city, zone = strings.TrimSpace(city), strings.TrimSpace(zone)
	if city == "" || zone == "" {
		return TimezoneConfig{}, fmt.Errorf("timezone %q: want City=Area/Zone", raw)
	}
	return TimezoneConfig{City: city, Timezone: zone}, nil
}

// CycleDuration is how long each widget stays on screen, never below two seconds.
func (c Config) CycleDuration() time.Duration {
	return ClampCycle(time.Duration(c.CycleSeconds) * time.Second)
}

const MinCycle = 2 * time.Second

func ClampCycle(d time.Duration) time.Duration {
	if d < MinCycle {
		return MinCycle
	}
	return d
}

// HasCoordinates reports whether both latitude and longitude were given.
func (c Config) HasCoordinates() bool { return c.Lat != nil && c.Lon != nil }

// Validate reports configuration errors that must stop startup.
func (c Config) Validate() error {
	var errs []error
	if err := c.Matrix.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Widgets) == 0 {
		errs = append(errs, errors.New("at least one widget is required"))
	}
	if c.Lat != nil && (*c.Lat < -90 || *c.Lat > 90) {
		errs = append(errs, fmt.Errorf("lat out of range: %v", *c.Lat))
	}
	if c.Lon != nil && (*c.Lon < -180 || *c.Lon > 180) {
		errs = append(errs, fmt.Errorf("lon out of range: %v", *c.Lon))
	}
	if c.WeatherTTL < 0 || c.TransitTTL < 0 {
		errs = append(errs, errors.New("cache ttl must not be negative"))
	}
	if c.FontPath != "" && c.FontSize <= 0 {
		errs = append(errs, fmt.Errorf("font-size must be positive (got %v)", c.FontSize))
	}
	for _, tz := range c.Timezones {
		if strings.TrimSpace(tz.City) == "" {
			errs = append(errs, fmt.Errorf("timezone %q has no city", tz.Timezone))
		}
	}
	return errors.Join(errs...)
}
