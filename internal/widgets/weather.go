package widgets

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/render/layout"
	"github.com/mini-display/minidisplay/internal/weather"
)

// WeatherPlaceholder is shown until a forecast arrives and after any failure.
const WeatherPlaceholder = "N/A"

var weatherText = color.RGBA{G: 200, B: 255, A: 0xFF}

type WeatherOptions struct {
	// Coordinates wins over Zip when set.
	Coordinates *weather.Coordinates
	Zip         string
	TTL         time.Duration
}

// Weather shows the current forecast temperature in Celsius.
type Weather struct {
	src   weather.Source
	opts  WeatherOptions
	now   func() time.Time
	cache fetchCache
	text  string
}

func NewWeather(src weather.Source, opts WeatherOptions, now func() time.Time) *Weather {
	return &Weather{
		src:   src,
		opts:  opts,
		now:   clockOrNow(now),
		cache: fetchCache{ttl: opts.TTL},
		text:  WeatherPlaceholder,
	}
}

func (w *Weather) Name() string { return "weather" }

// Text is the currently displayed temperature.
func (w *Weather) Text() string { return w.text }

// Refresh fetches a new forecast when the cache has expired. Any failure
// replaces the text with the placeholder and is returned for logging.
func (w *Weather) Refresh(ctx context.Context) error {
	now := w.now()
	if !w.cache.due(now) {
		return nil
	}
	w.cache.mark(now)

	text, err := w.fetch(ctx)
	if err != nil {
		w.text = WeatherPlaceholder
		return err
	}
	w.text = text
	return nil
}

func (w *Weather) fetch(ctx context.Context) (string, error) {
	period, err := weather.Current(ctx, w.src, w.location(ctx))
	if err != nil {
		return "", err
	}
	c, err := period.Celsius()
	if err != nil {
		return "", err
	}
	return weather.CelsiusText(c), nil
}

// location never fails: a failed ZIP lookup lands on the default location.
func (w *Weather) location(ctx context.Context) weather.Coordinates {
	if w.opts.Coordinates != nil {
		return *w.opts.Coordinates
	}
	if w.opts.Zip == "" {
		return weather.DefaultCoordinates
	}
	at, err := w.src.Geocode(ctx, w.opts.Zip)
	if err != nil {
		return weather.DefaultCoordinates
	}
	return at
}

func (w *Weather) Render(width, height int) (*image.RGBA, error) {
	frame := render.NewCanvas(width, height, render.Black)
	tw, th := render.MeasureSmallText(w.text, 1, 1)
	at := layout.Center(frame.Bounds(), tw, th)
	render.DrawSmallText(frame, at.X, at.Y, w.text, weatherText, 1, 1)
	return frame, nil
}
