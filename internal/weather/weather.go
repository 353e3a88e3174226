// Package weather fetches the current forecast temperature for a location.
package weather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// DefaultCoordinates is used when no location is configured and geocoding fails.
var DefaultCoordinates = Coordinates{Lat: 40.6944, Lon: -73.9918}

// Period is one forecast period.
type Period struct {
	Name          string
	Temperature   *float64
	Unit          string
	ShortForecast string
}

// Source resolves ZIP codes and forecasts. Implementations must honour ctx.
type Source interface {
	Geocode(ctx context.Context, zip string) (Coordinates, error)
	Forecast(ctx context.Context, at Coordinates) ([]Period, error)
}

var (
	ErrGeocode       = errors.New("geocode failed")
	ErrForecast      = errors.New("forecast failed")
	ErrNoPeriods     = errors.New("forecast has no periods")
	ErrNoTemperature = errors.New("forecast period has no temperature")
)

// Celsius converts the period temperature to whole degrees Celsius.
// Halves round to even.
func (p Period) Celsius() (int, error) {
	if p.Temperature == nil {
		return 0, ErrNoTemperature
	}
	t := *p.Temperature
	if strings.EqualFold(strings.TrimSpace(p.Unit), "F") {
		t = (t - 32) * 5 / 9
	}
	return int(math.RoundToEven(t)), nil
}

// CelsiusText formats c the way the weather widget shows it.
func CelsiusText(c int) string {
	return fmt.Sprintf("%d°C", c)
}

// Current returns the first forecast period for at.
func Current(ctx context.Context, src Source, at Coordinates) (Period, error) {
	periods, err := src.Forecast(ctx, at)
	if err != nil {
		return Period{}, err
	}
	if len(periods) == 0 {
		return Period{}, ErrNoPeriods
	}
	return periods[0], nil
}
