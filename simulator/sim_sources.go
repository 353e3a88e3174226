package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mini-display/minidisplay/internal/transit"
	"github.com/mini-display/minidisplay/internal/weather"
)

// SimWeather serves the control's temperature, or fails while weatherFail is set.
type SimWeather struct {
	Control *SimControl
}

func (s SimWeather) Geocode(ctx context.Context, zip string) (weather.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return weather.Coordinates{}, err
	}
	if s.Control.Faults().WeatherFail {
		return weather.Coordinates{}, fmt.Errorf("%w: simulated outage for %s", weather.ErrGeocode, zip)
	}
	return weather.DefaultCoordinates, nil
}

func (s SimWeather) Forecast(ctx context.Context, at weather.Coordinates) ([]weather.Period, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.Control.Faults().WeatherFail {
		return nil, fmt.Errorf("%w: simulated outage", weather.ErrForecast)
	}
	temp := s.Control.TempF()
	return []weather.Period{{Name: "This Afternoon", Temperature: &temp, Unit: "F", ShortForecast: "Sunny"}}, nil
}

// SimFeed invents trains for each route: northbound and southbound every few
// minutes, calling at "High St" and then Station.
type SimFeed struct {
	Control *SimControl
	Station string
}

const simTrainsPerDirection = 3

func (f SimFeed) Trips(ctx context.Context, route string) ([]transit.Trip, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	route = strings.ToUpper(strings.TrimSpace(route))
	if route == "" {
		return nil, fmt.Errorf("empty route")
	}
	if f.Control.routeFails(route) {
		return nil, fmt.Errorf("simulated feed outage for %s", route)
	}

	base := f.Control.clock().Truncate(time.Minute)
	var trips []transit.Trip
	for i, dir := range []string{"N", "S"} {
		headway := time.Duration(4+3*i) * time.Minute
		offset := time.Duration((int(route[0])+i)%5+1) * time.Minute
		for k := 0; k < simTrainsPerDirection; k++ {
			at := base.Add(offset + time.Duration(k)*headway)
			trips = append(trips, transit.Trip{
				TripID:    fmt.Sprintf("%06d_%s..%s", at.Hour()*6000+at.Minute()*100, route, dir),
				RouteID:   route,
				Direction: dir,
				StopTimeUpdates: []transit.StopTimeUpdate{
					{StopName: "High St", Arrival: at.Add(-2 * time.Minute)},
					{StopName: f.Station, Arrival: at, Departure: at.Add(30 * time.Second)},
				},
			})
		}
	}
	return trips, nil
}
