// Package transit reads realtime subway arrivals and turns them into short
// display labels.
package transit

import (
	"context"
	"fmt"
	"time"
)

// StopTimeUpdate is a predicted arrival or departure at one stop.
// Zero times mean the feed did not provide that event.
type StopTimeUpdate struct {
	StopID    string
	StopName  string
	Arrival   time.Time
	Departure time.Time
}

// When returns the arrival time, or the departure time when no arrival is known.
func (u StopTimeUpdate) When() (time.Time, bool) {
	if !u.Arrival.IsZero() {
		return u.Arrival, true
	}
	if !u.Departure.IsZero() {
		return u.Departure, true
	}
	return time.Time{}, false
}

// Trip is one vehicle run with its remaining stop predictions, in feed order.
type Trip struct {
	TripID          string
	RouteID         string
	Direction       string
	StopTimeUpdates []StopTimeUpdate
}

// Feed returns the active trips of a route.
type Feed interface {
	Trips(ctx context.Context, route string) ([]Trip, error)
}

// RouteError records a failure to read one route. Other routes are unaffected.
type RouteError struct {
	Route string
	Err   error
}

func (e *RouteError) Error() string { return fmt.Sprintf("route %s: %v", e.Route, e.Err) }

func (e *RouteError) Unwrap() error { return e.Err }
