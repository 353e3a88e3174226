package transit

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
)

// Normalize lowercases s and keeps only letters and digits, so
// "Jay St-MetroTech" becomes "jaystmetrotech".
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Matcher selects stops whose normalized name contains any normalized filter.
type Matcher struct {
	raw     []string
	filters []string
}

func NewMatcher(stations []string) Matcher {
	m := Matcher{raw: stations}
	for _, s := range stations {
		if n := Normalize(s); n != "" {
			m.filters = append(m.filters, n)
		}
	}
	return m
}

func (m Matcher) Match(stopName string) bool {
	n := Normalize(stopName)
	if n == "" {
		return false
	}
	for _, f := range m.filters {
		if strings.Contains(n, f) {
			return true
		}
	}
	return false
}

// Arrival is the next predicted train of one trip at a watched station.
type Arrival struct {
	At        time.Time
	Route     string
	Direction string
	Minutes   int
	Color     color.RGBA
}

// Arrow is ↑ for northbound trips and ↓ for everything else.
func (a Arrival) Arrow() string {
	if a.Direction == "N" {
		return "↑"
	}
	return "↓"
}

// Label renders the arrival as "<route> <minutes><arrow>".
func (a Arrival) Label() string {
	return fmt.Sprintf("%s %d%s", a.Route, a.Minutes, a.Arrow())
}

// MinutesUntil floors the time between now and at to whole minutes.
func MinutesUntil(now, at time.Time) int {
	return int(math.Floor(at.Sub(now).Seconds() / 60))
}

// StationNotFoundError reports that no stop in the fetched trips matched the
// station filters at all, usually a misspelled station name.
type StationNotFoundError struct {
	Stations []string
	Closest  string
}

func (e *StationNotFoundError) Error() string {
	if e.Closest == "" {
		return fmt.Sprintf("no stop matches %q", e.Stations)
	}
	return fmt.Sprintf("no stop matches %q; closest stop is %q", e.Stations, e.Closest)
}

// Collect queries every route and returns upcoming arrivals at matching
// stations, earliest first. Only the first matching future stop of each trip
// counts. A failing route is skipped and reported through the returned error
// (errors.Join of *RouteError values) alongside whatever the other routes yielded.
func Collect(ctx context.Context, feed Feed, routes []string, m Matcher, now time.Time) ([]Arrival, error) {
	var (
		arrivals  []Arrival
		errs      []error
		fetched   bool
		anyMatch  bool
		stopNames = map[string]struct{}{}
	)

	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		trips, err := feed.Trips(ctx, route)
		if err != nil {
			errs = append(errs, &RouteError{Route: route, Err: err})
			continue
		}
		fetched = true
		for _, trip := range trips {
			for _, stu := range trip.StopTimeUpdates {
				if stu.StopName == "" {
					continue
				}
				stopNames[stu.StopName] = struct{}{}
				if !m.Match(stu.StopName) {
					continue
				}
				anyMatch = true
				at, ok := stu.When()
				if !ok || at.Before(now) {
					continue
				}
				arrivals = append(arrivals, Arrival{
					At:        at,
					Route:     route,
					Direction: trip.Direction,
					Minutes:   MinutesUntil(now, at),
					Color:     RouteColor(route),
				})
				break
			}
		}
	}

	sort.SliceStable(arrivals, func(i, j int) bool { return arrivals[i].At.Before(arrivals[j].At) })

	if fetched && !anyMatch && len(stopNames) > 0 && len(m.filters) > 0 {
		errs = append(errs, &StationNotFoundError{Stations: m.raw, Closest: closestStop(m.filters, stopNames)})
	}
	return arrivals, errors.Join(errs...)
}

func closestStop(filters []string, names map[string]struct{}) string {
	best, bestDist := "", math.MaxInt
	for name := range names {
		n := Normalize(name)
		for _, f := range filters {
			d := levenshtein.ComputeDistance(f, n)
			if d < bestDist || (d == bestDist && name < best) {
				best, bestDist = name, d
			}
		}
	}
	return best
}
