// Package widgets holds the display units the scheduler cycles through.
package widgets

import (
	"context"
	"image"
	"time"
)

// Widget is one independently refreshed and rendered display unit.
//
// Refresh updates cached display state and may block on the network.
// Errors are informational: the widget has already fallen back to a
// placeholder or its previous state when Refresh returns.
//
// Render is a pure function of that state and returns an opaque bitmap of
// exactly width x height. It is never called concurrently with Refresh.
type Widget interface {
	Name() string
	Refresh(ctx context.Context) error
	Render(width, height int) (*image.RGBA, error)
}

// fetchCache gates refreshes to at most one per ttl.
type fetchCache struct {
	ttl  time.Duration
	last time.Time
}

// due reports whether a fetch should run at now. The first call is always due.
func (c *fetchCache) due(now time.Time) bool {
	return c.last.IsZero() || now.Sub(c.last) > c.ttl
}

// mark records an attempt, successful or not.
func (c *fetchCache) mark(now time.Time) { c.last = now }

func clockOrNow(now func() time.Time) func() time.Time {
	if now == nil {
		return time.Now
	}
	return now
}
