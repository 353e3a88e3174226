package widgets

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/transit"
)

// maxTransitRows is how many lines fit the panel, independent of MaxLines.
const maxTransitRows = 2

type TransitOptions struct {
	Stations []string
	Routes   []string
	MaxLines int
	TTL      time.Duration
	// Service labels the placeholder lines, e.g. "MTA N/A".
	Service string
}

// Line is one rendered row of the transit widget.
type Line struct {
	Text  string
	Color color.RGBA
}

// Transit lists the next arrivals at the watched stations.
type Transit struct {
	feed    transit.Feed
	opts    TransitOptions
	matcher transit.Matcher
	face    *render.TextFace
	now     func() time.Time
	cache   fetchCache
	lines   []Line
}

func NewTransit(feed transit.Feed, opts TransitOptions, face *render.TextFace, now func() time.Time) *Transit {
	if face == nil {
		face = render.DefaultFace()
	}
	return &Transit{
		feed:    feed,
		opts:    opts,
		matcher: transit.NewMatcher(opts.Stations),
		face:    face,
		now:     clockOrNow(now),
		cache:   fetchCache{ttl: opts.TTL},
	}
}

func (t *Transit) Name() string { return "transit" }

// Lines returns the rows to display, including placeholders.
func (t *Transit) Lines() []Line {
	if len(t.lines) == 0 {
		return []Line{{Text: t.opts.Service + " ...", Color: transit.DefaultColor}}
	}
	return append([]Line(nil), t.lines...)
}

// Refresh queries every route when the cache has expired. Routes that fail
// are skipped; their errors are returned after the lines have been updated
// from whatever the other routes produced.
func (t *Transit) Refresh(ctx context.Context) error {
	now := t.now()
	if !t.cache.due(now) {
		return nil
	}
	t.cache.mark(now)

	arrivals, err := transit.Collect(ctx, t.feed, t.opts.Routes, t.matcher, now)
	limit := t.opts.MaxLines
	if limit < 1 {
		limit = 1
	}
	if len(arrivals) > limit {
		arrivals = arrivals[:limit]
	}

	if len(arrivals) == 0 {
		t.lines = []Line{{Text: t.opts.Service + " N/A", Color: transit.DefaultColor}}
		return err
	}
	lines := make([]Line, 0, len(arrivals))
	for _, a := range arrivals {
		lines = append(lines, Line{Text: a.Label(), Color: a.Color})
	}
	t.lines = lines
	return err
}

func (t *Transit) Render(width, height int) (*image.RGBA, error) {
	frame := render.NewCanvas(width, height, render.Black)
	lines := t.Lines()
	if len(lines) > maxTransitRows {
		lines = lines[:maxTransitRows]
	}

	y, used := 0, 0
	for _, line := range lines {
		m := t.face.Measure(line.Text)
		if used+m.Height > height {
			break
		}
		t.face.Draw(frame, render.CenterX(width, m.Width), y, line.Text, line.Color)
		y += m.Height
		if y+1 < height {
			y++
		}
		used = y
	}
	return frame, nil
}
