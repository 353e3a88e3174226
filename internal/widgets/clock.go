package widgets

import (
	"context"
	"image"
	"image/color"
	"strings"
	"time"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/render"
)

var (
	clockSeparator = color.RGBA{R: 64, G: 64, B: 64, A: 0xFF}
	clockCity      = color.RGBA{G: 255, A: 0xFF}
	clockDateTime  = color.RGBA{R: 128, G: 128, B: 128, A: 0xFF}
)

const clockLayout = "01/02/06 at 3:04 pm"

type clockZone struct {
	city string
	loc  *time.Location
}

// Clock shows the date and time of several cities, two rows each.
type Clock struct {
	zones []clockZone
	now   func() time.Time
}

// NewClock resolves every zone up front. Unknown zone ids show local time.
func NewClock(zones []config.TimezoneConfig, now func() time.Time) *Clock {
	c := &Clock{now: clockOrNow(now)}
	for _, z := range zones {
		c.zones = append(c.zones, clockZone{city: z.City, loc: loadLocation(z.Timezone)})
	}
	return c
}

func loadLocation(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Clock) Name() string { return "clock" }

func (c *Clock) Refresh(context.Context) error { return nil }

func (c *Clock) Render(width, height int) (*image.RGBA, error) {
	frame := render.NewCanvas(width, height, render.Black)
	_, lineHeight := render.MeasureSmallText("A", 1, 1)

	y := 0
	render.HLine(frame, y, clockSeparator)
	y += 2

	now := c.now()
	for _, z := range c.zones {
		// the 4x6 font only carries capitals
		render.DrawSmallText(frame, 1, y, strings.ToUpper(z.city), clockCity, 1, 1)
		y += lineHeight + 1
		render.DrawSmallText(frame, 2, y, now.In(z.loc).Format(clockLayout), clockDateTime, 1, 1)
		y += lineHeight + 2
	}

	render.HLine(frame, height-1, clockSeparator)
	return frame, nil
}
