package widgets

import (
	"context"
	"image"
	"image/color"
	"time"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/render"
	"github.com/mini-display/minidisplay/internal/render/layout"
)

var (
	compactTime = color.RGBA{R: 255, G: 255, B: 255, A: 0xFF}
	compactDate = color.RGBA{R: 128, G: 128, B: 128, A: 0xFF}
)

// CompactClock shows a single zone as a large time over the date.
type CompactClock struct {
	loc *time.Location
	now func() time.Time
}

func NewCompactClock(zone config.TimezoneConfig, now func() time.Time) *CompactClock {
	return &CompactClock{loc: loadLocation(zone.Timezone), now: clockOrNow(now)}
}

func (c *CompactClock) Name() string { return "clock-compact" }

func (c *CompactClock) Refresh(context.Context) error { return nil }

// CompactTime formats t as "3:04p".
func CompactTime(t time.Time) string {
	return t.Format("3:04") + t.Format("pm")[:1]
}

func (c *CompactClock) Render(width, height int) (*image.RGBA, error) {
	frame := render.NewCanvas(width, height, render.Black)
	now := c.now().In(c.loc)
	top, bottom := layout.SplitHorizontal(frame.Bounds(), height/2)

	timeText := CompactTime(now)
	scale := 2
	if w, h := render.MeasureSmallText(timeText, scale, 1); w > top.Dx() || h > top.Dy() {
		scale = 1
	}
	w, h := render.MeasureSmallText(timeText, scale, 1)
	at := layout.Center(top, w, h)
	render.DrawSmallText(frame, at.X, at.Y, timeText, compactTime, scale, 1)

	dateText := now.Format("01/02/06")
	w, h = render.MeasureSmallText(dateText, 1, 1)
	at = layout.Center(bottom, w, h)
	render.DrawSmallText(frame, at.X, at.Y, dateText, compactDate, 1, 1)
	return frame, nil
}
