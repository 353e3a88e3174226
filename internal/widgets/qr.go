package widgets

import (
	"context"
	"image"

	"github.com/mini-display/minidisplay/internal/render"
)

// QR shows a scannable code for a fixed URL, dark modules on white.
type QR struct {
	payload string
}

func NewQR(payload string) *QR { return &QR{payload: payload} }

func (q *QR) Name() string { return "qr" }

func (q *QR) Refresh(context.Context) error { return nil }

// Render fails with render.ErrQRTooLarge when the code does not fit.
func (q *QR) Render(width, height int) (*image.RGBA, error) {
	frame := render.NewCanvas(width, height, render.White)
	if err := render.DrawQRCode(frame, q.payload, render.Black); err != nil {
		return nil, err
	}
	return frame, nil
}
