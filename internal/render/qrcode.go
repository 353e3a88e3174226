package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/skip2/go-qrcode"

	"github.com/mini-display/minidisplay/internal/render/layout"
)

var ErrQRTooLarge = errors.New("qr code does not fit")

// QRModules returns the module matrix for payload without the quiet zone.
func QRModules(payload string) ([][]bool, error) {
	if payload == "" {
		return nil, errors.New("empty qr payload")
	}
	qrCode, err := qrcode.New(payload, qrcode.Low)
	if err != nil {
		return nil, err
	}
	qrCode.DisableBorder = true
	return qrCode.Bitmap(), nil
}

// DrawQRCode draws payload centered in dst at the largest integer module size
// that fits. It returns ErrQRTooLarge when one pixel per module is still too big.
func DrawQRCode(dst *image.RGBA, payload string, fg color.Color) error {
	modules, err := QRModules(payload)
	if err != nil {
		return err
	}
	n := len(modules)
	side := layout.FitSquare(dst.Bounds()).Dx()
	if n == 0 || n > side {
		return fmt.Errorf("%w: %d modules in %dpx", ErrQRTooLarge, n, side)
	}
	px := side / n
	at := layout.Center(dst.Bounds(), n*px, n*px)
	offX, offY := at.X, at.Y
	for y, row := range modules {
		for x, on := range row {
			if !on {
				continue
			}
			FillRect(dst, image.Rect(offX+x*px, offY+y*px, offX+(x+1)*px, offY+(y+1)*px), fg)
		}
	}
	return nil
}
