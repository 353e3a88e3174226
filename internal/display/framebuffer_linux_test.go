//go:build linux

package display

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramebufferSinkWithoutDevice(t *testing.T) {
	s := &FramebufferSink{frame: image.NewRGBA(image.Rect(0, 0, 4, 2)), brightness: 100}

	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, A: 0xFF})
	require.NoError(t, s.SetImage(img, 0, 0))
	assert.Equal(t, color.RGBA{R: 0xFF, A: 0xFF}, s.frame.RGBAAt(0, 0))

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.NotPanics(t, func() { assert.NoError(t, s.Clear()) })
	assert.Equal(t, color.RGBA{A: 0xFF}, s.frame.RGBAAt(0, 0))
}
