package transit

import (
	"image/color"
	"strings"
)

var (
	blueACE      = color.RGBA{R: 0, G: 57, B: 166, A: 0xFF}
	orangeBDFM   = color.RGBA{R: 255, G: 99, B: 25, A: 0xFF}
	yellowNQRW   = color.RGBA{R: 252, G: 204, B: 10, A: 0xFF}
	red123       = color.RGBA{R: 238, G: 53, B: 46, A: 0xFF}
	green456     = color.RGBA{R: 0, G: 147, B: 60, A: 0xFF}
	purple7      = color.RGBA{R: 185, G: 51, B: 173, A: 0xFF}
	greyL        = color.RGBA{R: 145, G: 145, B: 142, A: 0xFF}
	limeG        = color.RGBA{R: 108, G: 190, B: 69, A: 0xFF}
	brownJZ      = color.RGBA{R: 153, G: 102, B: 51, A: 0xFF}
	shuttleGrey  = color.RGBA{R: 128, G: 128, B: 128, A: 0xFF}
	DefaultColor = color.RGBA{R: 255, G: 255, B: 255, A: 0xFF}
)

// routeColors holds the official MTA line colors.
var routeColors = map[string]color.RGBA{
	"A": blueACE, "C": blueACE, "E": blueACE,
	"B": orangeBDFM, "D": orangeBDFM, "F": orangeBDFM, "M": orangeBDFM,
	"N": yellowNQRW, "Q": yellowNQRW, "R": yellowNQRW, "W": yellowNQRW,
	"1": red123, "2": red123, "3": red123,
	"4": green456, "5": green456, "6": green456,
	"7": purple7,
	"L": greyL,
	"G": limeG,
	"J": brownJZ, "Z": brownJZ,
	"S": shuttleGrey,
}

// RouteColor returns the line color for route, or white for unknown routes.
func RouteColor(route string) color.RGBA {
	if c, ok := routeColors[strings.ToUpper(strings.TrimSpace(route))]; ok {
		return c
	}
	return DefaultColor
}
