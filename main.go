package main

import (
	// Zone data for --timezone on systems without /usr/share/zoneinfo.
	_ "time/tzdata"

	"github.com/mini-display/minidisplay/internal/cli"
)

func main() {
	cli.Execute()
}
