// Package assets holds files compiled into the binary.
package assets

import (
	"embed"
	"io/fs"
)

var (
	// StopsCSV is a GTFS stops.txt subset covering the default stations.
	//
	//go:embed stops.csv
	StopsCSV []byte

	//go:embed web
	webFS embed.FS

	// WebUI is the preview page tree with index.html at its root.
	WebUI = mustSub(webFS, "web")
)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
