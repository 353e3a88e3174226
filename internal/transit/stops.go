package transit

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mini-display/minidisplay/internal/assets"
)

// StopTable maps GTFS stop ids to station names.
type StopTable struct {
	names map[string]string
}

// DefaultStops parses the embedded stop subset.
func DefaultStops() *StopTable {
	t, err := ParseStops(bytes.NewReader(assets.StopsCSV))
	if err != nil {
		panic(fmt.Sprintf("embedded stops.csv: %v", err))
	}
	return t
}

// LoadStops reads a GTFS stops.txt file.
func LoadStops(path string) (*StopTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseStops(f)
}

// ParseStops reads CSV with at least stop_id and stop_name columns, in any order.
func ParseStops(r io.Reader) (*StopTable, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idCol, nameCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case "stop_id":
			idCol = i
		case "stop_name":
			nameCol = i
		}
	}
	if idCol < 0 || nameCol < 0 {
		return nil, errors.New("stops csv needs stop_id and stop_name columns")
	}

	t := &StopTable{names: make(map[string]string)}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if idCol >= len(rec) || nameCol >= len(rec) {
			continue
		}
		id := strings.TrimSpace(rec[idCol])
		if id != "" {
			t.names[id] = strings.TrimSpace(rec[nameCol])
		}
	}
	return t, nil
}

// Name returns the station name for a stop id. Platform ids such as "A41N"
// fall back to their parent station "A41".
func (t *StopTable) Name(stopID string) string {
	if t == nil {
		return ""
	}
	if n, ok := t.names[stopID]; ok {
		return n
	}
	if parent, dir := SplitStopID(stopID); dir != "" {
		return t.names[parent]
	}
	return ""
}

func (t *StopTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// SplitStopID separates a NYCT platform id into station and direction ("N" or "S").
func SplitStopID(stopID string) (station, direction string) {
	if n := len(stopID); n > 1 {
		switch stopID[n-1] {
		case 'N', 'S':
			return stopID[:n-1], stopID[n-1:]
		}
	}
	return stopID, ""
}
