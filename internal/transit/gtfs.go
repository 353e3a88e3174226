package transit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

const (
	DefaultFeedBaseURL = "https://api-endpoint.mta.info/Dataservice/mtagtfsfeeds/"
	DefaultFeedTimeout = 10 * time.Second
	// DefaultFeedCacheAge lets routes sharing one feed reuse a download within a refresh.
	DefaultFeedCacheAge = 10 * time.Second

	maxFeedBytes = 32 << 20
)

// feedPaths maps NYCT route ids to the feed that carries them.
var feedPaths = map[string]string{
	"A": "nyct%2Fgtfs-ace", "C": "nyct%2Fgtfs-ace", "E": "nyct%2Fgtfs-ace", "H": "nyct%2Fgtfs-ace", "FS": "nyct%2Fgtfs-ace",
	"B": "nyct%2Fgtfs-bdfm", "D": "nyct%2Fgtfs-bdfm", "F": "nyct%2Fgtfs-bdfm", "FX": "nyct%2Fgtfs-bdfm", "M": "nyct%2Fgtfs-bdfm",
	"G": "nyct%2Fgtfs-g",
	"J": "nyct%2Fgtfs-jz", "Z": "nyct%2Fgtfs-jz",
	"N": "nyct%2Fgtfs-nqrw", "Q": "nyct%2Fgtfs-nqrw", "R": "nyct%2Fgtfs-nqrw", "W": "nyct%2Fgtfs-nqrw",
	"L": "nyct%2Fgtfs-l",
	"SI": "nyct%2Fgtfs-si", "SIR": "nyct%2Fgtfs-si",
	"1": "nyct%2Fgtfs", "2": "nyct%2Fgtfs", "3": "nyct%2Fgtfs", "4": "nyct%2Fgtfs", "5": "nyct%2Fgtfs",
	"6": "nyct%2Fgtfs", "6X": "nyct%2Fgtfs", "7": "nyct%2Fgtfs", "7X": "nyct%2Fgtfs", "GS": "nyct%2Fgtfs", "S": "nyct%2Fgtfs",
}

// GTFSClient reads NYCT GTFS-realtime protobuf feeds.
type GTFSClient struct {
	HTTP     *http.Client
	BaseURL  string
	APIKey   string
	Stops    *StopTable
	Timeout  time.Duration
	CacheAge time.Duration

	now   func() time.Time
	mu    sync.Mutex
	cache map[string]cachedFeed
}

type cachedFeed struct {
	at  time.Time
	msg *gtfs.FeedMessage
}

func NewGTFSClient(stops *StopTable) *GTFSClient {
	if stops == nil {
		stops = DefaultStops()
	}
	return &GTFSClient{
		HTTP:     &http.Client{},
		BaseURL:  DefaultFeedBaseURL,
		Stops:    stops,
		Timeout:  DefaultFeedTimeout,
		CacheAge: DefaultFeedCacheAge,
	}
}

// FeedURL returns the feed URL carrying route.
func (c *GTFSClient) FeedURL(route string) (string, error) {
	path, ok := feedPaths[strings.ToUpper(strings.TrimSpace(route))]
	if !ok {
		return "", fmt.Errorf("no feed known for route %q", route)
	}
	base := c.BaseURL
	if base == "" {
		base = DefaultFeedBaseURL
	}
	return strings.TrimRight(base, "/") + "/" + path, nil
}

// Trips returns the trips of route found in its feed.
func (c *GTFSClient) Trips(ctx context.Context, route string) ([]Trip, error) {
	feedURL, err := c.FeedURL(route)
	if err != nil {
		return nil, err
	}
	msg, err := c.feed(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	return tripsForRoute(msg, route, c.Stops), nil
}

func (c *GTFSClient) feed(ctx context.Context, feedURL string) (*gtfs.FeedMessage, error) {
	now := c.clock()
	c.mu.Lock()
	if cached, ok := c.cache[feedURL]; ok && c.CacheAge > 0 && now.Sub(cached.at) < c.CacheAge {
		c.mu.Unlock()
		return cached.msg, nil
	}
	c.mu.Unlock()

	msg, err := c.fetch(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.cache == nil {
		c.cache = make(map[string]cachedFeed)
	}
	c.cache[feedURL] = cachedFeed{at: now, msg: msg}
	c.mu.Unlock()
	return msg, nil
}

func (c *GTFSClient) fetch(ctx context.Context, feedURL string) (*gtfs.FeedMessage, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}
	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, err
	}
	msg := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, msg); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	return msg, nil
}

func (c *GTFSClient) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func tripsForRoute(msg *gtfs.FeedMessage, route string, stops *StopTable) []Trip {
	var trips []Trip
	for _, entity := range msg.GetEntity() {
		tu := entity.GetTripUpdate()
		if tu == nil {
			continue
		}
		desc := tu.GetTrip()
		if !strings.EqualFold(desc.GetRouteId(), route) {
			continue
		}
		trip := Trip{TripID: desc.GetTripId(), RouteID: desc.GetRouteId()}
		for _, stu := range tu.GetStopTimeUpdate() {
			stopID := stu.GetStopId()
			trip.StopTimeUpdates = append(trip.StopTimeUpdates, StopTimeUpdate{
				StopID:    stopID,
				StopName:  stops.Name(stopID),
				Arrival:   eventTime(stu.GetArrival()),
				Departure: eventTime(stu.GetDeparture()),
			})
			if trip.Direction == "" {
				_, trip.Direction = SplitStopID(stopID)
			}
		}
		if trip.Direction == "" {
			trip.Direction = directionFromTripID(trip.TripID)
		}
		trips = append(trips, trip)
	}
	return trips
}

func eventTime(ev *gtfs.TripUpdate_StopTimeEvent) time.Time {
	if ev == nil || ev.GetTime() == 0 {
		return time.Time{}
	}
	return time.Unix(ev.GetTime(), 0)
}

// directionFromTripID reads the NYCT trip id convention "<origin>_<route>..<dir><path>".
func directionFromTripID(tripID string) string {
	_, rest, ok := strings.Cut(tripID, "..")
	if !ok || rest == "" {
		return ""
	}
	switch rest[0] {
	case 'N', 'S':
		return rest[:1]
	}
	return ""
}
