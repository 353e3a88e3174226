package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/transit"
	"github.com/mini-display/minidisplay/internal/weather"
)

var simNow = time.Date(2024, 3, 1, 8, 0, 20, 0, time.UTC)

func newTestControl(t *testing.T) *SimControl {
	t.Helper()
	c := NewSimControl("", []string{"A", "F"})
	c.now = func() time.Time { return simNow }
	require.NoError(t, c.ApplyScenario(""))
	return c
}

func TestScenarios(t *testing.T) {
	c := newTestControl(t)
	assert.Equal(t, "normal", c.Scenario())
	assert.Equal(t, SimFaults{}, c.Faults())

	require.NoError(t, c.ApplyScenario("offline"))
	faults := c.Faults()
	assert.True(t, faults.WeatherFail)
	assert.Equal(t, []string{"A", "F"}, faults.FailRoutes)

	require.NoError(t, c.ApplyScenario("cold"))
	assert.Equal(t, 14.0, c.TempF())
	assert.False(t, c.Faults().WeatherFail, "scenarios start from a clean slate")

	require.NoError(t, c.ApplyScenario("broken"))
	assert.Contains(t, c.Faults().RenderFail, "clock")

	assert.Error(t, c.ApplyScenario("flooded"))
	assert.Equal(t, "broken", c.Scenario())

	require.NoError(t, c.Reset())
	assert.Equal(t, "normal", c.Scenario())
	assert.Equal(t, defaultTempF, c.TempF())
}

func TestSimWeather(t *testing.T) {
	c := newTestControl(t)
	src := SimWeather{Control: c}

	p, err := weather.Current(context.Background(), src, weather.DefaultCoordinates)
	require.NoError(t, err)
	celsius, err := p.Celsius()
	require.NoError(t, err)
	assert.Equal(t, 20, celsius)

	c.SetFaults(SimFaults{WeatherFail: true})
	_, err = src.Geocode(context.Background(), "11201")
	assert.ErrorIs(t, err, weather.ErrGeocode)
	_, err = weather.Current(context.Background(), src, weather.DefaultCoordinates)
	assert.ErrorIs(t, err, weather.ErrForecast)
}

func TestSimFeed(t *testing.T) {
	c := newTestControl(t)
	feed := SimFeed{Control: c, Station: config.DefaultStation}

	trips, err := feed.Trips(context.Background(), "a")
	require.NoError(t, err)
	assert.Len(t, trips, 2*simTrainsPerDirection)
	for _, trip := range trips {
		assert.Equal(t, "A", trip.RouteID)
		at, ok := trip.StopTimeUpdates[1].When()
		require.True(t, ok)
		assert.True(t, at.After(simNow), "trains are always in the future")
	}

	arrivals, err := transit.Collect(context.Background(), feed, []string{"A", "F"}, transit.NewMatcher([]string{config.DefaultStation}), simNow)
	require.NoError(t, err)
	require.NotEmpty(t, arrivals)
	for i := 1; i < len(arrivals); i++ {
		assert.LessOrEqual(t, arrivals[i-1].Minutes, arrivals[i].Minutes)
	}

	c.SetFaults(SimFaults{FailRoutes: []string{"f"}})
	_, err = feed.Trips(context.Background(), "F")
	assert.ErrorContains(t, err, "simulated feed outage")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = feed.Trips(ctx, "A")
	assert.ErrorIs(t, err, context.Canceled)
}

func newTestSimulator(t *testing.T, c *SimControl, names ...string) *simulator {
	t.Helper()
	cfg := config.Default()
	cfg.Widgets = names
	cfg.Listen = "127.0.0.1:0"
	sim, err := newSimulator(cfg, c, simOptions{})
	require.NoError(t, err)
	return sim
}

func TestRenderFaultShowsErrorFrame(t *testing.T) {
	c := newTestControl(t)
	sim := newTestSimulator(t, c, "clock", "weather")

	sim.app.Scheduler.Step(context.Background())
	assert.False(t, sim.store.Snapshot().Frame.Failed)

	c.SetFaults(SimFaults{RenderFail: []string{"weather"}})
	sim.app.Scheduler.Step(context.Background())
	snap := sim.store.Snapshot()
	assert.Equal(t, "weather", snap.Frame.Widget)
	assert.True(t, snap.Frame.Failed)
	assert.Equal(t, uint64(1), snap.Widgets[1].RenderFailures)

	_, frames := sim.mirror.Frame()
	assert.Equal(t, uint64(2), frames)
}

func simRequest(t *testing.T, sim *simulator, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	sim.server.Handler.ServeHTTP(rec, req)
	return rec
}

func TestSimEndpoints(t *testing.T) {
	c := newTestControl(t)
	sim := newTestSimulator(t, c, "clock", "transit")

	rec := simRequest(t, sim, http.MethodPost, "/sim/faults", `{"weatherFail": true, "failRoutes": ["A"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SimFaults{WeatherFail: true, FailRoutes: []string{"A"}}, c.Faults())

	rec = simRequest(t, sim, http.MethodPost, "/sim/faults", `{"renderFail": ["clock"]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SimFaults{WeatherFail: true, FailRoutes: []string{"A"}, RenderFail: []string{"clock"}}, c.Faults(), "posts patch the current faults")

	rec = simRequest(t, sim, http.MethodGet, "/sim/faults", "")
	assert.Contains(t, rec.Body.String(), `"renderFail":["clock"]`)

	rec = simRequest(t, sim, http.MethodPost, "/sim/faults", `nope`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = simRequest(t, sim, http.MethodPost, "/sim/weather", `{"tempF": 50}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 50.0, c.TempF())
	rec = simRequest(t, sim, http.MethodPost, "/sim/weather", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = simRequest(t, sim, http.MethodPost, "/sim/scenario/cold", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cold", c.Scenario())
	rec = simRequest(t, sim, http.MethodPost, "/sim/scenario/unknown", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = simRequest(t, sim, http.MethodGet, "/sim/reset", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	rec = simRequest(t, sim, http.MethodPost, "/sim/reset", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, SimFaults{}, c.Faults())

	sim.app.Scheduler.Step(context.Background())
	rec = simRequest(t, sim, http.MethodGet, "/sim/sink", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"frames":1`)

	rec = simRequest(t, sim, http.MethodGet, "/api/v1/widgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"active":["clock","transit"]`)
}

func TestTrimLeadingColon(t *testing.T) {
	assert.Equal(t, "127.0.0.1:8080", trimLeadingColon(""))
	assert.Equal(t, "127.0.0.1:9000", trimLeadingColon(":9000"))
	assert.Equal(t, "display.local:80", trimLeadingColon("display.local:80"))
}
