package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mini-display/minidisplay/internal/config"
	"github.com/mini-display/minidisplay/internal/display"
	"github.com/mini-display/minidisplay/internal/state"
	"github.com/mini-display/minidisplay/internal/transit"
	"github.com/mini-display/minidisplay/internal/weather"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func printedConfig(t *testing.T, args ...string) map[string]any {
	t.Helper()
	out, err := execute(t, append([]string{"config"}, args...)...)
	require.NoError(t, err, out)
	values := map[string]any{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &values))
	return values
}

func TestConfigDefaults(t *testing.T) {
	values := printedConfig(t)
	assert.Equal(t, 6, values["cycle-seconds"])
	assert.Equal(t, "A,C,F,R", values["routes"])
	assert.Equal(t, []any{"Jay St-MetroTech"}, values["station"])
	assert.Equal(t, []any{"Melbourne=Australia/Melbourne", "New York=America/New_York"}, values["timezone"])
	assert.Equal(t, "5m0s", values["weather-ttl"])
	assert.NotContains(t, values, "lat")
	assert.NotContains(t, values, "feed-api-key")
	assert.NotContains(t, values, "config")
}

func TestConfigFileFillsUnsetFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "display.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
cycle-seconds: 9
routes: F,G
station:
  - High St
widgets: [clock, qr]
weather-ttl: 120
lat: 40.7
lon: -73.99
timezones:
  - city: Tokyo
    timezone: Asia/Tokyo
`), 0o644))

	values := printedConfig(t, "--config", path, "--cycle-seconds", "4")
	assert.Equal(t, 4, values["cycle-seconds"], "explicit flags win over the file")
	assert.Equal(t, "F,G", values["routes"])
	assert.Equal(t, []any{"High St"}, values["station"])
	assert.Equal(t, []any{"clock", "qr"}, values["widgets"])
	assert.Equal(t, []any{"Tokyo=Asia/Tokyo"}, values["timezone"])
	assert.Equal(t, "2m0s", values["weather-ttl"])
	assert.Equal(t, 40.7, values["lat"])
	assert.Equal(t, -73.99, values["lon"])
}

func TestPrintedConfigReadsBack(t *testing.T) {
	out, err := execute(t, "config", "--zip", "10001", "--timezone", "Paris=Europe/Paris", "--transit-ttl", "45s")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "roundtrip.yaml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o644))

	values := printedConfig(t, "--config", path)
	assert.Equal(t, "10001", values["zip"])
	assert.Equal(t, []any{"Paris=Europe/Paris"}, values["timezone"])
	assert.Equal(t, "45s", values["transit-ttl"])
}

func TestEnvironmentFillsUnsetFlags(t *testing.T) {
	t.Setenv("MINIDISPLAY_ZIP", "94103")
	t.Setenv("MINIDISPLAY_WIDGETS", "clock,weather")
	t.Setenv("MINIDISPLAY_MAX_ARRIVALS", "3")

	values := printedConfig(t)
	assert.Equal(t, "94103", values["zip"])
	assert.Equal(t, []any{"clock", "weather"}, values["widgets"])
	assert.Equal(t, 3, values["max-arrivals"])
}

func TestConfigRejectsInvalidValues(t *testing.T) {
	_, err := execute(t, "config", "--rows", "0")
	assert.ErrorContains(t, err, "rows must be positive")

	_, err = execute(t, "config", "--timezone", "=Asia/Tokyo")
	assert.ErrorContains(t, err, "City=Area/Zone")

	_, err = execute(t, "config", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestWidgetsCommand(t *testing.T) {
	out, err := execute(t, "widgets", "--widgets", "clock,transit")
	require.NoError(t, err)
	assert.Contains(t, out, "clock (active)\n")
	assert.Contains(t, out, "transit (active)\n")
	assert.Contains(t, out, "qr\n")
	assert.NotContains(t, out, "weather (active)")
}

func TestResolveCoordinatesOnlyWhenSet(t *testing.T) {
	f := &runFlags{}
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerFlags(fs, f)
	require.NoError(t, fs.Parse([]string{"--lat", "40.5", "--routes", " a, ,f "}))

	cfg, err := f.resolve(fs)
	require.NoError(t, err)
	require.NotNil(t, cfg.Lat)
	assert.Equal(t, 40.5, *cfg.Lat)
	assert.Nil(t, cfg.Lon)
	assert.False(t, cfg.HasCoordinates())
	assert.Equal(t, []string{"A", "F"}, cfg.Routes)
}

type stubWeather struct{}

func (stubWeather) Geocode(ctx context.Context, zip string) (weather.Coordinates, error) {
	return weather.DefaultCoordinates, nil
}

func (stubWeather) Forecast(ctx context.Context, at weather.Coordinates) ([]weather.Period, error) {
	temp := 68.0
	return []weather.Period{{Name: "Now", Temperature: &temp, Unit: "F"}}, nil
}

type stubFeed struct{}

func (stubFeed) Trips(ctx context.Context, route string) ([]transit.Trip, error) {
	return nil, nil
}

func memoryConfig() config.Config {
	cfg := config.Default()
	cfg.Sink = display.SinkMemory
	return cfg
}

func TestBuildRuntime(t *testing.T) {
	cfg := memoryConfig()
	cfg.Widgets = []string{"clock", "subway", "weather"}

	rt, err := buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"clock", "transit", "weather"}, rt.Widgets)
	assert.Nil(t, rt.Web)
	assert.IsType(t, &display.MemorySink{}, rt.Sink)
	assert.Len(t, rt.Store.Snapshot().Widgets, 3)

	cfg.Listen = "127.0.0.1:0"
	cfg.Widgets = append(cfg.Widgets, "qr")
	rt, err = buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	require.NoError(t, err)
	require.NotNil(t, rt.Web)
	assert.Equal(t, []string{"clock", "transit", "weather", "qr"}, rt.Web.Deps.Active)
}

func TestBuildRuntimeErrors(t *testing.T) {
	cfg := memoryConfig()
	cfg.Widgets = []string{"clock", "nope"}
	_, err := buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	assert.ErrorContains(t, err, "nope")

	cfg = memoryConfig()
	cfg.Sink = "hologram"
	_, err = buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	assert.ErrorIs(t, err, display.ErrUnknownSink)

	cfg = memoryConfig()
	cfg.FontPath = filepath.Join(t.TempDir(), "missing.ttf")
	_, err = buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	assert.ErrorContains(t, err, "load font")

	cfg = memoryConfig()
	cfg.StopsFile = filepath.Join(t.TempDir(), "missing.txt")
	_, err = buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}})
	assert.ErrorContains(t, err, "load stops")
}

func TestRuntimeRunsUntilCancelled(t *testing.T) {
	cfg := memoryConfig()
	rt, err := buildRuntime(cfg, runtimeOptions{Weather: stubWeather{}, Transit: stubFeed{}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.App.Start(ctx) }()

	require.Eventually(t, func() bool { return rt.Store.Snapshot().Cycles >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop")
	}
	mem := rt.Sink.(*display.MemorySink)
	assert.True(t, mem.Closed())
	assert.Equal(t, uint64(1), mem.Clears())
	assert.Equal(t, state.STOPPED, rt.Store.Snapshot().Phase)
}
