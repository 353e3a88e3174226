package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, []string{"A", "C", "F", "R"}, cfg.Routes)
	assert.Equal(t, []string{"Jay St-MetroTech"}, cfg.Stations)
	assert.Equal(t, "11201", cfg.Zip)
	assert.Equal(t, 6*time.Second, cfg.CycleDuration())
	assert.Equal(t, []string{"clock", "transit", "weather"}, cfg.Widgets)
	assert.False(t, cfg.HasCoordinates())

	// defaults are copies, not shared slices
	cfg.Widgets[0] = "qr"
	assert.Equal(t, "clock", Default().Widgets[0])
}

func TestParseRoutes(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "A,C,F,R", want: []string{"A", "C", "F", "R"}},
		{in: " a , c,, f ", want: []string{"A", "C", "F"}},
		{in: "", want: nil},
		{in: "si,7", want: []string{"SI", "7"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseRoutes(tt.in))
		})
	}
}

func TestParseTimezone(t *testing.T) {
	tz, err := ParseTimezone("Tokyo=Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, TimezoneConfig{City: "Tokyo", Timezone: "Asia/Tokyo"}, tz)

	tz, err = ParseTimezone("Europe/Paris")
	require.NoError(t, err)
	assert.Equal(t, TimezoneConfig{City: "Local", Timezone: "Europe/Paris"}, tz)

	_, err = ParseTimezone("=Asia/Tokyo")
	assert.Error(t, err)
	_, err = ParseTimezone("  ")
	assert.Error(t, err)
}

func TestCycleDurationClamp(t *testing.T) {
	for secs, want := range map[int]time.Duration{-1: 2 * time.Second, 0: 2 * time.Second, 1: 2 * time.Second, 2: 2 * time.Second, 10: 10 * time.Second} {
		cfg := Default()
		cfg.CycleSeconds = secs
		assert.Equal(t, want, cfg.CycleDuration(), "cycle %d", secs)
	}
}

func TestValidate(t *testing.T) {
	lat := 123.0
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "no widgets", mutate: func(c *Config) { c.Widgets = nil }},
		{name: "bad lat", mutate: func(c *Config) { c.Lat = &lat }},
		{name: "negative ttl", mutate: func(c *Config) { c.WeatherTTL = -time.Second }},
		{name: "font without size", mutate: func(c *Config) { c.FontPath = "x.ttf"; c.FontSize = 0 }},
		{name: "bad matrix", mutate: func(c *Config) { c.Matrix.PWMBits = 0 }},
		{name: "timezone without city", mutate: func(c *Config) { c.Timezones = []TimezoneConfig{{Timezone: "UTC"}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
