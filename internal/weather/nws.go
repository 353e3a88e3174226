package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	DefaultUserAgent       = "mini-display/1.0 (contact: you@example.com)"
	DefaultPointsBaseURL   = "https://api.weather.gov"
	DefaultGeocodeBaseURL  = "https://api.zippopotam.us/us"
	DefaultGeocodeTimeout  = 5 * time.Second
	DefaultForecastTimeout = 6 * time.Second

	maxBodyBytes = 4 << 20
)

// NWSClient geocodes US ZIP codes through zippopotam.us and reads forecasts
// from the National Weather Service (points -> forecast -> periods).
type NWSClient struct {
	HTTP            *http.Client
	UserAgent       string
	PointsBaseURL   string
	GeocodeBaseURL  string
	GeocodeTimeout  time.Duration
	ForecastTimeout time.Duration
}

func NewNWSClient() *NWSClient {
	return &NWSClient{
		HTTP:            &http.Client{},
		UserAgent:       DefaultUserAgent,
		PointsBaseURL:   DefaultPointsBaseURL,
		GeocodeBaseURL:  DefaultGeocodeBaseURL,
		GeocodeTimeout:  DefaultGeocodeTimeout,
		ForecastTimeout: DefaultForecastTimeout,
	}
}

type zippopotamResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

type pointsResponse struct {
	Properties struct {
		Forecast string `json:"forecast"`
	} `json:"properties"`
}

type forecastResponse struct {
	Properties struct {
		Periods []struct {
			Name            string   `json:"name"`
			Temperature     *float64 `json:"temperature"`
			TemperatureUnit string   `json:"temperatureUnit"`
			ShortForecast   string   `json:"shortForecast"`
		} `json:"periods"`
	} `json:"properties"`
}

// Geocode resolves a ZIP code to the coordinates of its first place.
// Every failure is wrapped in ErrGeocode.
func (c *NWSClient) Geocode(ctx context.Context, zip string) (Coordinates, error) {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return Coordinates{}, fmt.Errorf("%w: empty zip", ErrGeocode)
	}
	ctx, cancel := context.WithTimeout(ctx, c.geocodeTimeout())
	defer cancel()

	body, err := c.get(ctx, strings.TrimRight(c.geocodeBase(), "/")+"/"+url.PathEscape(zip), nil)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrGeocode, err)
	}
	coords, err := parseZippopotam(body)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: %w", ErrGeocode, err)
	}
	return coords, nil
}

// Forecast returns the forecast periods for at. Every failure is wrapped in ErrForecast.
func (c *NWSClient) Forecast(ctx context.Context, at Coordinates) ([]Period, error) {
	headers := map[string]string{
		"User-Agent": c.userAgent(),
		"Accept":     "application/geo+json",
	}

	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", strings.TrimRight(c.pointsBase(), "/"), at.Lat, at.Lon)
	body, err := c.getWithTimeout(ctx, pointsURL, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: points: %w", ErrForecast, err)
	}
	forecastURL, err := parsePoints(body)
	if err != nil {
		return nil, fmt.Errorf("%w: points: %w", ErrForecast, err)
	}

	body, err = c.getWithTimeout(ctx, forecastURL, headers)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast: %w", ErrForecast, err)
	}
	periods, err := parseForecast(body)
	if err != nil {
		return nil, fmt.Errorf("%w: forecast: %w", ErrForecast, err)
	}
	return periods, nil
}

func (c *NWSClient) getWithTimeout(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.forecastTimeout())
	defer cancel()
	return c.get(ctx, rawURL, headers)
}

func (c *NWSClient) get(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
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
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

func parseZippopotam(body []byte) (Coordinates, error) {
	var payload zippopotamResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Coordinates{}, fmt.Errorf("decode zippopotam: %w", err)
	}
	if len(payload.Places) == 0 {
		return Coordinates{}, fmt.Errorf("no places in response")
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(payload.Places[0].Latitude), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(payload.Places[0].Longitude), 64)
	if err != nil {
		return Coordinates{}, fmt.Errorf("longitude: %w", err)
	}
	return Coordinates{Lat: lat, Lon: lon}, nil
}

func parsePoints(body []byte) (string, error) {
	var payload pointsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode points: %w", err)
	}
	if payload.Properties.Forecast == "" {
		return "", fmt.Errorf("points response has no forecast url")
	}
	return payload.Properties.Forecast, nil
}

func parseForecast(body []byte) ([]Period, error) {
	var payload forecastResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	periods := make([]Period, 0, len(payload.Properties.Periods))
	for _, p := range payload.Properties.Periods {
		periods = append(periods, Period{
			Name:          p.Name,
			Temperature:   p.Temperature,
			Unit:          p.TemperatureUnit,
			ShortForecast: p.ShortForecast,
		})
	}
	return periods, nil
}

func (c *NWSClient) userAgent() string {
	if c.UserAgent == "" {
		return DefaultUserAgent
	}
	return c.UserAgent
}

func (c *NWSClient) pointsBase() string {
	if c.PointsBaseURL == "" {
		return DefaultPointsBaseURL
	}
	return c.PointsBaseURL
}

func (c *NWSClient) geocodeBase() string {
	if c.GeocodeBaseURL == "" {
		return DefaultGeocodeBaseURL
	}
	return c.GeocodeBaseURL
}

func (c *NWSClient) geocodeTimeout() time.Duration {
	if c.GeocodeTimeout <= 0 {
		return DefaultGeocodeTimeout
	}
	return c.GeocodeTimeout
}

func (c *NWSClient) forecastTimeout() time.Duration {
	if c.ForecastTimeout <= 0 {
		return DefaultForecastTimeout
	}
	return c.ForecastTimeout
}
