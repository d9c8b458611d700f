// Package weather fetches current conditions from Open-Meteo: a geocoding
// lookup resolves the city, then a forecast call fills the snapshot.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/httpclient"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const serviceName = "weather"

const (
	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,precipitation,weather_code,surface_pressure,wind_speed_10m,wind_direction_10m,visibility"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset,uv_index_max"
)

type Config struct {
	GeocodeBaseURL  string
	ForecastBaseURL string
	Timeout         time.Duration
}

type Client struct {
	config *Config
	client *httpclient.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		client: httpclient.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"adapter": "weather",
		}),
	}
}

// Current resolves the city and returns a fully formatted snapshot in the
// requested unit system.
func (c *Client) Current(ctx context.Context, city string, unit models.TemperatureUnit) (*models.WeatherSnapshot, error) {
	loc, err := c.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	forecast, err := c.forecast(ctx, loc.Latitude, loc.Longitude, unit)
	if err != nil {
		return nil, err
	}

	tempUnit := "°C"
	windUnit := "km/h"
	if unit == models.UnitImperial {
		tempUnit = "°F"
		windUnit = "mph"
	}

	cur := forecast.Current
	daily := forecast.Daily

	snapshot := &models.WeatherSnapshot{
		City:      loc.Name,
		Country:   loc.Country,
		Temp:      formatNumber(cur.Temperature) + tempUnit,
		FeelsLike: formatNumber(cur.ApparentTemperature) + tempUnit,
		Desc:      DescribeCode(cur.WeatherCode),
		Humidity:  cur.RelativeHumidity,
		Wind: fmt.Sprintf("%s %s %s",
			formatNumber(cur.WindSpeed), windUnit, CompassDirection(cur.WindDirection)),
		Visibility: formatVisibility(cur.Visibility),
		Pressure:   formatNumber(cur.SurfacePressure) + " hPa",
		UVIndex:    "N/A",
		High:       "N/A",
		Low:        "N/A",
		Sunrise:    "N/A",
		Sunset:     "N/A",
	}

	if len(daily.UVIndexMax) > 0 {
		snapshot.UVIndex = formatNumber(daily.UVIndexMax[0])
	}
	if len(daily.TemperatureMax) > 0 {
		snapshot.High = formatNumber(daily.TemperatureMax[0]) + tempUnit
	}
	if len(daily.TemperatureMin) > 0 {
		snapshot.Low = formatNumber(daily.TemperatureMin[0]) + tempUnit
	}
	if len(daily.Sunrise) > 0 {
		snapshot.Sunrise = timeOfDay(daily.Sunrise[0])
	}
	if len(daily.Sunset) > 0 {
		snapshot.Sunset = timeOfDay(daily.Sunset[0])
	}

	return snapshot, nil
}

type location struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c *Client) geocode(ctx context.Context, city string) (*location, error) {
	params := url.Values{}
	params.Set("name", city)
	params.Set("count", "1")
	params.Set("language", "en")
	params.Set("format", "json")

	resp, err := c.client.GetJSON(ctx, c.config.GeocodeBaseURL, params)
	if err != nil {
		if httpclient.IsTimeout(ctx, err) {
			return nil, stderrors.NewTimeoutError(serviceName)
		}
		return nil, stderrors.NewNetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	var body struct {
		Results []location `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, stderrors.NewUpstreamAPIError(serviceName, "Geocoding returned an unreadable response")
	}
	if len(body.Results) == 0 {
		return nil, stderrors.NewNotFoundError("City not found: " + city)
	}

	loc := body.Results[0]
	if loc.Name == "" {
		loc.Name = city
	}
	return &loc, nil
}

type forecastResponse struct {
	Current struct {
		Temperature         float64  `json:"temperature_2m"`
		RelativeHumidity    float64  `json:"relative_humidity_2m"`
		ApparentTemperature float64  `json:"apparent_temperature"`
		WeatherCode         int      `json:"weather_code"`
		SurfacePressure     float64  `json:"surface_pressure"`
		WindSpeed           float64  `json:"wind_speed_10m"`
		WindDirection       float64  `json:"wind_direction_10m"`
		Visibility          *float64 `json:"visibility"`
	} `json:"current"`
	Daily struct {
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		Sunrise        []string  `json:"sunrise"`
		Sunset         []string  `json:"sunset"`
		UVIndexMax     []float64 `json:"uv_index_max"`
	} `json:"daily"`
}

func (c *Client) forecast(ctx context.Context, lat, lon float64, unit models.TemperatureUnit) (*forecastResponse, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", currentFields)
	params.Set("daily", dailyFields)
	params.Set("timezone", "auto")
	if unit == models.UnitImperial {
		params.Set("temperature_unit", "fahrenheit")
		params.Set("wind_speed_unit", "mph")
	} else {
		params.Set("wind_speed_unit", "kmh")
	}

	resp, err := c.client.GetJSON(ctx, c.config.ForecastBaseURL, params)
	if err != nil {
		if httpclient.IsTimeout(ctx, err) {
			return nil, stderrors.NewTimeoutError(serviceName)
		}
		return nil, stderrors.NewNetworkError(serviceName, err)
	}
	defer resp.Body.Close()

	var body forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, stderrors.NewUpstreamAPIError(serviceName, "Forecast returned an unreadable response")
	}
	return &body, nil
}

var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// DescribeCode maps a WMO weather code to display text.
func DescribeCode(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

var compassDirections = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// CompassDirection buckets a wind bearing in degrees into 16 compass points.
func CompassDirection(deg float64) string {
	idx := int(math.Round(deg/22.5)) % 16
	return compassDirections[idx]
}

// formatNumber renders without trailing zeros, matching upstream values.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatVisibility(meters *float64) string {
	if meters == nil {
		return "N/A"
	}
	km := math.Round(*meters/100) / 10
	return formatNumber(km) + " km"
}

// timeOfDay returns the clock part of an ISO-8601 stamp.
func timeOfDay(stamp string) string {
	if i := strings.LastIndex(stamp, "T"); i >= 0 {
		return stamp[i+1:]
	}
	return stamp
}
