package weather

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	stderrors "iris-assistant/internal/common/errors"
	"iris-assistant/internal/common/logger"
	"iris-assistant/internal/models"
)

const geocodeBody = `{"results":[{"name":"Mumbai","country":"India","latitude":19.07283,"longitude":72.88261}]}`

const forecastBody = `{
	"current":{
		"temperature_2m":31.4,"relative_humidity_2m":74,"apparent_temperature":36.2,
		"weather_code":3,"surface_pressure":1004.6,"wind_speed_10m":12.9,
		"wind_direction_10m":290,"visibility":24140
	},
	"daily":{
		"temperature_2m_max":[32.1],"temperature_2m_min":[27.3],
		"sunrise":["2026-08-28T06:21"],"sunset":["2026-08-28T18:58"],
		"uv_index_max":[8.5]
	}
}`

func testServers(t *testing.T, geocode, forecast http.HandlerFunc) *Client {
	t.Helper()
	geoServer := httptest.NewServer(geocode)
	fcServer := httptest.NewServer(forecast)
	t.Cleanup(geoServer.Close)
	t.Cleanup(fcServer.Close)

	return NewClient(&Config{
		GeocodeBaseURL:  geoServer.URL,
		ForecastBaseURL: fcServer.URL,
		Timeout:         2 * time.Second,
	}, logger.NewTestLogger(t))
}

func TestCurrentMetric(t *testing.T) {
	client := testServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "Mumbai", q.Get("name"))
			assert.Equal(t, "1", q.Get("count"))
			assert.Equal(t, "en", q.Get("language"))
			assert.Equal(t, "json", q.Get("format"))
			fmt.Fprint(w, geocodeBody)
		},
		func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "kmh", q.Get("wind_speed_unit"))
			assert.Empty(t, q.Get("temperature_unit"))
			assert.Contains(t, q.Get("current"), "wind_direction_10m")
			assert.Contains(t, q.Get("daily"), "uv_index_max")
			assert.Equal(t, "auto", q.Get("timezone"))
			fmt.Fprint(w, forecastBody)
		})

	snap, err := client.Current(context.Background(), "Mumbai", models.UnitMetric)
	assert.NoError(t, err)
	assert.Equal(t, "Mumbai", snap.City)
	assert.Equal(t, "India", snap.Country)
	assert.Equal(t, "31.4°C", snap.Temp)
	assert.Equal(t, "36.2°C", snap.FeelsLike)
	assert.Equal(t, "Overcast", snap.Desc)
	assert.Equal(t, 74.0, snap.Humidity)
	assert.Equal(t, "12.9 km/h WNW", snap.Wind)
	assert.Equal(t, "24.1 km", snap.Visibility)
	assert.Equal(t, "1004.6 hPa", snap.Pressure)
	assert.Equal(t, "8.5", snap.UVIndex)
	assert.Equal(t, "32.1°C", snap.High)
	assert.Equal(t, "27.3°C", snap.Low)
	assert.Equal(t, "06:21", snap.Sunrise)
	assert.Equal(t, "18:58", snap.Sunset)
}

func TestCurrentImperialUnits(t *testing.T) {
	client := testServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, geocodeBody)
		},
		func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "fahrenheit", q.Get("temperature_unit"))
			assert.Equal(t, "mph", q.Get("wind_speed_unit"))
			fmt.Fprint(w, forecastBody)
		})

	snap, err := client.Current(context.Background(), "Mumbai", models.UnitImperial)
	assert.NoError(t, err)
	assert.Equal(t, "31.4°F", snap.Temp)
	assert.Contains(t, snap.Wind, "mph")
}

func TestCurrentCityNotFound(t *testing.T) {
	client := testServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"results":[]}`)
		},
		func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("forecast must not be called when geocoding misses")
		})

	_, err := client.Current(context.Background(), "Atlantis", models.UnitMetric)
	assert.True(t, stderrors.IsNotFound(err))
	assert.Contains(t, err.Error(), "City not found: Atlantis")
}

func TestCurrentMissingVisibility(t *testing.T) {
	client := testServers(t,
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, geocodeBody)
		},
		func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"current":{"temperature_2m":20,"weather_code":0,"wind_speed_10m":5,"wind_direction_10m":0},"daily":{}}`)
		})

	snap, err := client.Current(context.Background(), "Mumbai", models.UnitMetric)
	assert.NoError(t, err)
	assert.Equal(t, "N/A", snap.Visibility)
	assert.Equal(t, "N/A", snap.UVIndex)
	assert.Equal(t, "N/A", snap.Sunrise)
	assert.Equal(t, "Clear sky", snap.Desc)
}

func TestCurrentGeocodeTimeout(t *testing.T) {
	blocked := make(chan struct{})
	geoServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer geoServer.Close()
	defer close(blocked)

	client := NewClient(&Config{
		GeocodeBaseURL:  geoServer.URL,
		ForecastBaseURL: geoServer.URL,
		Timeout:         50 * time.Millisecond,
	}, logger.NewTestLogger(t))

	_, err := client.Current(context.Background(), "Mumbai", models.UnitMetric)
	assert.True(t, stderrors.IsTimeout(err))
}

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{290, "WNW"},
		{315, "NW"},
		{337.5, "NNW"},
		{360, "N"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CompassDirection(tc.deg), "deg: %v", tc.deg)
	}
}

func TestDescribeCode(t *testing.T) {
	assert.Equal(t, "Clear sky", DescribeCode(0))
	assert.Equal(t, "Fog", DescribeCode(45))
	assert.Equal(t, "Thunderstorm with heavy hail", DescribeCode(99))
	assert.Equal(t, "Unknown", DescribeCode(42))
}
